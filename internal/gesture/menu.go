/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"blockcanvas/internal/diagram"
	"blockcanvas/internal/geom"
)

// Menu item identifiers.
const (
	ItemCreateBlock        = "create-block"
	ItemAddConnectionPoint = "add-connection-point"
)

type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Menu is the open context menu. Hosts build the widget; the engine only
// tracks which actions are available at the position it was opened at.
type Menu struct {
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Items []MenuItem `json:"items"`

	border *diagram.Block
	handle geom.Handle
}

// Has reports whether the menu offers id.
func (m *Menu) Has(id string) bool {
	for _, it := range m.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func newMenu(x, y int, border *diagram.Block, h geom.Handle) *Menu {
	m := &Menu{X: x, Y: y, Items: []MenuItem{{ID: ItemCreateBlock, Label: "Create block"}}}
	if border != nil && h != geom.None {
		m.border, m.handle = border, h
		m.Items = append(m.Items, MenuItem{ID: ItemAddConnectionPoint, Label: "Add connection point starting here"})
	}
	return m
}
