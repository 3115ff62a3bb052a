/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "strings"

// Handle names one of the eight resize regions of a rectangle.
type Handle int

const (
	None Handle = iota
	Left
	TopLeft
	Top
	TopRight
	Right
	BottomRight
	Bottom
	BottomLeft
)

// Cursor names understood by the hosts.
const (
	CursorDefault = "default"
	CursorMove    = "move"
	CursorEW      = "ew-resize"
	CursorNS      = "ns-resize"
	CursorNWSE    = "nwse-resize"
	CursorNESW    = "nesw-resize"
)

var handleNames = [...]string{
	None:        "none",
	Left:        "left",
	TopLeft:     "topleft",
	Top:         "top",
	TopRight:    "topright",
	Right:       "right",
	BottomRight: "bottomright",
	Bottom:      "bottom",
	BottomLeft:  "bottomleft",
}

func (h Handle) String() string {
	if h < None || int(h) >= len(handleNames) {
		return "none"
	}
	return handleNames[h]
}

// ParseHandle is the inverse of String. Unknown names map to None.
func ParseHandle(s string) Handle {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range handleNames {
		if n == s {
			return Handle(i)
		}
	}
	return None
}

// IsCorner reports whether h moves two edges.
func (h Handle) IsCorner() bool {
	switch h {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return true
	}
	return false
}

// Cursor returns the pointer cursor a host should show over the handle.
func (h Handle) Cursor() string {
	switch h {
	case Left, Right:
		return CursorEW
	case Top, Bottom:
		return CursorNS
	case TopLeft, BottomRight:
		return CursorNWSE
	case TopRight, BottomLeft:
		return CursorNESW
	default:
		return CursorDefault
	}
}
