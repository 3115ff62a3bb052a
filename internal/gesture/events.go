/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

// Event is emitted to subscribers after the engine state has settled.
type Event interface {
	// Kind is a stable name used by hosts and the event stream.
	Kind() string
}

// PrimitiveClicked carries the keys of the clicked path, outermost first.
type PrimitiveClicked struct {
	Keys []string `json:"keys"`
}

// EmptySpaceClicked is a click that hit no keyed element.
type EmptySpaceClicked struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type LinkCreated struct {
	LinkID string `json:"link"`
	A      string `json:"a"`
	B      string `json:"b"`
}

// ConnectionCancelled reports an abandoned connection: released over no
// block, over the source block, or cancelled explicitly.
type ConnectionCancelled struct {
	Source string `json:"source"`
}

type BlockCreated struct {
	BlockID string `json:"block"`
}

// Changed reports a committed edit (move, resize, delete, undo, redo).
type Changed struct {
	Label string `json:"label"`
}

func (PrimitiveClicked) Kind() string    { return "primitive-clicked" }
func (EmptySpaceClicked) Kind() string   { return "empty-space-clicked" }
func (LinkCreated) Kind() string         { return "link-created" }
func (ConnectionCancelled) Kind() string { return "connection-cancelled" }
func (BlockCreated) Kind() string        { return "block-created" }
func (Changed) Kind() string             { return "changed" }
