/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package diagram

import (
	"encoding/json"
	"fmt"

	"blockcanvas/internal/geom"
)

// State is the serializable form of a board. It is used for undo
// checkpoints and is never written to disk by the board itself.
type State struct {
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Order  []string     `json:"order"`
	Blocks []BlockState `json:"blocks"`
	Stacks []StackState `json:"stacks"`
	Links  []LinkState  `json:"links"`
}

type BlockState struct {
	ID     string       `json:"id"`
	X      int          `json:"x"`
	Y      int          `json:"y"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	Points []PointState `json:"points,omitempty"`
}

type PointState struct {
	ID       string  `json:"id"`
	Side     Side    `json:"side"`
	Fraction float64 `json:"fraction"`
}

type StackState struct {
	ID       string      `json:"id"`
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Children []ChildSpec `json:"children"`
}

type LinkState struct {
	ID string `json:"id"`
	A  string `json:"a"`
	B  string `json:"b"`
}

// State captures the board.
func (b *Board) State() State {
	w, h := b.Size()
	st := State{Width: w, Height: h}
	for _, p := range b.layer.Root().Children() {
		if k, ok := b.layer.Key(p); ok {
			st.Order = append(st.Order, k)
		}
	}
	for _, blk := range b.blocks {
		bs := BlockState{ID: blk.ID, X: blk.Rect.X, Y: blk.Rect.Y, Width: blk.Rect.Width, Height: blk.Rect.Height}
		for _, p := range blk.Points {
			bs.Points = append(bs.Points, PointState{ID: p.ID, Side: p.Side, Fraction: p.Fraction})
		}
		st.Blocks = append(st.Blocks, bs)
	}
	for _, s := range b.stacks {
		x, y := s.prim.Origin()
		st.Stacks = append(st.Stacks, StackState{ID: s.ID, X: x, Y: y, Children: append([]ChildSpec(nil), s.Children...)})
	}
	for _, l := range b.links {
		st.Links = append(st.Links, LinkState{ID: l.ID, A: l.A, B: l.B})
	}
	return st
}

// Restore replaces the board content with st. Identifiers are kept.
func (b *Board) Restore(st State) error {
	blocks := make(map[string]BlockState, len(st.Blocks))
	for _, bs := range st.Blocks {
		blocks[bs.ID] = bs
	}
	stacks := make(map[string]StackState, len(st.Stacks))
	for _, ss := range st.Stacks {
		stacks[ss.ID] = ss
	}

	b.Clear()
	if st.Width > 0 && st.Height > 0 {
		b.Resize(st.Width, st.Height)
	}
	for _, id := range st.Order {
		if bs, ok := blocks[id]; ok {
			blk := b.addBlock(bs.ID, geom.NewRect(bs.X, bs.Y, bs.Width, bs.Height))
			for _, ps := range bs.Points {
				if _, err := b.addPoint(blk, ps.ID, Anchor{Side: ps.Side, Fraction: ps.Fraction}); err != nil {
					return fmt.Errorf("restore point %s: %w", ps.ID, err)
				}
			}
			continue
		}
		if ss, ok := stacks[id]; ok {
			if len(ss.Children) == 0 {
				return fmt.Errorf("restore stack %s: %w", ss.ID, ErrEmptyStack)
			}
			b.addStack(ss.ID, ss.X, ss.Y, ss.Children)
			continue
		}
		return fmt.Errorf("restore: unknown element %q in order", id)
	}
	for _, ls := range st.Links {
		if b.points[ls.A] == nil || b.points[ls.B] == nil {
			return fmt.Errorf("restore link %s: %w", ls.ID, ErrPointNotFound)
		}
		b.links = append(b.links, &Link{ID: ls.ID, A: ls.A, B: ls.B})
	}
	return nil
}

// MarshalState encodes the board state as JSON.
func (b *Board) MarshalState() ([]byte, error) { return json.Marshal(b.State()) }

// RestoreJSON decodes data and restores it.
func (b *Board) RestoreJSON(data []byte) error {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode board state: %w", err)
	}
	return b.Restore(st)
}
