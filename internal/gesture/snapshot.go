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
	"blockcanvas/internal/scene"
)

type RectView struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func rectView(r geom.Rectangle) RectView {
	return RectView{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Rect converts the view back into a rectangle.
func (v RectView) Rect() geom.Rectangle {
	return geom.Rectangle{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

type PointView struct {
	ID   string       `json:"id"`
	Side diagram.Side `json:"side"`
	X    int          `json:"x"`
	Y    int          `json:"y"`
}

type BlockView struct {
	ID     string      `json:"id"`
	Rect   RectView    `json:"rect"`
	Points []PointView `json:"points"`
}

type ChildView struct {
	Key  string   `json:"key"`
	Rect RectView `json:"rect"`
}

type StackView struct {
	ID       string      `json:"id"`
	Rect     RectView    `json:"rect"`
	Children []ChildView `json:"children"`
}

type LineView struct {
	ID string `json:"id,omitempty"`
	X1 int    `json:"x1"`
	Y1 int    `json:"y1"`
	X2 int    `json:"x2"`
	Y2 int    `json:"y2"`
}

// Snapshot is everything a renderer needs, in absolute canvas coordinates.
type Snapshot struct {
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Mode      Mode        `json:"mode"`
	Cursor    string      `json:"cursor"`
	Blocks    []BlockView `json:"blocks"`
	Stacks    []StackView `json:"stacks"`
	Links     []LineView  `json:"links"`
	Preview   *LineView   `json:"preview,omitempty"`
	Selection *RectView   `json:"selection,omitempty"`
	Menu      *Menu       `json:"menu,omitempty"`
}

// Snapshot captures the current visual state.
func (e *Engine) Snapshot() Snapshot {
	b := e.board
	w, h := b.Size()
	s := Snapshot{
		Width:  w,
		Height: h,
		Mode:   e.mode,
		Cursor: e.cursor,
		Blocks: make([]BlockView, 0, len(b.Blocks())),
		Stacks: make([]StackView, 0, len(b.Stacks())),
		Links:  make([]LineView, 0, len(b.Links())),
		Menu:   e.menu,
	}
	for _, blk := range b.Blocks() {
		bv := BlockView{ID: blk.ID, Rect: rectView(blk.Rect), Points: make([]PointView, 0, len(blk.Points))}
		for _, p := range blk.Points {
			x, y := p.Position()
			bv.Points = append(bv.Points, PointView{ID: p.ID, Side: p.Side, X: x, Y: y})
		}
		s.Blocks = append(s.Blocks, bv)
	}
	for _, st := range b.Stacks() {
		sv := StackView{ID: st.ID, Rect: rectView(st.Primitive().AbsBounds())}
		for i, c := range st.Primitive().Children() {
			key := ""
			if i < len(st.Children) {
				key = st.ChildKey(i)
			}
			sv.Children = append(sv.Children, ChildView{Key: key, Rect: rectView(c.AbsBounds())})
		}
		s.Stacks = append(s.Stacks, sv)
	}
	for _, l := range b.Links() {
		if x1, y1, x2, y2, ok := b.LinkEnds(l); ok {
			s.Links = append(s.Links, LineView{ID: l.ID, X1: x1, Y1: y1, X2: x2, Y2: y2})
		}
	}
	if e.mode == Connecting {
		x, y := diagram.PointOn(e.source.Rect, e.sourceAnchor.Side, e.sourceAnchor.Fraction)
		s.Preview = &LineView{X1: x, Y1: y, X2: e.px, Y2: e.py}
	}
	if e.selection != "" {
		if p, ok := b.Layer().Lookup(e.selection); ok {
			r := rectView(p.AbsBounds())
			s.Selection = &r
		}
	}
	return s
}

// Paint walks the tree in paint order with absolute bounds. Renderers that
// draw every primitive, not just blocks and stacks, use it.
func (e *Engine) Paint(fn func(p *scene.Primitive, abs geom.Rectangle)) {
	scene.Walk(e.board.Layer().Root(), fn)
}
