/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"strings"

	"blockcanvas/internal/gesture"
)

// Cell runes.
const (
	runeEmpty    = ' '
	runeLink     = '·'
	runePreview  = '*'
	runePoint    = 'o'
	runeSelected = '#'
)

// grid is a character raster of one snapshot; one cell is one canvas unit.
type grid struct {
	w, h  int
	cells [][]rune
}

func newGrid(w, h int) *grid {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g := &grid{w: w, h: h, cells: make([][]rune, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(string(runeEmpty), w))
	}
	return g
}

func (g *grid) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = r
}

// line draws with Bresenham steps.
func (g *grid) line(x0, y0, x1, y1 int, r rune) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0, r)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// box draws the outline of a rectangle whose right and bottom edges are
// exclusive, matching canvas geometry.
func (g *grid) box(r gesture.RectView, corner rune) {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width-1, r.Y+r.Height-1
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, '─')
		g.set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, '│')
		g.set(x1, y, '│')
	}
	if corner != 0 {
		g.set(x0, y0, corner)
		g.set(x1, y0, corner)
		g.set(x0, y1, corner)
		g.set(x1, y1, corner)
		return
	}
	g.set(x0, y0, '┌')
	g.set(x1, y0, '┐')
	g.set(x0, y1, '└')
	g.set(x1, y1, '┘')
}

func (g *grid) text(x, y int, s string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r)
	}
}

func (g *grid) String() string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// render rasterizes s at width w and height h, links first, then stacks,
// blocks, points, the selection and the open menu.
func render(s gesture.Snapshot, w, h int) *grid {
	g := newGrid(w, h)
	for _, l := range s.Links {
		g.line(l.X1, l.Y1, l.X2, l.Y2, runeLink)
	}
	if p := s.Preview; p != nil {
		g.line(p.X1, p.Y1, p.X2, p.Y2, runePreview)
	}
	for _, st := range s.Stacks {
		for _, c := range st.Children {
			g.box(c.Rect, '+')
		}
	}
	for _, b := range s.Blocks {
		g.box(b.Rect, 0)
		for _, p := range b.Points {
			g.set(p.X, p.Y, runePoint)
		}
	}
	if r := s.Selection; r != nil {
		g.box(*r, runeSelected)
	}
	if m := s.Menu; m != nil {
		for i, it := range m.Items {
			g.text(m.X+1, m.Y+1+i, "["+string(rune('1'+i))+"] "+it.Label)
		}
	}
	return g
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
