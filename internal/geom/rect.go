/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the integer rectangle used by blocks together with the
// resize handles and the tolerance based handle resolver.
package geom

import "fmt"

// MinSize is the smallest width or height a Rectangle may have.
const MinSize = 5

// Rectangle is an axis-aligned rectangle in canvas pixels.
// Edges are derived from the origin and size and never stored separately,
// so right-left == width holds by construction.
type Rectangle struct {
	X, Y          int
	Width, Height int
}

// NewRect returns a rectangle with width and height clamped to MinSize.
func NewRect(x, y, w, h int) Rectangle {
	return Rectangle{X: x, Y: y, Width: atLeast(w, MinSize), Height: atLeast(h, MinSize)}
}

func (r Rectangle) Left() int   { return r.X }
func (r Rectangle) Top() int    { return r.Y }
func (r Rectangle) Right() int  { return r.X + r.Width }
func (r Rectangle) Bottom() int { return r.Y + r.Height }

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Contains reports whether the point lies strictly inside the rectangle.
// Points on an edge belong to the handles, not to the interior.
func (r Rectangle) Contains(px, py int) bool {
	return r.Left() < px && px < r.Right() && r.Top() < py && py < r.Bottom()
}

// InDragArea is Contains shrunk by the handle tolerance on every side.
func (r Rectangle) InDragArea(px, py, tolerance int) bool {
	return r.Left()+tolerance < px && px < r.Right()-tolerance &&
		r.Top()+tolerance < py && py < r.Bottom()-tolerance
}

// MoveTo places the top-left corner at (px, py) keeping the size.
func (r *Rectangle) MoveTo(px, py int) {
	r.X = px
	r.Y = py
}

// ResizeTo moves the edge(s) named by h to the pointer. The edge opposite to
// the handle stays fixed; when the minimum size kicks in the moving edge is
// pushed back to MinSize away from it. Corners resize the vertical edge and
// then the horizontal one, the two axes never interact.
func (r *Rectangle) ResizeTo(h Handle, px, py int) {
	switch h {
	case Left:
		r.resizeLeft(px)
	case Right:
		r.resizeRight(px)
	case Top:
		r.resizeTop(py)
	case Bottom:
		r.resizeBottom(py)
	case TopLeft:
		r.resizeTop(py)
		r.resizeLeft(px)
	case TopRight:
		r.resizeTop(py)
		r.resizeRight(px)
	case BottomLeft:
		r.resizeBottom(py)
		r.resizeLeft(px)
	case BottomRight:
		r.resizeBottom(py)
		r.resizeRight(px)
	}
}

func (r *Rectangle) resizeLeft(px int) {
	right := r.Right()
	r.Width = atLeast(right-px, MinSize)
	r.X = right - r.Width
}

func (r *Rectangle) resizeRight(px int) {
	r.Width = atLeast(px-r.X, MinSize)
}

func (r *Rectangle) resizeTop(py int) {
	bottom := r.Bottom()
	r.Height = atLeast(bottom-py, MinSize)
	r.Y = bottom - r.Height
}

func (r *Rectangle) resizeBottom(py int) {
	r.Height = atLeast(py-r.Y, MinSize)
}

func atLeast(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

// Abs returns the absolute value of v.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
