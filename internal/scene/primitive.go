/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scene is the primitive tree used for hit-testing and drawing.
// A primitive is either a leaf rectangle or a stack that groups children in
// its own coordinate space. The set of kinds is closed, so dispatch is a
// switch on Kind rather than an interface.
package scene

import "blockcanvas/internal/geom"

// Kind discriminates the primitive variants.
type Kind int

const (
	KindRect Kind = iota
	KindStack
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindStack:
		return "stack"
	default:
		return "unknown"
	}
}

// Primitive is a node of the tree.
//
// For KindRect the geometry lives in rect, which may be shared with the
// owner of the rectangle (a diagram block) so that edits made through either
// side are seen by both. For KindStack x/y is the origin in the parent's
// space and w/h are derived from the children.
type Primitive struct {
	Kind Kind

	rect *geom.Rectangle

	x, y     int
	w, h     int
	fixed    bool
	children []*Primitive
	parent   *Primitive
}

// NewRect wraps r as a leaf. The primitive keeps the pointer.
func NewRect(r *geom.Rectangle) *Primitive {
	return &Primitive{Kind: KindRect, rect: r}
}

// NewStack creates a stack at (x, y) and adopts the given children.
// The bounding box is valid when NewStack returns.
func NewStack(x, y int, children ...*Primitive) *Primitive {
	s := &Primitive{Kind: KindStack, x: x, y: y}
	s.Add(children...)
	return s
}

// newCanvas creates a root stack with a fixed size that is never derived.
func newCanvas(w, h int) *Primitive {
	return &Primitive{Kind: KindStack, w: w, h: h, fixed: true}
}

// Rect returns the backing rectangle of a leaf, nil for stacks.
func (p *Primitive) Rect() *geom.Rectangle { return p.rect }

// Parent returns the enclosing stack or nil for a root.
func (p *Primitive) Parent() *Primitive { return p.parent }

// Children returns the direct children of a stack.
func (p *Primitive) Children() []*Primitive { return p.children }

// Bounds returns the primitive's rectangle in its parent's coordinate space.
func (p *Primitive) Bounds() geom.Rectangle {
	switch p.Kind {
	case KindRect:
		return *p.rect
	case KindStack:
		return geom.Rectangle{X: p.x, Y: p.y, Width: p.w, Height: p.h}
	}
	return geom.Rectangle{}
}

// Origin is the top-left corner in the parent's space.
func (p *Primitive) Origin() (int, int) {
	b := p.Bounds()
	return b.X, b.Y
}

// MoveTo sets the origin. Children of a stack follow since they are stored in
// local coordinates.
func (p *Primitive) MoveTo(x, y int) {
	switch p.Kind {
	case KindRect:
		p.rect.MoveTo(x, y)
	case KindStack:
		p.x, p.y = x, y
	}
	p.parent.recomputeUp()
}

// Add appends children to a stack and recomputes the bounding boxes of the
// stack and of every enclosing stack.
func (p *Primitive) Add(children ...*Primitive) {
	if p.Kind != KindStack {
		return
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.detach(c)
		}
		c.parent = p
		p.children = append(p.children, c)
	}
	p.recomputeUp()
}

// Remove detaches c from the stack. It reports whether c was a child.
func (p *Primitive) Remove(c *Primitive) bool {
	if p.Kind != KindStack || c == nil || c.parent != p {
		return false
	}
	p.detach(c)
	p.recomputeUp()
	return true
}

func (p *Primitive) detach(c *Primitive) {
	for i, ch := range p.children {
		if ch == c {
			p.children = append(p.children[:i:i], p.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// Recompute derives the stack size from its direct children:
// width = max(child.x+child.width) - min(child.x), height likewise.
// Leaves and fixed roots are left untouched.
func (p *Primitive) Recompute() {
	if p.Kind != KindStack || p.fixed {
		return
	}
	if len(p.children) == 0 {
		p.w, p.h = 0, 0
		return
	}
	first := p.children[0].Bounds()
	minX, minY := first.X, first.Y
	maxX, maxY := first.Right(), first.Bottom()
	for _, c := range p.children[1:] {
		b := c.Bounds()
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
		maxX = max(maxX, b.Right())
		maxY = max(maxY, b.Bottom())
	}
	p.w = maxX - minX
	p.h = maxY - minY
}

// Touch recomputes the enclosing stacks after the leaf geometry changed
// outside of MoveTo, e.g. after a resize through the shared rectangle.
func (p *Primitive) Touch() { p.parent.recomputeUp() }

func (p *Primitive) recomputeUp() {
	for s := p; s != nil; s = s.parent {
		s.Recompute()
	}
}

// AbsBounds returns the bounds in root coordinates.
func (p *Primitive) AbsBounds() geom.Rectangle {
	b := p.Bounds()
	for a := p.parent; a != nil; a = a.parent {
		ox, oy := a.Origin()
		b.X += ox
		b.Y += oy
	}
	return b
}

// Depth is 0 for a root, 1 for its children and so on.
func (p *Primitive) Depth() int {
	d := 0
	for a := p.parent; a != nil; a = a.parent {
		d++
	}
	return d
}

// containsInclusive is the tree's hit rule: boundary points are hits.
func containsInclusive(b geom.Rectangle, px, py int) bool {
	return b.X <= px && px <= b.Right() && b.Y <= py && py <= b.Bottom()
}

// FindAt returns the root-to-leaf path of primitives containing (px, py).
// The root is tested in its own parent space; each stack tests its children
// against the point translated into the stack's local space. Later siblings
// are on top and win. A miss on the root yields nil.
func FindAt(root *Primitive, px, py int) []*Primitive {
	if root == nil {
		return nil
	}
	b := root.Bounds()
	if !containsInclusive(b, px, py) {
		return nil
	}
	return descend(root, px-b.X, py-b.Y, []*Primitive{root})
}

func descend(p *Primitive, lx, ly int, path []*Primitive) []*Primitive {
	if p.Kind != KindStack {
		return path
	}
	for i := len(p.children) - 1; i >= 0; i-- {
		c := p.children[i]
		b := c.Bounds()
		if containsInclusive(b, lx, ly) {
			return descend(c, lx-b.X, ly-b.Y, append(path, c))
		}
	}
	return path
}

// Walk visits p and its descendants depth first in paint order, passing
// absolute bounds.
func Walk(p *Primitive, fn func(p *Primitive, abs geom.Rectangle)) {
	if p == nil {
		return
	}
	walk(p, 0, 0, fn)
}

func walk(p *Primitive, ox, oy int, fn func(*Primitive, geom.Rectangle)) {
	b := p.Bounds()
	b.X += ox
	b.Y += oy
	fn(p, b)
	for _, c := range p.children {
		walk(c, b.X, b.Y, fn)
	}
}
