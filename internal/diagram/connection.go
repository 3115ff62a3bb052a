/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package diagram

import (
	"fmt"
	"math"
	"strings"

	"blockcanvas/internal/geom"
)

// Side is the block edge a connection point sits on.
type Side int

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

func (s Side) Valid() bool { return s >= SideLeft && s <= SideBottom }

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidSide
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "left":
		*s = SideLeft
	case "top":
		*s = SideTop
	case "right":
		*s = SideRight
	case "bottom":
		*s = SideBottom
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSide, string(b))
	}
	return nil
}

// ConnectionPoint is anchored at Fraction along Side of its block, measured
// from the top-left end of that side. Its position is derived from the
// block's current rectangle every time it is asked for.
type ConnectionPoint struct {
	ID       string
	Side     Side
	Fraction float64

	block *Block
}

// Block returns the owning block.
func (p *ConnectionPoint) Block() *Block { return p.block }

// Position resolves the point against the owner's rectangle.
func (p *ConnectionPoint) Position() (int, int) {
	if p.block == nil {
		return 0, 0
	}
	return PointOn(p.block.Rect, p.Side, p.Fraction)
}

// PointOn computes the canvas position of (side, fraction) on r.
func PointOn(r geom.Rectangle, side Side, fraction float64) (int, int) {
	var x, y int
	switch side {
	case SideLeft:
		x = r.Left()
	case SideRight:
		x = r.Right()
	default:
		x = r.Left() + int(math.Round(fraction*float64(r.Width)))
	}
	switch side {
	case SideTop:
		y = r.Top()
	case SideBottom:
		y = r.Bottom()
	default:
		y = r.Top() + int(math.Round(fraction*float64(r.Height)))
	}
	return x, y
}

// Link connects two connection points. It holds no geometry.
type Link struct {
	ID   string
	A, B string
}

// Touches reports whether the link uses the point id.
func (l *Link) Touches(pointID string) bool { return l.A == pointID || l.B == pointID }

// Anchor is a side and fraction not yet attached to a block.
type Anchor struct {
	Side     Side
	Fraction float64
}

// AnchorFromHandle converts a resolved handle and pointer into an anchor.
// Edges map to their side; corners map to the horizontal side they touch.
func AnchorFromHandle(r geom.Rectangle, h geom.Handle, px, py int) (Anchor, bool) {
	var side Side
	switch h {
	case geom.Left:
		side = SideLeft
	case geom.Right:
		side = SideRight
	case geom.Top, geom.TopLeft, geom.TopRight:
		side = SideTop
	case geom.Bottom, geom.BottomLeft, geom.BottomRight:
		side = SideBottom
	default:
		return Anchor{}, false
	}
	return anchorOn(r, side, px, py), true
}

// NearestAnchor projects the pointer onto the closest side of r.
// Ties go to left, top, right, bottom in that order.
func NearestAnchor(r geom.Rectangle, px, py int) Anchor {
	dist := [4]int{
		SideLeft:   geom.Abs(px - r.Left()),
		SideTop:    geom.Abs(py - r.Top()),
		SideRight:  geom.Abs(r.Right() - px),
		SideBottom: geom.Abs(r.Bottom() - py),
	}
	best := SideLeft
	for s := SideTop; s <= SideBottom; s++ {
		if dist[s] < dist[best] {
			best = s
		}
	}
	return anchorOn(r, best, px, py)
}

func anchorOn(r geom.Rectangle, side Side, px, py int) Anchor {
	switch side {
	case SideTop, SideBottom:
		return Anchor{Side: side, Fraction: fractionAlong(px-r.Left(), r.Width)}
	default:
		return Anchor{Side: side, Fraction: fractionAlong(py-r.Top(), r.Height)}
	}
}

// fractionAlong keeps the result in (0,1] with one pixel as the lower bound.
func fractionAlong(offset, length int) float64 {
	if length <= 0 {
		return 1
	}
	lo := 1 / float64(length)
	f := float64(offset) / float64(length)
	return math.Min(1, math.Max(lo, f))
}

func validFraction(f float64) bool { return f > 0 && f <= 1 && !math.IsNaN(f) }
