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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockcanvas/internal/geom"
	"blockcanvas/internal/scene"
)

func TestCreateBlockDefaults(t *testing.T) {
	b := NewBoard(Options{})
	blk := b.CreateBlock(12, 34)
	assert.True(t, strings.HasPrefix(blk.ID, "blk-"))
	assert.Equal(t, geom.Rectangle{X: 12, Y: 34, Width: 50, Height: 50}, blk.Rect)

	got, err := b.Block(blk.ID)
	require.NoError(t, err)
	assert.Same(t, blk, got)

	path := b.Layer().FindAt(20, 40)
	require.Len(t, path, 2)
	assert.Same(t, blk, b.BlockOf(path[1]))
}

func TestBlockLookupErrors(t *testing.T) {
	b := NewBoard(Options{})
	_, err := b.Block("nope")
	assert.ErrorIs(t, err, ErrBlockNotFound)
	assert.ErrorIs(t, b.DeleteBlock("nope"), ErrBlockNotFound)
	assert.ErrorIs(t, b.DeleteStack("nope"), ErrStackNotFound)
	_, err = b.AddPoint("nope", Anchor{Side: SideTop, Fraction: 0.5})
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestPointPositionFormula(t *testing.T) {
	r := geom.NewRect(10, 20, 100, 50)
	cases := []struct {
		side   Side
		f      float64
		wx, wy int
	}{
		{SideLeft, 0.5, 10, 45},
		{SideRight, 0.25, 110, 33}, // 20 + round(12.5)
		{SideTop, 0.333, 43, 20},
		{SideBottom, 1, 110, 70},
	}
	for _, c := range cases {
		x, y := PointOn(r, c.side, c.f)
		assert.Equal(t, c.wx, x, "%s x", c.side)
		assert.Equal(t, c.wy, y, "%s y", c.side)
	}
}

func TestPointTracksBlockMove(t *testing.T) {
	b := NewBoard(Options{})
	blk := b.AddBlock(geom.NewRect(0, 0, 80, 40))
	p, err := b.AddPoint(blk.ID, Anchor{Side: SideBottom, Fraction: 0.3})
	require.NoError(t, err)

	x0, y0 := p.Position()
	dx, dy := x0-blk.Rect.X, y0-blk.Rect.Y
	blk.Primitive().MoveTo(200, 150)
	x1, y1 := p.Position()
	assert.Equal(t, 200+dx, x1)
	assert.Equal(t, 150+dy, y1)

	blk.Rect.ResizeTo(geom.Right, 400, 0)
	x2, _ := p.Position()
	assert.Equal(t, 200+60, x2, "fraction follows the new width")
}

func TestAddPointValidation(t *testing.T) {
	b := NewBoard(Options{})
	blk := b.CreateBlock(0, 0)
	_, err := b.AddPoint(blk.ID, Anchor{Side: SideTop, Fraction: 0})
	assert.ErrorIs(t, err, ErrInvalidFraction)
	_, err = b.AddPoint(blk.ID, Anchor{Side: SideTop, Fraction: 1.01})
	assert.ErrorIs(t, err, ErrInvalidFraction)
	_, err = b.AddPoint(blk.ID, Anchor{Side: Side(9), Fraction: 0.5})
	assert.ErrorIs(t, err, ErrInvalidSide)
	assert.Empty(t, blk.Points)
}

func TestAnchors(t *testing.T) {
	r := geom.NewRect(0, 0, 100, 50)

	a, ok := AnchorFromHandle(r, geom.Left, 0, 25)
	require.True(t, ok)
	assert.Equal(t, Anchor{Side: SideLeft, Fraction: 0.5}, a)

	a, _ = AnchorFromHandle(r, geom.TopLeft, 0, 0)
	assert.Equal(t, SideTop, a.Side)
	assert.InDelta(t, 0.01, a.Fraction, 1e-9, "corner clamps to one pixel")

	a, _ = AnchorFromHandle(r, geom.BottomRight, 101, 50)
	assert.Equal(t, Anchor{Side: SideBottom, Fraction: 1}, a)

	_, ok = AnchorFromHandle(r, geom.None, 1, 1)
	assert.False(t, ok)

	a = NearestAnchor(r, 90, 25)
	assert.Equal(t, SideRight, a.Side)
	assert.InDelta(t, 0.5, a.Fraction, 1e-9)

	a = NearestAnchor(r, 50, 45)
	assert.Equal(t, SideBottom, a.Side)
	assert.InDelta(t, 0.5, a.Fraction, 1e-9)
}

func TestConnectRejectsSelf(t *testing.T) {
	b := NewBoard(Options{})
	blk := b.CreateBlock(0, 0)
	p1, _ := b.AddPoint(blk.ID, Anchor{Side: SideTop, Fraction: 0.5})
	p2, _ := b.AddPoint(blk.ID, Anchor{Side: SideBottom, Fraction: 0.5})
	_, err := b.Connect(p1.ID, p2.ID)
	assert.ErrorIs(t, err, ErrSelfLink)

	_, err = b.ConnectAnchors(blk, Anchor{SideTop, 1}, blk, Anchor{SideLeft, 1})
	assert.ErrorIs(t, err, ErrSelfLink)
	assert.Len(t, blk.Points, 2)
	assert.Empty(t, b.Links())
}

func TestDeleteBlockCascades(t *testing.T) {
	b := NewBoard(Options{})
	a := b.CreateBlock(0, 0)
	c := b.CreateBlock(100, 0)
	d := b.CreateBlock(200, 0)
	l1, err := b.ConnectAnchors(a, Anchor{SideRight, 0.5}, c, Anchor{SideLeft, 0.5})
	require.NoError(t, err)
	l2, err := b.ConnectAnchors(c, Anchor{SideRight, 0.5}, d, Anchor{SideLeft, 0.5})
	require.NoError(t, err)

	require.NoError(t, b.DeleteBlock(a.ID))
	assert.Equal(t, []*Link{l2}, b.Links())
	assert.Nil(t, b.Point(l1.A))
	assert.NotNil(t, b.Point(l1.B), "the other end stays on its block")
	assert.Len(t, b.Blocks(), 2)
	_, ok := b.Layer().Lookup(a.ID)
	assert.False(t, ok)

	require.NoError(t, b.DeleteBlock(c.ID))
	assert.Empty(t, b.Links())
}

func TestCreateStack(t *testing.T) {
	b := NewBoard(Options{})
	_, err := b.CreateStack(0, 0, nil)
	assert.ErrorIs(t, err, ErrEmptyStack)

	s, err := b.CreateStack(10, 10, []ChildSpec{{X: 0, Y: 0, Width: 200, Height: 30}, {Key: "post", X: 0, Y: 30, Width: 30, Height: 100}})
	require.NoError(t, err)
	bb := s.Primitive().Bounds()
	assert.Equal(t, 200, bb.Width)
	assert.Equal(t, 130, bb.Height)

	path := b.Layer().FindAt(15, 60)
	require.Len(t, path, 3)
	assert.Equal(t, []string{s.ID, s.ID + "/post"}, b.Layer().Keys(path))
	assert.Same(t, s, b.StackOf(scene.TopLevel(path)))
	assert.Nil(t, b.BlockOnPath(path))
}

func TestFindBorderOrder(t *testing.T) {
	b := NewBoard(Options{})
	first := b.AddBlock(geom.NewRect(0, 0, 50, 50))
	b.AddBlock(geom.NewRect(50, 0, 50, 50))
	blk, h := b.FindBorder(50, 20, geom.HandleTolerance)
	assert.Same(t, first, blk)
	assert.Equal(t, geom.Right, h)

	blk, h = b.FindBorder(300, 300, geom.HandleTolerance)
	assert.Nil(t, blk)
	assert.Equal(t, geom.None, h)
}

func TestStateRoundTrip(t *testing.T) {
	b := NewBoard(Options{Width: 640, Height: 480})
	SeedDemo(b)
	blocks := b.Blocks()
	l, err := b.ConnectAnchors(blocks[0], Anchor{SideBottom, 0.5}, blocks[1], Anchor{SideTop, 0.5})
	require.NoError(t, err)

	data, err := b.MarshalState()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, string(data), `"side":"bottom"`)

	c := NewBoard(Options{})
	require.NoError(t, c.RestoreJSON(data))
	assert.Equal(t, b.State(), c.State())
	w, h := c.Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	x1, y1, x2, y2, ok := c.LinkEnds(c.Links()[0])
	require.True(t, ok)
	ex1, ey1, ex2, ey2, _ := b.LinkEnds(l)
	assert.Equal(t, []int{ex1, ey1, ex2, ey2}, []int{x1, y1, x2, y2})
}

func TestRestoreRejectsDanglingLink(t *testing.T) {
	b := NewBoard(Options{})
	err := b.Restore(State{Links: []LinkState{{ID: "l", A: "x", B: "y"}}})
	assert.ErrorIs(t, err, ErrPointNotFound)
	assert.Error(t, b.RestoreJSON([]byte("{")))
}
