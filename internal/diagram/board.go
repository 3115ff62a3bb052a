/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package diagram holds the editable model: blocks with their connection
// points, stacks built from declarative child lists, and links. A Board is
// the single context object that owns all of it together with the primitive
// tree used for hit-testing.
package diagram

import (
	"fmt"

	"github.com/google/uuid"

	"blockcanvas/internal/geom"
	"blockcanvas/internal/scene"
)

// DefaultBlockSize is the edge length of blocks created from the menu.
const DefaultBlockSize = 50

// Block is a user-manipulable rectangle.
type Block struct {
	ID     string
	Rect   geom.Rectangle
	Points []*ConnectionPoint

	prim *scene.Primitive
}

// Primitive returns the leaf in the board's tree that shares Rect.
func (b *Block) Primitive() *scene.Primitive { return b.prim }

// Point returns the block's connection point with the given id.
func (b *Block) Point(id string) (*ConnectionPoint, bool) {
	for _, p := range b.Points {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// ChildSpec declares one rectangle of a stack in the stack's local space.
type ChildSpec struct {
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Stack groups rectangles that move together.
type Stack struct {
	ID       string
	Children []ChildSpec

	prim  *scene.Primitive
	rects []*geom.Rectangle
}

func (s *Stack) Primitive() *scene.Primitive { return s.prim }

// ChildKey is the layer key of the i-th child: stack id and child key.
func (s *Stack) ChildKey(i int) string { return s.ID + "/" + s.Children[i].Key }

// Options configures a Board.
type Options struct {
	Width, Height int
	BlockSize     int
}

// Board owns blocks, stacks, links and the primitive tree.
// It is not safe for concurrent use.
type Board struct {
	opts   Options
	layer  *scene.Layer
	blocks []*Block
	stacks []*Stack
	links  []*Link

	blockByID map[string]*Block
	stackByID map[string]*Stack
	points    map[string]*ConnectionPoint
}

// NewBoard creates an empty board.
func NewBoard(opts Options) *Board {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	return &Board{
		opts:      opts,
		layer:     scene.NewLayer(opts.Width, opts.Height),
		blockByID: make(map[string]*Block),
		stackByID: make(map[string]*Stack),
		points:    make(map[string]*ConnectionPoint),
	}
}

func (b *Board) Options() Options    { return b.opts }
func (b *Board) Layer() *scene.Layer { return b.layer }
func (b *Board) Blocks() []*Block    { return b.blocks }
func (b *Board) Stacks() []*Stack    { return b.stacks }
func (b *Board) Links() []*Link      { return b.links }
func (b *Board) Size() (int, int)    { return b.layer.Size() }

// Resize changes the canvas size.
func (b *Board) Resize(w, h int) {
	b.opts.Width, b.opts.Height = w, h
	b.layer.Resize(w, h)
}

// Point returns a connection point by id, nil if unknown.
func (b *Board) Point(id string) *ConnectionPoint { return b.points[id] }

func newID(prefix string) string { return prefix + uuid.New().String()[:8] }

// CreateBlock adds a block of the default size with its top-left at (x, y).
func (b *Board) CreateBlock(x, y int) *Block {
	return b.addBlock(newID("blk-"), geom.NewRect(x, y, b.opts.BlockSize, b.opts.BlockSize))
}

// AddBlock adds a block with an explicit rectangle.
func (b *Board) AddBlock(r geom.Rectangle) *Block {
	return b.addBlock(newID("blk-"), geom.NewRect(r.X, r.Y, r.Width, r.Height))
}

func (b *Board) addBlock(id string, r geom.Rectangle) *Block {
	blk := &Block{ID: id, Rect: r}
	blk.prim = scene.NewRect(&blk.Rect)
	b.blocks = append(b.blocks, blk)
	b.blockByID[id] = blk
	b.layer.Add(blk.prim, id)
	return blk
}

// Block looks up a block by id.
func (b *Board) Block(id string) (*Block, error) {
	blk, ok := b.blockByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, id)
	}
	return blk, nil
}

// Stack looks up a stack by id.
func (b *Board) Stack(id string) (*Stack, error) {
	s, ok := b.stackByID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, id)
	}
	return s, nil
}

// CreateStack builds a stack at (x, y) from the child list. Children without
// a key get a generated one. The stack's bounding box is final on return.
func (b *Board) CreateStack(x, y int, children []ChildSpec) (*Stack, error) {
	if len(children) == 0 {
		return nil, ErrEmptyStack
	}
	return b.addStack(newID("stk-"), x, y, children), nil
}

func (b *Board) addStack(id string, x, y int, children []ChildSpec) *Stack {
	s := &Stack{ID: id, Children: make([]ChildSpec, len(children))}
	prims := make([]*scene.Primitive, len(children))
	for i, c := range children {
		if c.Key == "" {
			c.Key = fmt.Sprintf("c%d", i)
		}
		r := geom.NewRect(c.X, c.Y, c.Width, c.Height)
		c.Width, c.Height = r.Width, r.Height
		s.Children[i] = c
		s.rects = append(s.rects, &r)
		prims[i] = scene.NewRect(&r)
	}
	s.prim = scene.NewStack(x, y, prims...)
	b.stacks = append(b.stacks, s)
	b.stackByID[id] = s
	b.layer.Add(s.prim, id)
	for i, p := range prims {
		b.layer.SetKey(p, s.ChildKey(i))
	}
	return s
}

// DeleteBlock removes the block, its connection points and every link that
// touches one of them.
func (b *Board) DeleteBlock(id string) error {
	blk, err := b.Block(id)
	if err != nil {
		return err
	}
	for _, p := range blk.Points {
		b.dropLinksOf(p.ID)
		delete(b.points, p.ID)
	}
	b.layer.Remove(blk.prim)
	delete(b.blockByID, id)
	for i, x := range b.blocks {
		if x == blk {
			b.blocks = append(b.blocks[:i:i], b.blocks[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteStack removes a stack and its children.
func (b *Board) DeleteStack(id string) error {
	s, err := b.Stack(id)
	if err != nil {
		return err
	}
	b.layer.Remove(s.prim)
	delete(b.stackByID, id)
	for i, x := range b.stacks {
		if x == s {
			b.stacks = append(b.stacks[:i:i], b.stacks[i+1:]...)
			break
		}
	}
	return nil
}

func (b *Board) dropLinksOf(pointID string) {
	kept := b.links[:0]
	for _, l := range b.links {
		if !l.Touches(pointID) {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(b.links); i++ {
		b.links[i] = nil
	}
	b.links = kept
}

// AddPoint attaches a connection point to a block.
func (b *Board) AddPoint(blockID string, a Anchor) (*ConnectionPoint, error) {
	blk, err := b.Block(blockID)
	if err != nil {
		return nil, err
	}
	return b.addPoint(blk, newID("pt-"), a)
}

func (b *Board) addPoint(blk *Block, id string, a Anchor) (*ConnectionPoint, error) {
	if !a.Side.Valid() {
		return nil, ErrInvalidSide
	}
	if !validFraction(a.Fraction) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFraction, a.Fraction)
	}
	p := &ConnectionPoint{ID: id, Side: a.Side, Fraction: a.Fraction, block: blk}
	blk.Points = append(blk.Points, p)
	b.points[id] = p
	return p, nil
}

// Connect links two existing points. Points of the same block are refused.
func (b *Board) Connect(aID, bID string) (*Link, error) {
	pa, ok := b.points[aID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPointNotFound, aID)
	}
	pb, ok := b.points[bID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPointNotFound, bID)
	}
	if pa.block == pb.block {
		return nil, ErrSelfLink
	}
	l := &Link{ID: newID("lnk-"), A: aID, B: bID}
	b.links = append(b.links, l)
	return l, nil
}

// ConnectAnchors materializes a point on each block and links them in one
// step. Nothing is added when the blocks are the same.
func (b *Board) ConnectAnchors(src *Block, sa Anchor, dst *Block, da Anchor) (*Link, error) {
	if src == nil || dst == nil {
		return nil, ErrBlockNotFound
	}
	if src == dst {
		return nil, ErrSelfLink
	}
	if !sa.Side.Valid() || !da.Side.Valid() {
		return nil, ErrInvalidSide
	}
	if !validFraction(sa.Fraction) || !validFraction(da.Fraction) {
		return nil, ErrInvalidFraction
	}
	pa, err := b.addPoint(src, newID("pt-"), sa)
	if err != nil {
		return nil, err
	}
	pb, err := b.addPoint(dst, newID("pt-"), da)
	if err != nil {
		return nil, err
	}
	return b.Connect(pa.ID, pb.ID)
}

// LinkEnds resolves both endpoints of l.
func (b *Board) LinkEnds(l *Link) (x1, y1, x2, y2 int, ok bool) {
	pa, okA := b.points[l.A]
	pb, okB := b.points[l.B]
	if !okA || !okB {
		return 0, 0, 0, 0, false
	}
	x1, y1 = pa.Position()
	x2, y2 = pb.Position()
	return x1, y1, x2, y2, true
}

// BlockOf returns the block whose leaf is p, nil otherwise.
func (b *Board) BlockOf(p *scene.Primitive) *Block {
	if p == nil {
		return nil
	}
	k, ok := b.layer.Key(p)
	if !ok {
		return nil
	}
	return b.blockByID[k]
}

// StackOf returns the stack whose node is p, nil otherwise.
func (b *Board) StackOf(p *scene.Primitive) *Stack {
	if p == nil {
		return nil
	}
	k, ok := b.layer.Key(p)
	if !ok {
		return nil
	}
	return b.stackByID[k]
}

// BlockOnPath returns the block that owns any element of a hit path.
func (b *Board) BlockOnPath(path []*scene.Primitive) *Block {
	for i := len(path) - 1; i >= 0; i-- {
		if blk := b.BlockOf(path[i]); blk != nil {
			return blk
		}
	}
	return nil
}

// FindBorder returns the first block, in insertion order, with a handle
// under the pointer.
func (b *Board) FindBorder(px, py, tol int) (*Block, geom.Handle) {
	i, h := geom.FindBorder(b.blocks, func(blk *Block) geom.Rectangle { return blk.Rect }, px, py, tol)
	if i < 0 {
		return nil, geom.None
	}
	return b.blocks[i], h
}

// Clear removes everything from the board.
func (b *Board) Clear() {
	b.layer.Clear()
	b.blocks = nil
	b.stacks = nil
	b.links = nil
	b.blockByID = make(map[string]*Block)
	b.stackByID = make(map[string]*Stack)
	b.points = make(map[string]*ConnectionPoint)
}
