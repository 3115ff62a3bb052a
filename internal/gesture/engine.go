/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package gesture turns raw pointer input into edits of a diagram board.
// Exactly one interaction is active at a time: idle, dragging a top-level
// element, resizing a block by one of its handles, or connecting two blocks.
package gesture

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/geom"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/scene"
	"blockcanvas/internal/undo"
)

var (
	ErrGestureActive = errors.New("another gesture is active")
	ErrNoMenu        = errors.New("no context menu open")
	ErrUnknownItem   = errors.New("menu item not available")
)

// CursorCrosshair is shown while a connection is being drawn.
const CursorCrosshair = "crosshair"

// PrimaryButton is the only button that starts gestures.
const PrimaryButton = 0

type Options struct {
	// Tolerance is the handle distance in pixels; zero selects
	// geom.HandleTolerance.
	Tolerance   int
	DirtyPolicy DirtyPolicy
	History     undo.Config
	// Now is the clock used for history checkpoints.
	Now    func() time.Time
	Logger *slog.Logger
}

// State is a read-only view of the active gesture.
type State struct {
	Mode     Mode        `json:"mode"`
	Target   string      `json:"target,omitempty"`
	OffsetX  int         `json:"offset_x,omitempty"`
	OffsetY  int         `json:"offset_y,omitempty"`
	Dirty    bool        `json:"dirty,omitempty"`
	Handle   geom.Handle `json:"-"`
	Source   string      `json:"source,omitempty"`
	PointerX int         `json:"pointer_x,omitempty"`
	PointerY int         `json:"pointer_y,omitempty"`
}

// Engine is the gesture state machine over one board. It is not safe for
// concurrent use; hosts serialize input.
type Engine struct {
	board   *diagram.Board
	opts    Options
	log     *slog.Logger
	redraw  *Redraw
	history *undo.Manager
	subs    []func(Event)

	mode Mode

	// Dragging
	target         *scene.Primitive
	offX, offY     int
	startX, startY int

	// press position, also used for idle presses
	pressed      bool
	downX, downY int
	dirty        bool

	// Resizing
	block     *diagram.Block
	handle    geom.Handle
	startRect geom.Rectangle

	// Connecting
	source       *diagram.Block
	sourceAnchor diagram.Anchor
	px, py       int

	// checkpoint taken when the current gesture began
	pending []byte

	menu      *Menu
	cursor    string
	selection string
}

// New creates an engine bound to board.
func New(board *diagram.Board, opts Options) *Engine {
	if opts.Tolerance == 0 {
		opts.Tolerance = geom.HandleTolerance
	}
	if opts.Tolerance < 0 {
		opts.Tolerance = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.WithComponent("gesture")
	}
	return &Engine{
		board:   board,
		opts:    opts,
		log:     opts.Logger,
		redraw:  NewRedraw(nil),
		history: undo.NewManager(opts.History),
		cursor:  geom.CursorDefault,
	}
}

func (e *Engine) Board() *diagram.Board   { return e.board }
func (e *Engine) Redraw() *Redraw         { return e.redraw }
func (e *Engine) History() *undo.Manager  { return e.history }
func (e *Engine) Mode() Mode              { return e.mode }
func (e *Engine) Menu() *Menu             { return e.menu }
func (e *Engine) Cursor() string          { return e.cursor }
func (e *Engine) Selection() string       { return e.selection }
func (e *Engine) Policy() DirtyPolicy     { return e.opts.DirtyPolicy }
func (e *Engine) SetPolicy(p DirtyPolicy) { e.opts.DirtyPolicy = p }

// Subscribe registers fn for every emitted event.
func (e *Engine) Subscribe(fn func(Event)) {
	if fn != nil {
		e.subs = append(e.subs, fn)
	}
}

func (e *Engine) emit(ev Event) {
	e.log.Debug("event", slog.String("kind", ev.Kind()))
	for _, fn := range e.subs {
		fn(ev)
	}
}

// Gesture returns the active gesture.
func (e *Engine) Gesture() State {
	st := State{Mode: e.mode}
	switch e.mode {
	case Dragging:
		st.Target = e.keyOf(e.target)
		st.OffsetX, st.OffsetY = e.offX, e.offY
		st.Dirty = e.dirty
	case Resizing:
		st.Target = e.block.ID
		st.Handle = e.handle
	case Connecting:
		st.Source = e.source.ID
		st.PointerX, st.PointerY = e.px, e.py
	case Idle:
		st.Dirty = e.pressed && e.dirty
	}
	return st
}

func (e *Engine) keyOf(p *scene.Primitive) string {
	k, _ := e.board.Layer().Key(p)
	return k
}

// PointerDown starts a gesture. Non-primary buttons are ignored. A press
// while dragging or resizing is rejected with ErrGestureActive; a press
// while connecting is ignored since the release completes the link.
func (e *Engine) PointerDown(x, y, button int) error {
	e.closeMenu()
	if button != PrimaryButton {
		return nil
	}
	switch e.mode {
	case Connecting:
		return nil
	case Dragging, Resizing:
		e.log.Warn("pointer-down rejected", slog.String("mode", e.mode.String()), applog.Point("at", x, y))
		return fmt.Errorf("%w: %s", ErrGestureActive, e.mode)
	}
	if e.pressed {
		// a press without release; start over from here
		e.pressed = false
	}

	if blk, h := e.board.FindBorder(x, y, e.opts.Tolerance); blk != nil {
		e.checkpoint()
		e.mode = Resizing
		e.block, e.handle = blk, h
		e.startRect = blk.Rect
		e.cursor = h.Cursor()
		e.log.Debug("resize begin", slog.String("block", blk.ID), slog.String("handle", h.String()), applog.Point("at", x, y))
		return nil
	}

	e.downX, e.downY, e.dirty = x, y, false
	if t := scene.TopLevel(e.board.Layer().FindAt(x, y)); t != nil {
		e.checkpoint()
		e.mode = Dragging
		e.target = t
		e.startX, e.startY = t.Origin()
		e.offX, e.offY = x-e.startX, y-e.startY
		e.cursor = geom.CursorMove
		e.log.Debug("drag begin", slog.String("target", e.keyOf(t)), slog.Int("dx", e.offX), slog.Int("dy", e.offY))
		return nil
	}
	e.pressed = true
	return nil
}

// PointerMove advances the active gesture or updates the hover cursor.
func (e *Engine) PointerMove(x, y int) {
	switch e.mode {
	case Dragging:
		e.target.MoveTo(x-e.offX, y-e.offY)
		e.markDirty(x, y)
	case Resizing:
		e.block.Rect.ResizeTo(e.handle, x, y)
		e.block.Primitive().Touch()
	case Connecting:
		e.px, e.py = x, y
	default:
		if e.pressed {
			e.markDirty(x, y)
			return
		}
		c := e.CursorAt(x, y)
		if c == e.cursor {
			return
		}
		e.cursor = c
	}
	e.redraw.Request()
}

func (e *Engine) markDirty(x, y int) {
	switch e.opts.DirtyPolicy {
	case Displacement:
		if x != e.downX || y != e.downY {
			e.dirty = true
		}
	default:
		e.dirty = true
	}
}

// PointerUp ends the active gesture.
func (e *Engine) PointerUp(x, y int) {
	defer e.redraw.Request()
	switch e.mode {
	case Dragging:
		t := e.target
		dirty := e.dirty
		moved := false
		if ox, oy := t.Origin(); ox != e.startX || oy != e.startY {
			moved = true
		}
		e.reset()
		if !dirty {
			e.discard()
			e.resolveClick(x, y)
			return
		}
		if moved {
			e.commit("move")
		} else {
			e.discard()
		}
	case Resizing:
		changed := e.block.Rect != e.startRect
		e.reset()
		if changed {
			e.commit("resize")
		} else {
			e.discard()
		}
		e.cursor = e.CursorAt(x, y)
	case Connecting:
		e.finishConnection(x, y)
	default:
		if !e.pressed {
			return
		}
		dirty := e.dirty
		e.reset()
		if !dirty {
			e.resolveClick(x, y)
		}
	}
}

func (e *Engine) finishConnection(x, y int) {
	src, sa := e.source, e.sourceAnchor
	e.reset()
	dst := e.board.BlockOnPath(e.board.Layer().FindAt(x, y))
	if dst == nil || dst == src {
		e.discard()
		e.log.Debug("connection abandoned", slog.String("source", src.ID))
		e.emit(ConnectionCancelled{Source: src.ID})
		return
	}
	da := diagram.NearestAnchor(dst.Rect, x, y)
	l, err := e.board.ConnectAnchors(src, sa, dst, da)
	if err != nil {
		e.discard()
		e.log.Warn("connect failed", slog.String("source", src.ID), slog.String("target", dst.ID), slog.Any("err", err))
		e.emit(ConnectionCancelled{Source: src.ID})
		return
	}
	e.commit("connect")
	e.emit(LinkCreated{LinkID: l.ID, A: l.A, B: l.B})
}

func (e *Engine) resolveClick(x, y int) {
	layer := e.board.Layer()
	keys := layer.Keys(layer.FindAt(x, y))
	if len(keys) == 0 {
		e.selection = ""
		e.emit(EmptySpaceClicked{X: x, Y: y})
		return
	}
	e.selection = keys[len(keys)-1]
	e.emit(PrimitiveClicked{Keys: keys})
}

// Cancel aborts the active gesture and restores the geometry it changed.
func (e *Engine) Cancel() {
	switch e.mode {
	case Dragging:
		e.target.MoveTo(e.startX, e.startY)
	case Resizing:
		e.block.Rect = e.startRect
		e.block.Primitive().Touch()
	case Connecting:
		src := e.source
		defer e.emit(ConnectionCancelled{Source: src.ID})
	}
	e.reset()
	e.discard()
	e.closeMenu()
	e.redraw.Request()
}

func (e *Engine) reset() {
	e.mode = Idle
	e.target = nil
	e.block, e.handle = nil, geom.None
	e.source = nil
	e.pressed, e.dirty = false, false
}

// CursorAt resolves the hover cursor: a handle cursor on block borders, move
// over any draggable element, default elsewhere.
func (e *Engine) CursorAt(x, y int) string {
	if _, h := e.board.FindBorder(x, y, e.opts.Tolerance); h != geom.None {
		return h.Cursor()
	}
	if scene.TopLevel(e.board.Layer().FindAt(x, y)) != nil {
		return geom.CursorMove
	}
	return geom.CursorDefault
}

// ContextAction opens the context menu at (x, y). It is only available while
// idle.
func (e *Engine) ContextAction(x, y int) (*Menu, error) {
	if e.mode != Idle {
		return nil, fmt.Errorf("%w: %s", ErrGestureActive, e.mode)
	}
	blk, h := e.board.FindBorder(x, y, e.opts.Tolerance)
	e.menu = newMenu(x, y, blk, h)
	e.redraw.Request()
	return e.menu, nil
}

// Invoke runs a menu item and closes the menu.
func (e *Engine) Invoke(id string) error {
	m := e.menu
	if m == nil {
		return ErrNoMenu
	}
	e.closeMenu()
	if !m.Has(id) {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	switch id {
	case ItemCreateBlock:
		e.CreateBlock(m.X, m.Y)
	case ItemAddConnectionPoint:
		// The menu may outlive the block it was opened on.
		blk, err := e.board.Block(m.border.ID)
		if err != nil {
			return err
		}
		a, ok := diagram.AnchorFromHandle(blk.Rect, m.handle, m.X, m.Y)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
		e.StartConnection(blk, a, m.X, m.Y)
	}
	return nil
}

// StartConnection enters Connecting from an anchor on src. The source point
// is only added to the block when the connection completes.
func (e *Engine) StartConnection(src *diagram.Block, a diagram.Anchor, x, y int) {
	e.checkpoint()
	e.mode = Connecting
	e.source, e.sourceAnchor = src, a
	e.px, e.py = x, y
	e.cursor = CursorCrosshair
	e.log.Debug("connect begin", slog.String("source", src.ID), slog.String("side", a.Side.String()))
	e.redraw.Request()
}

func (e *Engine) closeMenu() {
	if e.menu != nil {
		e.menu = nil
		e.redraw.Request()
	}
}

// CreateBlock adds a default-size block at (x, y).
func (e *Engine) CreateBlock(x, y int) *diagram.Block {
	e.checkpoint()
	blk := e.board.CreateBlock(x, y)
	e.commit("create block")
	e.emit(BlockCreated{BlockID: blk.ID})
	e.redraw.Request()
	return blk
}

// CreateStack adds a stack from a declarative child list.
func (e *Engine) CreateStack(x, y int, children []diagram.ChildSpec) (*diagram.Stack, error) {
	e.checkpoint()
	s, err := e.board.CreateStack(x, y, children)
	if err != nil {
		e.discard()
		return nil, err
	}
	e.commit("create stack")
	e.redraw.Request()
	return s, nil
}

// DeleteBlock removes a block together with its points and links.
func (e *Engine) DeleteBlock(id string) error {
	if e.mode != Idle {
		return fmt.Errorf("%w: %s", ErrGestureActive, e.mode)
	}
	e.checkpoint()
	if err := e.board.DeleteBlock(id); err != nil {
		e.discard()
		return err
	}
	if e.selection == id {
		e.selection = ""
	}
	e.closeMenu()
	e.commit("delete block")
	e.redraw.Request()
	return nil
}

// Undo restores the state before the last committed edit.
func (e *Engine) Undo() (bool, error) { return e.travel(e.history.Undo, "undo") }

// Redo re-applies the last undone edit.
func (e *Engine) Redo() (bool, error) { return e.travel(e.history.Redo, "redo") }

func (e *Engine) travel(step func(undo.Snapshot) (undo.Snapshot, bool), label string) (bool, error) {
	if e.mode != Idle {
		return false, fmt.Errorf("%w: %s", ErrGestureActive, e.mode)
	}
	cur, err := e.board.MarshalState()
	if err != nil {
		return false, err
	}
	s, ok := step(undo.Snapshot{Blob: cur, TS: e.opts.Now()})
	if !ok {
		return false, nil
	}
	if err := e.board.RestoreJSON(s.Blob); err != nil {
		return false, fmt.Errorf("%s: %w", label, err)
	}
	if _, ok := e.board.Layer().Lookup(e.selection); !ok {
		e.selection = ""
	}
	e.closeMenu()
	e.log.Info(label, slog.String("edit", s.Label))
	e.emit(Changed{Label: label})
	e.redraw.Request()
	return true, nil
}

func (e *Engine) checkpoint() {
	blob, err := e.board.MarshalState()
	if err != nil {
		e.log.Warn("checkpoint failed", slog.Any("err", err))
		e.pending = nil
		return
	}
	e.pending = blob
}

func (e *Engine) commit(label string) {
	if e.pending == nil {
		return
	}
	e.history.Push(undo.Snapshot{Label: label, Blob: e.pending, TS: e.opts.Now()})
	e.pending = nil
	e.emit(Changed{Label: label})
}

func (e *Engine) discard() { e.pending = nil }
