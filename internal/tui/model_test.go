/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tui

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
)

func newModel(t *testing.T) (*Model, *gesture.Engine) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := gesture.New(diagram.NewBoard(diagram.Options{Width: 10, Height: 10}), gesture.Options{Logger: logger})
	m := New(eng, logger)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
	return m, eng
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(x, y int, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: b}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func TestWindowSizeResizesBoard(t *testing.T) {
	_, eng := newModel(t)
	w, h := eng.Board().Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)
}

func TestMouseDragMovesBlock(t *testing.T) {
	m, eng := newModel(t)
	blk := eng.Board().AddBlock(geom.NewRect(5, 5, 20, 10))

	m.Update(press(10, 8, tea.MouseButtonLeft))
	require.Equal(t, gesture.Dragging, eng.Mode())
	m.Update(motion(20, 12))
	m.Update(release(20, 12))

	assert.Equal(t, gesture.Idle, eng.Mode())
	assert.Equal(t, 15, blk.Rect.X)
	assert.Equal(t, 9, blk.Rect.Y)
	assert.Equal(t, "move", m.status)

	m.Update(keys("u"))
	assert.Equal(t, 5, eng.Board().Blocks()[0].Rect.X)
}

func TestRightClickMenuCreatesBlock(t *testing.T) {
	m, eng := newModel(t)
	m.Update(press(30, 10, tea.MouseButtonRight))
	require.NotNil(t, eng.Menu())
	assert.Contains(t, m.View(), "[1] Create block")

	m.Update(keys("1"))
	require.Len(t, eng.Board().Blocks(), 1)
	assert.Nil(t, eng.Menu())
	assert.Equal(t, 30, eng.Board().Blocks()[0].Rect.X)
	assert.True(t, strings.HasPrefix(m.status, "created "))
	assert.Contains(t, m.View(), "┌")
}

func TestKeyCreatesBlockAtMouseAndDeletesSelection(t *testing.T) {
	m, eng := newModel(t)
	m.Update(motion(12, 4))
	m.Update(keys("b"))
	require.Len(t, eng.Board().Blocks(), 1)
	blk := eng.Board().Blocks()[0]
	assert.Equal(t, 12, blk.Rect.X)

	m.Update(press(20, 10, tea.MouseButtonLeft))
	m.Update(release(20, 10))
	require.Equal(t, blk.ID, eng.Selection())

	m.Update(keys("x"))
	assert.Empty(t, eng.Board().Blocks())
}

func TestDeleteWithMenuOpenDropsMenu(t *testing.T) {
	m, eng := newModel(t)
	blk := eng.Board().AddBlock(geom.NewRect(5, 5, 20, 10))
	eng.Board().AddBlock(geom.NewRect(40, 5, 20, 10))
	m.Update(press(15, 10, tea.MouseButtonLeft))
	m.Update(release(15, 10))
	require.Equal(t, blk.ID, eng.Selection())

	m.Update(press(10, 5, tea.MouseButtonRight))
	require.NotNil(t, eng.Menu())
	require.Len(t, eng.Menu().Items, 2)

	m.Update(keys("x"))
	assert.Nil(t, eng.Menu())
	m.Update(keys("2"))
	assert.Equal(t, gesture.Idle, eng.Mode())
	m.Update(press(50, 10, tea.MouseButtonLeft))
	m.Update(release(50, 10))

	assert.Len(t, eng.Board().Blocks(), 1)
	assert.Empty(t, eng.Board().Links())
}

func TestRejectedInputShowsError(t *testing.T) {
	m, eng := newModel(t)
	eng.Board().AddBlock(geom.NewRect(5, 5, 20, 10))
	m.Update(press(10, 8, tea.MouseButtonLeft))
	m.Update(press(12, 8, tea.MouseButtonLeft))
	require.Error(t, m.err)
	assert.True(t, errors.Is(m.err, gesture.ErrGestureActive))
	assert.Contains(t, m.View(), "another gesture is active")
}

func TestCopySnapshot(t *testing.T) {
	m, eng := newModel(t)
	eng.Board().AddBlock(geom.NewRect(5, 5, 20, 10))
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m.Update(keys("y"))
	require.NoError(t, m.err)
	var snap gesture.Snapshot
	require.NoError(t, json.Unmarshal([]byte(copied), &snap))
	assert.Len(t, snap.Blocks, 1)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(keys("y"))
	assert.ErrorContains(t, m.err, "clipboard")
}

func TestPolicyToggleAndQuit(t *testing.T) {
	m, eng := newModel(t)
	m.Update(keys("p"))
	assert.Equal(t, gesture.Displacement, eng.Policy())
	m.Update(keys("p"))
	assert.Equal(t, gesture.MoveEvent, eng.Policy())

	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderGrid(t *testing.T) {
	s := gesture.Snapshot{
		Width:  12,
		Height: 6,
		Blocks: []gesture.BlockView{{
			ID:     "b",
			Rect:   gesture.RectView{X: 1, Y: 1, Width: 5, Height: 4},
			Points: []gesture.PointView{{ID: "p", Side: diagram.SideRight, X: 6, Y: 3}},
		}},
		Links: []gesture.LineView{{X1: 6, Y1: 3, X2: 11, Y2: 3}},
	}
	lines := strings.Split(render(s, 12, 6).String(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, " ┌───┐      ", lines[1])
	assert.Equal(t, " │   │o·····", lines[3])
	assert.Equal(t, " └───┘      ", lines[4])
}
