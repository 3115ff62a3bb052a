/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tui hosts the diagram engine in a terminal. Mouse cells are canvas
// units, so the board is as large as the terminal minus the status bar.
package tui

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blockcanvas/internal/gesture"
)

const statusLines = 1

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236"))
)

// Model is the bubbletea model around one engine.
type Model struct {
	eng    *gesture.Engine
	log    *slog.Logger
	width  int
	height int
	mouseX int
	mouseY int

	frame  string
	status string
	err    error

	// copy writes text to the clipboard; replaced in tests.
	copy func(string) error
}

func New(eng *gesture.Engine, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{eng: eng, log: logger, copy: clipboard.WriteAll}
	eng.Redraw().SetDraw(m.draw)
	eng.Subscribe(m.onEvent)
	return m
}

// Run starts the program on the alternate screen with mouse motion
// reporting.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) draw() {
	w, h := m.eng.Board().Size()
	m.frame = render(m.eng.Snapshot(), w, h).String()
}

func (m *Model) onEvent(ev gesture.Event) {
	switch ev := ev.(type) {
	case gesture.PrimitiveClicked:
		m.status = "clicked " + strings.Join(ev.Keys, " > ")
	case gesture.EmptySpaceClicked:
		m.status = fmt.Sprintf("empty space at %d,%d", ev.X, ev.Y)
	case gesture.LinkCreated:
		m.status = "linked " + ev.LinkID
	case gesture.ConnectionCancelled:
		m.status = "connection cancelled"
	case gesture.BlockCreated:
		m.status = "created " + ev.BlockID
	case gesture.Changed:
		m.status = ev.Label
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - statusLines
		if h < 1 {
			h = 1
		}
		m.eng.Board().Resize(msg.Width, h)
		m.eng.Redraw().Request()
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if cmd := m.key(msg); cmd != nil {
			return m, cmd
		}
	}
	m.eng.Redraw().Flush()
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	m.mouseX, m.mouseY = msg.X, msg.Y
	m.err = nil
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.err = m.eng.PointerDown(msg.X, msg.Y, gesture.PrimaryButton)
		case tea.MouseButtonRight:
			_, m.err = m.eng.ContextAction(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		m.eng.PointerMove(msg.X, msg.Y)
	case tea.MouseActionRelease:
		m.eng.PointerUp(msg.X, msg.Y)
	}
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		m.eng.Cancel()
	case "b":
		m.eng.CreateBlock(m.mouseX, m.mouseY)
	case "x", "delete":
		if id := m.eng.Selection(); id != "" {
			if _, err := m.eng.Board().Block(id); err == nil {
				m.err = m.eng.DeleteBlock(id)
			}
		}
	case "u":
		_, m.err = m.eng.Undo()
	case "r":
		_, m.err = m.eng.Redo()
	case "p":
		next := gesture.Displacement
		if m.eng.Policy() == gesture.Displacement {
			next = gesture.MoveEvent
		}
		m.eng.SetPolicy(next)
		m.status = "dirty policy " + next.String()
	case "y":
		m.err = m.copySnapshot()
	case "1", "2":
		if menu := m.eng.Menu(); menu != nil {
			i := int(msg.String()[0] - '1')
			if i < len(menu.Items) {
				m.err = m.eng.Invoke(menu.Items[i].ID)
			}
		}
	}
	if m.err != nil {
		m.log.Warn("input rejected", slog.String("key", msg.String()), slog.String("error", m.err.Error()))
	}
	m.eng.Redraw().Request()
	return nil
}

func (m *Model) copySnapshot() error {
	data, err := json.MarshalIndent(m.eng.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	if err := m.copy(string(data)); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	m.status = fmt.Sprintf("snapshot copied (%d bytes)", len(data))
	return nil
}

func (m *Model) View() string {
	bar := fmt.Sprintf(" %s | %s | %s ", m.eng.Mode(), m.eng.Policy(), m.status)
	style := statusStyle
	if m.err != nil {
		bar = " " + m.err.Error() + " "
		style = errStyle
	}
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return m.frame + "\n" + style.Render(bar)
}
