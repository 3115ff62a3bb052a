/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo keeps an in-memory checkpoint history of board states.
package undo

import (
	"sync"
	"time"
)

// Snapshot is an opaque encoded board state.
// Label names the edit that followed the checkpoint (for status lines).
type Snapshot struct {
	Label string
	Blob  []byte
	TS    time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap over both stacks; oldest checkpoints go first.
	MaxBytes int
	// MaxDepth limits the number of undo steps (0 means unlimited).
	MaxDepth int
	// MinInterval merges checkpoints pushed within the interval into one
	// step. The older state is kept so the merged step undoes the whole burst.
	MinInterval time.Duration
}

// Manager holds the undo and redo stacks. Push receives the state from
// before an edit; Undo and Redo swap the caller's current state with the
// top of the respective stack. It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Snapshot
	redo []Snapshot
	// accounting over both stacks
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Manager{cfg: cfg}
}

// Push records a checkpoint and clears the redo stack.
func (m *Manager) Push(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropRedoLocked()
	if n := len(m.undo); n > 0 && m.cfg.MinInterval > 0 {
		last := &m.undo[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: keep the older blob, slide the window.
			last.TS = s.TS
			if s.Label != "" {
				last.Label = s.Label
			}
			return
		}
	}
	m.undo = append(m.undo, s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked()
}

// Undo pops the latest checkpoint and stores current on the redo stack.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undo)
	if n == 0 {
		return Snapshot{}, false
	}
	s := m.undo[n-1]
	m.undo = m.undo[:n-1]
	current.Label = s.Label
	m.redo = append(m.redo, current)
	m.totalBytes += len(current.Blob) - len(s.Blob)
	m.enforceCapsLocked()
	return s, true
}

// Redo pops the latest undone state and stores current as a checkpoint.
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redo)
	if n == 0 {
		return Snapshot{}, false
	}
	s := m.redo[n-1]
	m.redo = m.redo[:n-1]
	current.Label = s.Label
	m.undo = append(m.undo, current)
	m.totalBytes += len(current.Blob) - len(s.Blob)
	m.enforceCapsLocked()
	return s, true
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
	m.totalBytes = 0
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, undoDepth int, redoDepth int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalBytes, len(m.undo), len(m.redo)
}

func (m *Manager) dropRedoLocked() {
	for _, s := range m.redo {
		m.totalBytes -= len(s.Blob)
	}
	m.redo = nil
}

func (m *Manager) enforceCapsLocked() {
	if m.cfg.MaxDepth > 0 && len(m.undo) > m.cfg.MaxDepth {
		toDrop := len(m.undo) - m.cfg.MaxDepth
		for i := 0; i < toDrop; i++ {
			m.totalBytes -= len(m.undo[i].Blob)
		}
		m.undo = append([]Snapshot{}, m.undo[toDrop:]...)
	}
	// Memory cap: the oldest undo checkpoints go first, then the deepest redo
	// entries. The newest undo step always survives.
	for m.totalBytes > m.cfg.MaxBytes {
		switch {
		case len(m.undo) > 1:
			m.totalBytes -= len(m.undo[0].Blob)
			m.undo = m.undo[1:]
		case len(m.redo) > 0:
			m.totalBytes -= len(m.redo[0].Blob)
			m.redo = m.redo[1:]
		default:
			return
		}
	}
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}
