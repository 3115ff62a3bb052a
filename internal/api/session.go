/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package api exposes one gesture engine over HTTP: pointer input as JSON
// posts, the visual state as a snapshot, and redraw frames plus engine
// events on a server-sent event stream.
package api

import (
	"sync"

	"blockcanvas/internal/gesture"
)

// Event types on the stream besides the engine's own event kinds.
const EventFrame = "frame"

// Session serializes access to an engine shared by concurrent requests and
// forwards its events and frames to a broker.
type Session struct {
	mu     sync.Mutex
	eng    *gesture.Engine
	broker *Broker
}

// NewSession wires eng to broker. Every engine event is published under its
// kind; every redraw frame publishes the snapshot as a frame event.
func NewSession(eng *gesture.Engine, broker *Broker) *Session {
	s := &Session{eng: eng, broker: broker}
	eng.Subscribe(func(ev gesture.Event) {
		broker.Publish(StreamEvent{Type: ev.Kind(), Data: ev})
	})
	eng.Redraw().SetDraw(func() {
		snap := s.Snapshot()
		broker.Publish(StreamEvent{Type: EventFrame, Data: snap})
	})
	return s
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(e *gesture.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.eng)
}

func (s *Session) Snapshot() gesture.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eng.Snapshot()
}

func (s *Session) Broker() *Broker { return s.broker }

// Engine returns the engine without locking. Only for setup before serving.
func (s *Session) Engine() *gesture.Engine { return s.eng }
