/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"context"
	"sync"
	"time"
)

// Redraw coalesces redraw requests. Any number of Request calls between two
// frames yields a single call of the draw function, which reads whatever
// state is current when it runs.
type Redraw struct {
	mu       sync.Mutex
	pending  bool
	requests uint64
	frames   uint64
	draw     func()
	post     func(func())
}

func NewRedraw(draw func()) *Redraw { return &Redraw{draw: draw} }

// SetDraw replaces the frame function.
func (r *Redraw) SetDraw(fn func()) {
	r.mu.Lock()
	r.draw = fn
	r.mu.Unlock()
}

// SetPost installs a hook that schedules Flush on the host's thread. It is
// called once per pending frame, on the first request after a flush.
func (r *Redraw) SetPost(fn func(func())) {
	r.mu.Lock()
	r.post = fn
	r.mu.Unlock()
}

// Request marks a frame as pending.
func (r *Redraw) Request() {
	r.mu.Lock()
	r.requests++
	if r.pending {
		r.mu.Unlock()
		return
	}
	r.pending = true
	post := r.post
	r.mu.Unlock()
	if post != nil {
		post(func() { r.Flush() })
	}
}

// Pending reports whether a frame is waiting.
func (r *Redraw) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Flush runs the pending frame, if any, and reports whether it drew.
func (r *Redraw) Flush() bool {
	r.mu.Lock()
	if !r.pending {
		r.mu.Unlock()
		return false
	}
	r.pending = false
	r.frames++
	draw := r.draw
	r.mu.Unlock()
	if draw != nil {
		draw()
	}
	return true
}

// Stats returns the number of requests and of frames drawn so far.
func (r *Redraw) Stats() (requests, frames uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests, r.frames
}

// Run flushes on every tick until ctx is done.
func (r *Redraw) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			r.Flush()
		}
	}
}
