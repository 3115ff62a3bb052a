/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scene

import "blockcanvas/internal/geom"

// Layer owns a canvas-sized root and the two-way index between primitives and
// the opaque keys the application attaches to them.
type Layer struct {
	root  *Primitive
	keys  map[*Primitive]string
	byKey map[string]*Primitive
}

// NewLayer creates an empty layer for a canvas of the given size.
func NewLayer(width, height int) *Layer {
	return &Layer{
		root:  newCanvas(width, height),
		keys:  make(map[*Primitive]string),
		byKey: make(map[string]*Primitive),
	}
}

func (l *Layer) Root() *Primitive { return l.root }

// Size returns the canvas size.
func (l *Layer) Size() (int, int) { return l.root.w, l.root.h }

// Resize changes the canvas bounds used by the root hit test.
func (l *Layer) Resize(width, height int) {
	l.root.w, l.root.h = width, height
}

// Add appends p to the root and registers key for it when non-empty.
func (l *Layer) Add(p *Primitive, key string) {
	l.root.Add(p)
	if key != "" {
		l.SetKey(p, key)
	}
}

// SetKey attaches key to p, replacing any previous key of p or owner of key.
func (l *Layer) SetKey(p *Primitive, key string) {
	if old, ok := l.keys[p]; ok {
		delete(l.byKey, old)
	}
	if prev, ok := l.byKey[key]; ok {
		delete(l.keys, prev)
	}
	l.keys[p] = key
	l.byKey[key] = p
}

// Key returns the key of p.
func (l *Layer) Key(p *Primitive) (string, bool) {
	k, ok := l.keys[p]
	return k, ok
}

// Lookup returns the primitive registered under key.
func (l *Layer) Lookup(key string) (*Primitive, bool) {
	p, ok := l.byKey[key]
	return p, ok
}

// Remove detaches p from its parent and forgets the keys of p and of its
// whole subtree.
func (l *Layer) Remove(p *Primitive) bool {
	if p == nil || p.parent == nil {
		return false
	}
	if !p.parent.Remove(p) {
		return false
	}
	Walk(p, func(q *Primitive, _ geom.Rectangle) {
		if k, ok := l.keys[q]; ok {
			delete(l.keys, q)
			delete(l.byKey, k)
		}
	})
	return true
}

// Clear drops every primitive and key, keeping the canvas size.
func (l *Layer) Clear() {
	w, h := l.Size()
	l.root = newCanvas(w, h)
	l.keys = make(map[*Primitive]string)
	l.byKey = make(map[string]*Primitive)
}

// FindAt hit-tests the canvas. The root is part of the path whenever the
// point is on the canvas.
func (l *Layer) FindAt(px, py int) []*Primitive { return FindAt(l.root, px, py) }

// Keys maps a hit path to the keys of its keyed elements, root to leaf.
func (l *Layer) Keys(path []*Primitive) []string {
	out := make([]string, 0, len(path))
	for _, p := range path {
		if k, ok := l.keys[p]; ok {
			out = append(out, k)
		}
	}
	return out
}

// TopLevel returns the element of path directly below the root, nil when the
// path holds the root only.
func TopLevel(path []*Primitive) *Primitive {
	if len(path) < 2 {
		return nil
	}
	return path[1]
}
