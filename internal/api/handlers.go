/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/gesture"
)

// Handler holds the route handlers for one session.
type Handler struct {
	s *Session
}

func NewHandler(s *Session) *Handler { return &Handler{s: s} }

type pointerRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Button int `json:"button,omitempty"`
}

// gestureResponse is returned by every input route.
type gestureResponse struct {
	Gesture gesture.State `json:"gesture"`
	Cursor  string        `json:"cursor"`
}

type stackRequest struct {
	X        int                 `json:"x"`
	Y        int                 `json:"y"`
	Children []diagram.ChildSpec `json:"children"`
}

func (r stackRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Children, validation.Required, validation.Each(validation.By(func(v any) error {
			c := v.(diagram.ChildSpec)
			return validation.ValidateStruct(&c,
				validation.Field(&c.Width, validation.Required, validation.Min(1)),
				validation.Field(&c.Height, validation.Required, validation.Min(1)),
			)
		}))),
	)
}

type policyRequest struct {
	Policy string `json:"policy"`
}

type historyResponse struct {
	Changed bool `json:"changed"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

func (h *Handler) pointer(w http.ResponseWriter, r *http.Request, fn func(e *gesture.Engine, p pointerRequest) error) {
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	var resp gestureResponse
	err := h.s.Do(func(e *gesture.Engine) error {
		if err := fn(e, req); err != nil {
			return err
		}
		resp = gestureResponse{Gesture: e.Gesture(), Cursor: e.Cursor()}
		return nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// PointerDown handles POST /pointer/down.
func (h *Handler) PointerDown(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(e *gesture.Engine, p pointerRequest) error { return e.PointerDown(p.X, p.Y, p.Button) })
}

// PointerMove handles POST /pointer/move.
func (h *Handler) PointerMove(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(e *gesture.Engine, p pointerRequest) error {
		e.PointerMove(p.X, p.Y)
		return nil
	})
}

// PointerUp handles POST /pointer/up.
func (h *Handler) PointerUp(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(e *gesture.Engine, p pointerRequest) error {
		e.PointerUp(p.X, p.Y)
		return nil
	})
}

// Cancel handles POST /pointer/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	var resp gestureResponse
	_ = h.s.Do(func(e *gesture.Engine) error {
		e.Cancel()
		resp = gestureResponse{Gesture: e.Gesture(), Cursor: e.Cursor()}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// Hover handles GET /cursor?x=&y= without changing any state.
func (h *Handler) Hover(w http.ResponseWriter, r *http.Request) {
	x, y, ok := queryPoint(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("x and y are required integers"))
		return
	}
	var cursor string
	_ = h.s.Do(func(e *gesture.Engine) error {
		cursor = e.CursorAt(x, y)
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]string{"cursor": cursor})
}

// ContextMenu handles POST /menu and opens the menu at the posted point.
func (h *Handler) ContextMenu(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	var m *gesture.Menu
	err := h.s.Do(func(e *gesture.Engine) error {
		var err error
		m, err = e.ContextAction(req.X, req.Y)
		return err
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Invoke handles POST /menu/{item}.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")
	var resp gestureResponse
	err := h.s.Do(func(e *gesture.Engine) error {
		if err := e.Invoke(item); err != nil {
			return err
		}
		resp = gestureResponse{Gesture: e.Gesture(), Cursor: e.Cursor()}
		return nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateBlock handles POST /blocks.
func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	var resp map[string]any
	_ = h.s.Do(func(e *gesture.Engine) error {
		blk := e.CreateBlock(req.X, req.Y)
		br := blk.Rect
		resp = map[string]any{
			"id":   blk.ID,
			"rect": gesture.RectView{X: br.X, Y: br.Y, Width: br.Width, Height: br.Height},
		}
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

// DeleteBlock handles DELETE /blocks/{id}.
func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.s.Do(func(e *gesture.Engine) error { return e.DeleteBlock(id) }); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateStack handles POST /stacks.
func (h *Handler) CreateStack(w http.ResponseWriter, r *http.Request) {
	var req stackRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	var st *diagram.Stack
	err := h.s.Do(func(e *gesture.Engine) error {
		var err error
		st, err = e.CreateStack(req.X, req.Y, req.Children)
		return err
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": st.ID, "children": st.Children})
}

func (h *Handler) travel(w http.ResponseWriter, r *http.Request, step func(e *gesture.Engine) (bool, error)) {
	var resp historyResponse
	err := h.s.Do(func(e *gesture.Engine) error {
		changed, err := step(e)
		if err != nil {
			return err
		}
		resp = historyResponse{Changed: changed, CanUndo: e.History().CanUndo(), CanRedo: e.History().CanRedo()}
		return nil
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Undo handles POST /undo.
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	h.travel(w, r, (*gesture.Engine).Undo)
}

// Redo handles POST /redo.
func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	h.travel(w, r, (*gesture.Engine).Redo)
}

// SetPolicy handles PUT /policy.
func (h *Handler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	var req policyRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p, err := gesture.ParseDirtyPolicy(req.Policy)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	_ = h.s.Do(func(e *gesture.Engine) error {
		e.SetPolicy(p)
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]string{"policy": p.String()})
}

// Snapshot handles GET /snapshot.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.s.Snapshot())
}
