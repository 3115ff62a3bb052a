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
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	applog "blockcanvas/internal/log"
)

// NewRouter mounts the session routes. A non-empty token enables bearer
// auth on every route, the event stream included.
func NewRouter(s *Session, token string) chi.Router {
	h := NewHandler(s)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(applog.WithComponent("api")))
	r.Use(AuthMiddleware(token))

	r.Get("/snapshot", h.Snapshot)
	r.Get("/cursor", h.Hover)

	r.Route("/pointer", func(r chi.Router) {
		r.Post("/down", h.PointerDown)
		r.Post("/move", h.PointerMove)
		r.Post("/up", h.PointerUp)
		r.Post("/cancel", h.Cancel)
	})

	r.Post("/menu", h.ContextMenu)
	r.Post("/menu/{item}", h.Invoke)

	r.Post("/blocks", h.CreateBlock)
	r.Delete("/blocks/{id}", h.DeleteBlock)
	r.Post("/stacks", h.CreateStack)

	r.Post("/undo", h.Undo)
	r.Post("/redo", h.Redo)
	r.Put("/policy", h.SetPolicy)

	r.Get("/events", s.Broker().ServeHTTP)
	return r
}

func queryPoint(r *http.Request) (int, int, bool) {
	q := r.URL.Query()
	x, errX := strconv.Atoi(q.Get("x"))
	y, errY := strconv.Atoi(q.Get("y"))
	return x, y, errX == nil && errY == nil
}
