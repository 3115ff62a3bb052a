/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse { return errResponse{Error: msg} }

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusOf maps engine and board errors to HTTP codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, gesture.ErrGestureActive), errors.Is(err, gesture.ErrNoMenu):
		return http.StatusConflict
	case errors.Is(err, diagram.ErrBlockNotFound), errors.Is(err, diagram.ErrStackNotFound),
		errors.Is(err, diagram.ErrPointNotFound):
		return http.StatusNotFound
	case errors.Is(err, gesture.ErrUnknownItem), errors.Is(err, diagram.ErrEmptyStack),
		errors.Is(err, gesture.ErrUnknownPolicy):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	lvl := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		lvl = slog.LevelError
	}
	applog.WithComponent("api").Log(r.Context(), lvl, "request failed", slog.Int("status", status), slog.String("error", err.Error()))
	writeJSON(w, status, errorBody(err.Error()))
}
