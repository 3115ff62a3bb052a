/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	applog "blockcanvas/internal/log"
)

type ServerOptions struct {
	Addr  string
	Token string
	// FrameInterval paces the redraw loop that feeds frame events.
	FrameInterval time.Duration
	Logger        *slog.Logger
}

// Serve runs the HTTP server and the redraw loop until ctx is cancelled,
// then shuts both down.
func Serve(ctx context.Context, s *Session, opt ServerOptions) error {
	logger := opt.Logger
	if logger == nil {
		logger = applog.WithComponent("api")
	}

	root := chi.NewRouter()
	root.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Mount("/api", NewRouter(s, opt.Token))

	srv := &http.Server{
		Addr:              opt.Addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := s.Engine().Redraw().Run(gctx, opt.FrameInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		logger.Info("http server starting", slog.String("addr", opt.Addr), slog.Bool("auth", opt.Token != ""))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Broker().Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", slog.String("error", err.Error()))
		}
		return nil
	})

	err := g.Wait()
	logger.Info("http server stopped")
	return err
}
