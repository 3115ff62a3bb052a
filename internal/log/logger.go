/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package log configures the process-wide slog logger for blockcanvas.
//
// Console output is one line per record with the emitting component in
// brackets. An optional JSON copy goes to a rotating file. The level lives in
// a LevelVar so a configuration reload can change it in place.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"

	"blockcanvas/internal/version"
)

// Options controls Init. FromEnv fills it from
// BC_LOG_LEVEL, BC_LOG_FORMAT (console|json), BC_LOG_SOURCE and BC_LOG_FILE.
type Options struct {
	Level     string
	Format    string
	AddSource bool
	// File enables a rotated JSON copy of every record.
	File string
	// Output is the console destination; stderr when nil.
	Output io.Writer
}

var (
	mu      sync.RWMutex
	current *slog.Logger
	level   = new(slog.LevelVar)
)

// L returns the installed logger, initializing it from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Init installs a new logger and makes it the slog default.
func Init(opts Options) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	level.Set(lvl)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource})
	} else {
		console = newConsoleHandler(out, level, opts.AddSource)
	}

	h := console
	if f := strings.TrimSpace(opts.File); f != "" {
		w := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		file := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}).
			WithAttrs([]slog.Attr{
				slog.String("app", "blockcanvas"),
				slog.String("ver", version.Version),
			})
		h = fanout{console, file}
	}
	l := slog.New(contextHandler{next: h})

	mu.Lock()
	current = l
	mu.Unlock()
	slog.SetDefault(l)
}

// FromEnv reads Options from BC_LOG_* variables.
func FromEnv() Options {
	opts := Options{Level: "info", Format: "console", File: os.Getenv("BC_LOG_FILE")}
	if v := os.Getenv("BC_LOG_LEVEL"); v != "" {
		opts.Level = v
	}
	if v := os.Getenv("BC_LOG_FORMAT"); v != "" {
		opts.Format = v
	}
	opts.AddSource = strings.EqualFold(os.Getenv("BC_LOG_SOURCE"), "true")
	return opts
}

// ParseLevel accepts debug, info, warn (or warning) and error. Empty means
// info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel switches the level of the installed handlers. Unknown names keep
// the current level.
func SetLevel(s string) {
	if lvl, err := ParseLevel(s); err == nil {
		level.Set(lvl)
	}
}

// Level returns the active level.
func Level() slog.Level { return level.Level() }
