/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConsoleLine(t *testing.T) {
	var buf bytes.Buffer
	lv := new(slog.LevelVar)
	l := slog.New(newConsoleHandler(&buf, lv, false)).With(slog.String(KeyComponent, "gesture"))

	l.Info("drag begin", slog.String("target", "blk-1"), Point("at", 12, 8))
	got := buf.String()
	if !strings.Contains(got, " INF [gesture] drag begin target=blk-1 at=12,8\n") {
		t.Fatalf("unexpected line: %q", got)
	}
	if _, err := time.Parse("15:04:05.000", got[:12]); err != nil {
		t.Fatalf("line does not start with a clock: %q", got)
	}
}

func TestConsoleQuotingAndGroups(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newConsoleHandler(&buf, slog.LevelDebug, false))

	l.WithGroup("req").Warn("rejected",
		slog.String("error", "another gesture is active"),
		slog.Group("at", slog.Int("x", 3), slog.Int("y", 4)),
		slog.Any("err", errors.New("boom")),
		slog.Float64("scale", 1.5),
	)
	got := buf.String()
	for _, want := range []string{
		"WRN rejected",
		`req.error="another gesture is active"`,
		"req.at.x=3 req.at.y=4",
		"req.err=boom",
		"req.scale=1.5",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if strings.Contains(got, "[") {
		t.Fatalf("no component expected: %q", got)
	}
}

func TestSetLevelFiltersInstalledLogger(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(Options{Level: "info"}) })
	l := WithComponent("api")

	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info: %q", buf.String())
	}
	SetLevel("debug")
	if Level() != slog.LevelDebug {
		t.Fatalf("level = %v", Level())
	}
	l.Debug("shown")
	if !strings.Contains(buf.String(), "DBG [api] shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	SetLevel("loud")
	if Level() != slog.LevelDebug {
		t.Fatalf("unknown level changed the level to %v", Level())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Fatalf("expected error for trace")
	}
}

func TestContextAttrsReachEveryHandler(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "bc.log")
	Init(Options{Level: "debug", Format: "json", Output: &buf, File: file})
	t.Cleanup(func() { Init(Options{Level: "info"}) })

	ctx := NewContext(context.Background(), slog.String("req", "r-1"))
	ctx = NewContext(ctx, slog.String("route", "POST /api/blocks"))
	WithOperation(WithComponent("api"), "create-block").InfoContext(ctx, "request", slog.Int("status", 201))

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("console json: %v (%q)", err, buf.String())
	}
	for k, want := range map[string]any{
		"component": "api", "op": "create-block", "req": "r-1", "route": "POST /api/blocks", "status": float64(201),
	} {
		if rec[k] != want {
			t.Fatalf("%s = %v, want %v", k, rec[k], want)
		}
	}
	if _, ok := rec["app"]; ok {
		t.Fatalf("console record carries file-only attrs: %v", rec)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var frec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &frec); err != nil {
		t.Fatalf("file json: %v", err)
	}
	if frec["app"] != "blockcanvas" || frec["req"] != "r-1" || frec["component"] != "api" {
		t.Fatalf("file record: %v", frec)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BC_LOG_LEVEL", "warn")
	t.Setenv("BC_LOG_FORMAT", "json")
	t.Setenv("BC_LOG_SOURCE", "TRUE")
	t.Setenv("BC_LOG_FILE", "")

	opts := FromEnv()
	if opts.Level != "warn" || opts.Format != "json" || !opts.AddSource || opts.File != "" {
		t.Fatalf("FromEnv = %+v", opts)
	}
}
