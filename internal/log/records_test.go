/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
)

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("bad record %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func find(recs []map[string]any, msg string) map[string]any {
	for _, r := range recs {
		if r["msg"] == msg {
			return r
		}
	}
	return nil
}

func TestGestureEngineRecords(t *testing.T) {
	var buf bytes.Buffer
	applog.Init(applog.Options{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { applog.Init(applog.Options{Level: "info"}) })

	b := diagram.NewBoard(diagram.Options{Width: 200, Height: 200})
	blk := b.AddBlock(geom.NewRect(10, 10, 40, 40))
	eng := gesture.New(b, gesture.Options{})

	if err := eng.PointerDown(30, 30, gesture.PrimaryButton); err != nil {
		t.Fatalf("down: %v", err)
	}
	if err := eng.PointerDown(31, 31, gesture.PrimaryButton); err == nil {
		t.Fatalf("second press accepted")
	}
	recs := records(t, &buf)

	drag := find(recs, "drag begin")
	if drag == nil {
		t.Fatalf("no drag record in %v", recs)
	}
	if drag["component"] != "gesture" || drag["target"] != blk.ID || drag["level"] != "DEBUG" {
		t.Fatalf("drag record: %v", drag)
	}
	rej := find(recs, "pointer-down rejected")
	if rej == nil {
		t.Fatalf("no rejection record in %v", recs)
	}
	if rej["component"] != "gesture" || rej["mode"] != "dragging" || rej["at"] != "31,31" || rej["level"] != "WARN" {
		t.Fatalf("rejection record: %v", rej)
	}

	buf.Reset()
	applog.SetLevel("warn")
	eng.PointerUp(30, 30)
	eng.Cancel()
	for _, r := range records(t, &buf) {
		if r["level"] == "DEBUG" || r["level"] == "INFO" {
			t.Fatalf("record below warn after SetLevel: %v", r)
		}
	}
}
