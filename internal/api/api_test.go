/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
)

func testEnv(t *testing.T, token string) (*Session, http.Handler) {
	t.Helper()
	b := diagram.NewBoard(diagram.Options{Width: 800, Height: 600})
	eng := gesture.New(b, gesture.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	broker := NewBroker()
	t.Cleanup(broker.Close)
	s := NewSession(eng, broker)
	return s, NewRouter(s, token)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func snapshotOf(t *testing.T, h http.Handler) gesture.Snapshot {
	t.Helper()
	w := do(t, h, http.MethodGet, "/snapshot", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", w.Code)
	}
	var s gesture.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return s
}

func TestDragThroughAPI(t *testing.T) {
	s, h := testEnv(t, "")
	s.Engine().Board().AddBlock(geom.NewRect(100, 100, 50, 50))

	if w := do(t, h, http.MethodPost, "/pointer/down", map[string]int{"x": 120, "y": 120}); w.Code != http.StatusOK {
		t.Fatalf("down status = %d body = %s", w.Code, w.Body.String())
	}
	w := do(t, h, http.MethodPost, "/pointer/move", map[string]int{"x": 220, "y": 170})
	var resp gestureResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Gesture.Mode != gesture.Dragging {
		t.Fatalf("mode = %v, want dragging", resp.Gesture.Mode)
	}
	do(t, h, http.MethodPost, "/pointer/up", map[string]int{"x": 220, "y": 170})

	snap := snapshotOf(t, h)
	if got := snap.Blocks[0].Rect; got.X != 200 || got.Y != 150 {
		t.Fatalf("block at %d,%d want 200,150", got.X, got.Y)
	}

	w = do(t, h, http.MethodPost, "/undo", nil)
	var hr historyResponse
	_ = json.Unmarshal(w.Body.Bytes(), &hr)
	if !hr.Changed || !hr.CanRedo {
		t.Fatalf("undo response = %+v", hr)
	}
	if got := snapshotOf(t, h).Blocks[0].Rect; got.X != 100 {
		t.Fatalf("undo: block x = %d", got.X)
	}
}

func TestPointerDownWhileDraggingConflicts(t *testing.T) {
	s, h := testEnv(t, "")
	s.Engine().Board().AddBlock(geom.NewRect(100, 100, 50, 50))
	do(t, h, http.MethodPost, "/pointer/down", map[string]int{"x": 120, "y": 120})
	w := do(t, h, http.MethodPost, "/pointer/down", map[string]int{"x": 10, "y": 10})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestAuth(t *testing.T) {
	_, h := testEnv(t, "secret")
	if w := do(t, h, http.MethodGet, "/snapshot", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("with token: status = %d", w.Code)
	}
}

func TestContextMenuCreatesBlock(t *testing.T) {
	_, h := testEnv(t, "")
	if w := do(t, h, http.MethodPost, "/menu/create-block", nil); w.Code != http.StatusConflict {
		t.Fatalf("no menu: status = %d", w.Code)
	}
	w := do(t, h, http.MethodPost, "/menu", map[string]int{"x": 300, "y": 200})
	if w.Code != http.StatusOK {
		t.Fatalf("menu status = %d", w.Code)
	}
	var m gesture.Menu
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if !m.Has(gesture.ItemCreateBlock) || m.Has(gesture.ItemAddConnectionPoint) {
		t.Fatalf("menu items = %+v", m.Items)
	}
	if w := do(t, h, http.MethodPost, "/menu/create-block", nil); w.Code != http.StatusOK {
		t.Fatalf("invoke status = %d", w.Code)
	}
	snap := snapshotOf(t, h)
	if len(snap.Blocks) != 1 || snap.Blocks[0].Rect.X != 300 || snap.Blocks[0].Rect.Width != 50 {
		t.Fatalf("blocks = %+v", snap.Blocks)
	}
}

func TestUndoClosesMenu(t *testing.T) {
	_, h := testEnv(t, "")
	do(t, h, http.MethodPost, "/menu", map[string]int{"x": 0, "y": 10})
	if w := do(t, h, http.MethodPost, "/menu/create-block", nil); w.Code != http.StatusOK {
		t.Fatalf("create status = %d", w.Code)
	}
	w := do(t, h, http.MethodPost, "/menu", map[string]int{"x": 25, "y": 10})
	var m gesture.Menu
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if !m.Has(gesture.ItemAddConnectionPoint) {
		t.Fatalf("border menu items = %+v", m.Items)
	}

	if w := do(t, h, http.MethodPost, "/undo", nil); w.Code != http.StatusOK {
		t.Fatalf("undo status = %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/menu/add-connection-point", nil); w.Code != http.StatusConflict {
		t.Fatalf("invoke after undo: status = %d body = %s", w.Code, w.Body.String())
	}
	snap := snapshotOf(t, h)
	if snap.Menu != nil || snap.Mode != gesture.Idle || len(snap.Blocks) != 0 || len(snap.Links) != 0 {
		t.Fatalf("snapshot after undo = %+v", snap)
	}
}

func TestRequestLogCarriesRequestContext(t *testing.T) {
	var buf bytes.Buffer
	applog.Init(applog.Options{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { applog.Init(applog.Options{Level: "info"}) })
	_, h := testEnv(t, "")

	if w := do(t, h, http.MethodDelete, "/blocks/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}

	var failed, done map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("record %q: %v", sc.Text(), err)
		}
		switch rec["msg"] {
		case "request failed":
			failed = rec
		case "request":
			done = rec
		}
	}
	if failed == nil || done == nil {
		t.Fatalf("missing records in %q", buf.String())
	}
	if failed["component"] != "api" || failed["route"] != "DELETE /blocks/nope" || failed["status"] != float64(404) {
		t.Fatalf("failure record = %v", failed)
	}
	if id, _ := failed["req"].(string); id == "" || done["req"] != id {
		t.Fatalf("request ids: failed=%v done=%v", failed["req"], done["req"])
	}
	if done["status"] != float64(404) {
		t.Fatalf("request record = %v", done)
	}
}

func TestStacksAndBlocks(t *testing.T) {
	_, h := testEnv(t, "")
	if w := do(t, h, http.MethodPost, "/stacks", map[string]any{"x": 0, "y": 0, "children": []any{}}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty stack: status = %d", w.Code)
	}
	w := do(t, h, http.MethodPost, "/stacks", map[string]any{"x": 10, "y": 10, "children": diagram.DemoStack()})
	if w.Code != http.StatusCreated {
		t.Fatalf("stack status = %d body = %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/blocks", map[string]int{"x": 400, "y": 400})
	if w.Code != http.StatusCreated {
		t.Fatalf("block status = %d", w.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	if w := do(t, h, http.MethodDelete, "/blocks/"+created.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := do(t, h, http.MethodDelete, "/blocks/"+created.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", w.Code)
	}
	snap := snapshotOf(t, h)
	if len(snap.Blocks) != 0 || len(snap.Stacks) != 1 {
		t.Fatalf("snapshot = %d blocks, %d stacks", len(snap.Blocks), len(snap.Stacks))
	}
}

func TestPolicyAndHover(t *testing.T) {
	s, h := testEnv(t, "")
	s.Engine().Board().AddBlock(geom.NewRect(100, 100, 50, 50))
	if w := do(t, h, http.MethodPut, "/policy", map[string]string{"policy": "displacement"}); w.Code != http.StatusOK {
		t.Fatalf("policy status = %d", w.Code)
	}
	if s.Engine().Policy() != gesture.Displacement {
		t.Fatalf("policy not applied")
	}
	if w := do(t, h, http.MethodPut, "/policy", map[string]string{"policy": "sometimes"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad policy status = %d", w.Code)
	}
	w := do(t, h, http.MethodGet, "/cursor?x=125&y=125", nil)
	if !strings.Contains(w.Body.String(), geom.CursorMove) {
		t.Fatalf("hover = %s", w.Body.String())
	}
	if w := do(t, h, http.MethodGet, "/cursor?x=a", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad hover status = %d", w.Code)
	}
}

func TestEventStream(t *testing.T) {
	s, h := testEnv(t, "")
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Broker().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	body, _ := json.Marshal(map[string]int{"x": 10, "y": 10})
	post, err := http.Post(srv.URL+"/blocks", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	post.Body.Close()
	s.Engine().Redraw().Flush()

	lines := make(chan string, 128)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	want := map[string]bool{"event: block-created": false, "event: changed": false, "event: frame": false}
	timeout := time.After(2 * time.Second)
	for {
		done := true
		for _, seen := range want {
			done = done && seen
		}
		if done {
			return
		}
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed early, seen %v", want)
			}
			if _, tracked := want[l]; tracked {
				want[l] = true
			}
		case <-timeout:
			t.Fatalf("timed out, seen %v", want)
		}
	}
}
