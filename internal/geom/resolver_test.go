/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestFindHandle(t *testing.T) {
	r := NewRect(10, 10, 50, 30) // l=10 t=10 r=60 b=40
	cases := []struct {
		x, y int
		want Handle
	}{
		{10, 10, TopLeft},
		{60, 10, TopRight},
		{10, 40, BottomLeft},
		{60, 40, BottomRight},
		{11, 11, TopLeft},
		{61, 10, TopRight},
		{30, 10, Top},
		{30, 8, Top},
		{30, 12, Top},
		{30, 13, None},
		{30, 40, Bottom},
		{12, 20, Left},
		{8, 20, Left},
		{7, 20, None},
		{60, 25, Right},
		{62, 25, Right},
		{63, 10, None},
		{30, 25, None},
		{200, 200, None},
	}
	for _, c := range cases {
		if got := FindHandle(r, c.x, c.y, HandleTolerance); got != c.want {
			t.Fatalf("FindHandle(%d,%d) = %s, want %s", c.x, c.y, got, c.want)
		}
	}
}

func TestFindHandleZeroTolerance(t *testing.T) {
	r := NewRect(0, 0, 20, 20)
	if got := FindHandle(r, 10, 1, 0); got != None {
		t.Fatalf("expected no handle off the edge with zero tolerance, got %s", got)
	}
	if got := FindHandle(r, 10, 0, -3); got != Top {
		t.Fatalf("negative tolerance should behave like zero, got %s", got)
	}
}

func TestFindBorderUsesOrder(t *testing.T) {
	rects := []Rectangle{NewRect(0, 0, 20, 20), NewRect(20, 0, 20, 20)}
	id := func(r Rectangle) Rectangle { return r }
	i, h := FindBorder(rects, id, 20, 10, HandleTolerance)
	if i != 0 || h != Right {
		t.Fatalf("expected first rect right edge, got %d %s", i, h)
	}
	i, h = FindBorder(rects, id, 30, 10, HandleTolerance)
	if i != -1 || h != None {
		t.Fatalf("expected no border inside second rect, got %d %s", i, h)
	}
}

func TestCursorAt(t *testing.T) {
	r := NewRect(10, 10, 50, 30)
	if c := CursorAt(r, 30, 25, HandleTolerance); c != CursorMove {
		t.Fatalf("interior cursor = %q", c)
	}
	if c := CursorAt(r, 30, 10, HandleTolerance); c != CursorNS {
		t.Fatalf("top edge cursor = %q", c)
	}
	if c := CursorAt(r, 60, 40, HandleTolerance); c != CursorNWSE {
		t.Fatalf("bottom right cursor = %q", c)
	}
	if c := CursorAt(r, 10, 40, HandleTolerance); c != CursorNESW {
		t.Fatalf("bottom left cursor = %q", c)
	}
	if c := CursorAt(r, 100, 100, HandleTolerance); c != CursorDefault {
		t.Fatalf("outside cursor = %q", c)
	}
}
