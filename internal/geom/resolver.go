/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geom

// HandleTolerance is the default distance in pixels within which a pointer
// still counts as being on an edge.
const HandleTolerance = 2

// FindHandle resolves the handle of r under the pointer, or None.
// Corners win over edges; an edge only matches when neither adjacent edge is
// also near, which keeps the corner regions unambiguous.
func FindHandle(r Rectangle, px, py, tol int) Handle {
	if tol < 0 {
		tol = 0
	}
	nearTop := Abs(r.Top()-py) <= tol && r.Left()-tol < px && px < r.Right()+tol
	nearBottom := Abs(r.Bottom()-py) <= tol && r.Left()-tol < px && px < r.Right()+tol
	nearLeft := Abs(r.Left()-px) <= tol && r.Top()-tol < py && py < r.Bottom()+tol
	nearRight := Abs(r.Right()-px) <= tol && r.Top()-tol < py && py < r.Bottom()+tol

	switch {
	case nearTop && nearLeft:
		return TopLeft
	case nearTop && nearRight:
		return TopRight
	case nearBottom && nearLeft:
		return BottomLeft
	case nearBottom && nearRight:
		return BottomRight
	case nearTop && !nearLeft && !nearRight:
		return Top
	case nearRight && !nearTop && !nearBottom:
		return Right
	case nearBottom && !nearLeft && !nearRight:
		return Bottom
	case nearLeft && !nearTop && !nearBottom:
		return Left
	}
	return None
}

// FindBorder scans items in order and returns the index and handle of the
// first one whose rectangle has a handle under the pointer. Overlaps are
// settled by order alone. It returns -1 and None when nothing matches.
func FindBorder[T any](items []T, rect func(T) Rectangle, px, py, tol int) (int, Handle) {
	for i, it := range items {
		if h := FindHandle(rect(it), px, py, tol); h != None {
			return i, h
		}
	}
	return -1, None
}

// CursorAt combines handle and drag-area checks into the cursor name shown
// while hovering over r.
func CursorAt(r Rectangle, px, py, tol int) string {
	if h := FindHandle(r, px, py, tol); h != None {
		return h.Cursor()
	}
	if r.InDragArea(px, py, tol) {
		return CursorMove
	}
	return CursorDefault
}
