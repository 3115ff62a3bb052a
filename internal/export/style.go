/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes a board snapshot to image, document, CAD and JSON
// files. Exporters work on gesture.Snapshot, so everything is already in
// absolute canvas coordinates.
package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
)

// Style controls colors and stroke widths; zero values get defaults.
type Style struct {
	Block       color.RGBA
	Stack       color.RGBA
	Link        color.RGBA
	Point       color.RGBA
	Selection   color.RGBA
	StrokeWidth float64
	PointRadius float64
}

func isZero(c color.RGBA) bool { return c == color.RGBA{} }

func (s Style) withDefaults() Style {
	if isZero(s.Block) {
		s.Block = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	}
	if isZero(s.Stack) {
		s.Stack = color.RGBA{R: 40, G: 90, B: 160, A: 255}
	}
	if isZero(s.Link) {
		s.Link = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	}
	if isZero(s.Point) {
		s.Point = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	}
	if isZero(s.Selection) {
		s.Selection = color.RGBA{R: 255, G: 140, B: 0, A: 255}
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = 1
	}
	if s.PointRadius <= 0 {
		s.PointRadius = 3
	}
	return s
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	return nil
}
