/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package importer reads stack layouts from YAML, spreadsheet and DXF files
// and turns them into child lists for diagram.Board.CreateStack.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"blockcanvas/internal/diagram"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported import format")
	ErrNoChildren        = errors.New("no stack children found")
	ErrMissingColumn     = errors.New("missing required column")
)

// Result is what an import produced. Warnings describe skipped input that
// did not abort the import.
type Result struct {
	Children []diagram.ChildSpec
	Warnings []string
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Load picks the reader from the file extension.
func Load(path string) (Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".xlsx":
		return LoadXLSX(path, "")
	case ".dxf":
		return LoadDXF(path)
	}
	return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

func finish(r Result, src string) (Result, error) {
	if len(r.Children) == 0 {
		return r, fmt.Errorf("%s: %w", src, ErrNoChildren)
	}
	return r, nil
}
