/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package ui hosts the diagram engine in a Fyne desktop window. The window
// is only compiled with the fyne build tag; other builds get a stub Run.
package ui

import (
	"log/slog"

	"blockcanvas/internal/export"
	"blockcanvas/internal/gesture"
)

// Options configures the desktop window.
type Options struct {
	Engine *gesture.Engine
	Title  string
	// Export is used by the toolbar export action.
	Export export.BatchOptions
	// CrashDir receives crash reports raised on the UI thread.
	CrashDir string
	Logger   *slog.Logger
}
