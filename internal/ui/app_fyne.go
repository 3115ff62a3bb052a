//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"blockcanvas/internal/crash"
	"blockcanvas/internal/export"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/version"
)

// Run opens the editor window and blocks until it is closed.
func Run(opts Options) error {
	if opts.Engine == nil {
		return errors.New("ui: no engine")
	}
	l := opts.Logger
	if l == nil {
		l = applog.WithComponent("ui")
	}
	eng := opts.Engine
	defer crash.Recover(crash.Options{Dir: opts.CrashDir, Dump: eng.Board().MarshalState})
	l.Info("starting UI")

	fyneApp := app.NewWithID("blockcanvas")
	title := opts.Title
	if title == "" {
		title = version.String()
	}
	w := fyneApp.NewWindow(title)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	dc := NewDiagramCanvas(eng)
	// Requests from other goroutines (config reload) land on the UI thread.
	eng.Redraw().SetPost(func(flush func()) { fyne.Do(flush) })

	dc.OnError = func(err error) {
		l.Warn("input rejected", slog.Any("err", err))
		status.SetText(err.Error())
	}
	dc.OnMenu = func(m *gesture.Menu, pos fyne.Position) {
		items := make([]*fyne.MenuItem, 0, len(m.Items))
		for _, it := range m.Items {
			id := it.ID
			items = append(items, fyne.NewMenuItem(it.Label, func() {
				if err := eng.Invoke(id); err != nil {
					dc.OnError(err)
				}
				eng.Redraw().Flush()
			}))
		}
		abs := fyne.CurrentApp().Driver().AbsolutePositionForObject(dc)
		widget.ShowPopUpMenuAtPosition(fyne.NewMenu("", items...), w.Canvas(), abs.Add(pos))
	}
	eng.Subscribe(func(ev gesture.Event) {
		switch ev := ev.(type) {
		case gesture.PrimitiveClicked:
			status.SetText("Clicked " + strings.Join(ev.Keys, " > "))
		case gesture.EmptySpaceClicked:
			status.SetText(fmt.Sprintf("Empty space at %d,%d", ev.X, ev.Y))
		case gesture.LinkCreated:
			status.SetText("Linked " + ev.A + " to " + ev.B)
		case gesture.ConnectionCancelled:
			status.SetText("Connection cancelled")
		case gesture.Changed:
			status.SetText(ev.Label)
		}
	})

	history := func(step func() (bool, error)) func() {
		return func() {
			if _, err := step(); err != nil {
				dialog.ShowError(err, w)
			}
			eng.Redraw().Flush()
		}
	}
	exportAll := func() {
		snap := eng.Snapshot()
		status.SetText("Exporting...")
		go func() {
			paths, err := export.BatchExport(context.Background(), snap, opts.Export)
			fyne.Do(func() {
				if err != nil {
					l.Error("export failed", slog.Any("err", err))
					dialog.ShowError(err, w)
					status.SetText("Export failed")
					return
				}
				l.Info("exported", slog.Int("files", len(paths)))
				status.SetText("Exported " + strings.Join(paths, ", "))
			})
		}()
	}

	policy := widget.NewSelect([]string{gesture.MoveEvent.String(), gesture.Displacement.String()}, func(s string) {
		p, err := gesture.ParseDirtyPolicy(s)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		eng.SetPolicy(p)
	})
	policy.SetSelected(eng.Policy().String())

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), history(eng.Undo)),
		widget.NewToolbarAction(theme.ContentRedoIcon(), history(eng.Redo)),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if id := eng.Selection(); id != "" {
				if _, err := eng.Board().Block(id); err == nil {
					if err := eng.DeleteBlock(id); err != nil {
						dc.OnError(err)
					}
				}
			}
			eng.Redraw().Flush()
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), exportAll),
	)

	top := container.NewBorder(nil, nil, nil, policy, toolbar)
	w.SetContent(container.NewBorder(top, status, nil, nil, dc))
	w.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		if k.Name == fyne.KeyEscape {
			eng.Cancel()
			eng.Redraw().Flush()
		}
	})
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}
