//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
)

var (
	colBackground = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	colBlock      = color.RGBA{R: 220, G: 230, B: 245, A: 255}
	colStroke     = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	colStack      = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colLink       = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	colPreview    = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	colPoint      = color.RGBA{R: 200, G: 60, B: 40, A: 255}
	colSelection  = color.RGBA{R: 0, G: 170, B: 255, A: 255}
)

// DiagramCanvas feeds desktop pointer input to the engine and paints its
// snapshot. Widget-local positions are canvas coordinates.
type DiagramCanvas struct {
	widget.BaseWidget

	eng *gesture.Engine
	// OnMenu is called after a secondary click opened a context menu.
	OnMenu func(m *gesture.Menu, pos fyne.Position)
	// OnError receives rejected input.
	OnError func(err error)
}

func NewDiagramCanvas(eng *gesture.Engine) *DiagramCanvas {
	dc := &DiagramCanvas{eng: eng}
	eng.Redraw().SetDraw(dc.Refresh)
	dc.ExtendBaseWidget(dc)
	return dc
}

func point(p fyne.Position) (int, int) {
	return int(math.Round(float64(p.X))), int(math.Round(float64(p.Y)))
}

func (d *DiagramCanvas) fail(err error) {
	if err != nil && d.OnError != nil {
		d.OnError(err)
	}
}

// MouseDown implements desktop.Mouseable.
func (d *DiagramCanvas) MouseDown(e *desktop.MouseEvent) {
	x, y := point(e.Position)
	switch e.Button {
	case desktop.MouseButtonPrimary:
		d.fail(d.eng.PointerDown(x, y, gesture.PrimaryButton))
	case desktop.MouseButtonSecondary:
		m, err := d.eng.ContextAction(x, y)
		d.fail(err)
		if err == nil && d.OnMenu != nil {
			d.OnMenu(m, e.Position)
		}
	}
	d.eng.Redraw().Flush()
}

// MouseUp implements desktop.Mouseable.
func (d *DiagramCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	d.eng.PointerUp(point(e.Position))
	d.eng.Redraw().Flush()
}

// Dragged receives moves while a button is held.
func (d *DiagramCanvas) Dragged(e *fyne.DragEvent) {
	d.eng.PointerMove(point(e.Position))
	d.eng.Redraw().Flush()
}

func (d *DiagramCanvas) DragEnd() {}

// MouseIn implements desktop.Hoverable.
func (d *DiagramCanvas) MouseIn(e *desktop.MouseEvent) { d.MouseMoved(e) }

// MouseMoved covers hover and the connecting rubber band, which is drawn
// with no button held.
func (d *DiagramCanvas) MouseMoved(e *desktop.MouseEvent) {
	d.eng.PointerMove(point(e.Position))
	d.eng.Redraw().Flush()
}

func (d *DiagramCanvas) MouseOut() {}

// Cursor implements desktop.Cursorable.
func (d *DiagramCanvas) Cursor() desktop.Cursor {
	switch d.eng.Cursor() {
	case geom.CursorEW:
		return desktop.HResizeCursor
	case geom.CursorNS:
		return desktop.VResizeCursor
	case geom.CursorNWSE, geom.CursorNESW, gesture.CursorCrosshair:
		return desktop.CrosshairCursor
	case geom.CursorMove:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

func (d *DiagramCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(colBackground)
	r := &diagramRenderer{dc: d, bg: bg}
	r.rebuild()
	return r
}

type diagramRenderer struct {
	dc      *DiagramCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *diagramRenderer) Destroy()                     {}
func (r *diagramRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *diagramRenderer) MinSize() fyne.Size           { return fyne.NewSize(320, 240) }

func (r *diagramRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	w, h := point(fyne.NewPos(size.Width, size.Height))
	if bw, bh := r.dc.eng.Board().Size(); w > 0 && h > 0 && (bw != w || bh != h) {
		r.dc.eng.Board().Resize(w, h)
	}
}

func (r *diagramRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.dc.Size())
	canvas.Refresh(r.dc)
}

func rect(v gesture.RectView, fill, stroke color.Color, width float32) *canvas.Rectangle {
	c := canvas.NewRectangle(fill)
	c.StrokeColor = stroke
	c.StrokeWidth = width
	c.Move(fyne.NewPos(float32(v.X), float32(v.Y)))
	c.Resize(fyne.NewSize(float32(v.Width), float32(v.Height)))
	return c
}

func line(v gesture.LineView, col color.Color, width float32) *canvas.Line {
	l := canvas.NewLine(col)
	l.StrokeWidth = width
	l.Position1 = fyne.NewPos(float32(v.X1), float32(v.Y1))
	l.Position2 = fyne.NewPos(float32(v.X2), float32(v.Y2))
	return l
}

// rebuild recreates the scene objects from the current snapshot, in the
// same paint order as the exporters.
func (r *diagramRenderer) rebuild() {
	s := r.dc.eng.Snapshot()
	objs := []fyne.CanvasObject{r.bg}
	for _, st := range s.Stacks {
		for _, c := range st.Children {
			objs = append(objs, rect(c.Rect, colStack, colStroke, 1))
		}
	}
	for _, b := range s.Blocks {
		objs = append(objs, rect(b.Rect, colBlock, colStroke, 1))
	}
	for _, l := range s.Links {
		objs = append(objs, line(l, colLink, 2))
	}
	if p := s.Preview; p != nil {
		objs = append(objs, line(*p, colPreview, 1))
	}
	for _, b := range s.Blocks {
		for _, p := range b.Points {
			c := canvas.NewCircle(colPoint)
			c.Move(fyne.NewPos(float32(p.X)-3, float32(p.Y)-3))
			c.Resize(fyne.NewSize(6, 6))
			objs = append(objs, c)
		}
	}
	if sel := s.Selection; sel != nil {
		v := gesture.RectView{X: sel.X - 2, Y: sel.Y - 2, Width: sel.Width + 4, Height: sel.Height + 4}
		objs = append(objs, rect(v, color.Transparent, colSelection, 1))
	}
	r.objects = objs
}
