/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"blockcanvas/internal/gesture"
)

// PNGOptions controls PNG export behavior.
//   - Scale multiplies the canvas size (1 = one pixel per canvas unit).
//   - Labels draws block ids in Go Mono at FontSize.
type PNGOptions struct {
	Scale    float64
	Labels   bool
	FontSize float64
	Style    Style
}

// ExportPNG rasterizes the snapshot into a single PNG file.
func ExportPNG(s gesture.Snapshot, path string, opt PNGOptions) error {
	st := opt.Style.withDefaults()
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(float64(s.Width) * scale))
	h := int(math.Ceil(float64(s.Height) * scale))
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty canvas %dx%d", s.Width, s.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.Scale(scale, scale)
	dc.SetLineWidth(st.StrokeWidth)

	fontSize := opt.FontSize
	if fontSize <= 0 {
		fontSize = 11
	}
	if opt.Labels {
		ttf, err := truetype.Parse(gomono.TTF)
		if err != nil {
			return fmt.Errorf("failed to parse font: %w", err)
		}
		dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: fontSize, DPI: 72, Hinting: font.HintingFull}))
	}

	// links first so blocks are drawn over their ends
	dc.SetColor(st.Link)
	for _, l := range s.Links {
		dc.DrawLine(float64(l.X1), float64(l.Y1), float64(l.X2), float64(l.Y2))
		dc.Stroke()
	}
	if s.Preview != nil {
		dc.SetDash(4, 3)
		dc.DrawLine(float64(s.Preview.X1), float64(s.Preview.Y1), float64(s.Preview.X2), float64(s.Preview.Y2))
		dc.Stroke()
		dc.SetDash()
	}

	dc.SetColor(st.Stack)
	for _, sv := range s.Stacks {
		for _, c := range sv.Children {
			r := c.Rect
			dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
			dc.Stroke()
		}
	}

	for _, b := range s.Blocks {
		r := b.Rect
		dc.SetColor(st.Block)
		dc.DrawRectangle(float64(r.X), float64(r.Y), float64(r.Width), float64(r.Height))
		dc.Stroke()
		if opt.Labels {
			dc.DrawString(b.ID, float64(r.X)+3, float64(r.Y)+fontSize+2)
		}
		dc.SetColor(st.Point)
		for _, p := range b.Points {
			dc.DrawCircle(float64(p.X), float64(p.Y), st.PointRadius)
			dc.Fill()
		}
	}

	if s.Selection != nil {
		r := s.Selection
		dc.SetColor(st.Selection)
		dc.SetDash(2, 2)
		dc.DrawRectangle(float64(r.X-2), float64(r.Y-2), float64(r.Width+4), float64(r.Height+4))
		dc.Stroke()
		dc.SetDash()
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
