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

	"github.com/jung-kurt/gofpdf"

	"blockcanvas/internal/gesture"
)

// PDFOptions controls PDF export behavior.
// Units are points; one canvas unit maps to Scale points. The page is the
// canvas, origin top-left. Labels use the built-in Helvetica so no font is
// embedded.
type PDFOptions struct {
	Scale    float64
	Labels   bool
	FontSize float64
	Title    string
	Style    Style
}

// ExportPDF writes the snapshot as a single-page vector PDF.
func ExportPDF(s gesture.Snapshot, path string, opt PDFOptions) error {
	st := opt.Style.withDefaults()
	k := opt.Scale
	if k <= 0 {
		k = 1
	}
	fontSize := opt.FontSize
	if fontSize <= 0 {
		fontSize = 11
	}
	pageW := float64(s.Width) * k
	pageH := float64(s.Height) * k

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	title := opt.Title
	if title == "" {
		title = "Board"
	}
	pdf.SetTitle(title, true)
	pdf.SetAuthor("BlockCanvas", false)
	pdf.SetFont("Helvetica", "", fontSize*k)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: pageW, Ht: pageH})
	pdf.SetLineWidth(st.StrokeWidth * k)

	setDrawColor(pdf, st.Link)
	for _, l := range s.Links {
		pdf.Line(float64(l.X1)*k, float64(l.Y1)*k, float64(l.X2)*k, float64(l.Y2)*k)
	}
	if p := s.Preview; p != nil {
		pdf.SetDashPattern([]float64{4 * k, 3 * k}, 0)
		pdf.Line(float64(p.X1)*k, float64(p.Y1)*k, float64(p.X2)*k, float64(p.Y2)*k)
		pdf.SetDashPattern([]float64{}, 0)
	}

	setDrawColor(pdf, st.Stack)
	for _, sv := range s.Stacks {
		for _, c := range sv.Children {
			rect(pdf, c.Rect, k, "D")
		}
	}

	for _, b := range s.Blocks {
		setDrawColor(pdf, st.Block)
		rect(pdf, b.Rect, k, "D")
		if opt.Labels {
			pdf.Text(float64(b.Rect.X+3)*k, (float64(b.Rect.Y)+fontSize+2)*k, b.ID)
		}
		setFillColor(pdf, st.Point)
		for _, p := range b.Points {
			pdf.Circle(float64(p.X)*k, float64(p.Y)*k, st.PointRadius*k, "F")
		}
	}

	if r := s.Selection; r != nil {
		setDrawColor(pdf, st.Selection)
		pdf.SetDashPattern([]float64{2 * k, 2 * k}, 0)
		pdf.Rect(float64(r.X-2)*k, float64(r.Y-2)*k, float64(r.Width+4)*k, float64(r.Height+4)*k, "D")
		pdf.SetDashPattern([]float64{}, 0)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func rect(pdf *gofpdf.Fpdf, r gesture.RectView, k float64, style string) {
	pdf.Rect(float64(r.X)*k, float64(r.Y)*k, float64(r.Width)*k, float64(r.Height)*k, style)
}

func setDrawColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
