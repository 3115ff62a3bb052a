/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"image/color"
	"os"

	"blockcanvas/internal/gesture"
)

// SVGOptions controls SVG export behavior. The viewBox is the canvas; Scale
// only changes the width/height attributes.
type SVGOptions struct {
	Scale  float64
	Labels bool
	Style  Style
}

// ExportSVG writes the snapshot as a standalone SVG document.
func ExportSVG(s gesture.Snapshot, path string, opt SVGOptions) error {
	data, err := RenderSVG(s, opt)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// RenderSVG returns the SVG document for s.
func RenderSVG(s gesture.Snapshot, opt SVGOptions) ([]byte, error) {
	st := opt.Style.withDefaults()
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%gpx\" height=\"%gpx\" viewBox=\"0 0 %d %d\">\n",
		float64(s.Width)*scale, float64(s.Height)*scale, s.Width, s.Height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%d\" height=\"%d\" fill=\"#ffffff\"/>\n", s.Width, s.Height)

	lc := svgColor(st.Link)
	wf("  <g id=\"links\" stroke=\"%s\" stroke-width=\"%g\">\n", lc, st.StrokeWidth)
	for _, l := range s.Links {
		wf("    <line id=\"%s\" x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\"/>\n", escAttr(l.ID), l.X1, l.Y1, l.X2, l.Y2)
	}
	if p := s.Preview; p != nil {
		wf("    <line class=\"preview\" x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke-dasharray=\"4 3\"/>\n", p.X1, p.Y1, p.X2, p.Y2)
	}
	wf("  </g>\n")

	sc := svgColor(st.Stack)
	for _, sv := range s.Stacks {
		wf("  <g id=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\">\n", escAttr(sv.ID), sc, st.StrokeWidth)
		for _, c := range sv.Children {
			r := c.Rect
			wf("    <rect data-key=\"%s\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"/>\n", escAttr(c.Key), r.X, r.Y, r.Width, r.Height)
		}
		wf("  </g>\n")
	}

	bc := svgColor(st.Block)
	pc := svgColor(st.Point)
	for _, b := range s.Blocks {
		r := b.Rect
		wf("  <g id=\"%s\">\n", escAttr(b.ID))
		wf("    <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", r.X, r.Y, r.Width, r.Height, bc, st.StrokeWidth)
		for _, p := range b.Points {
			wf("    <circle id=\"%s\" cx=\"%d\" cy=\"%d\" r=\"%g\" fill=\"%s\"/>\n", escAttr(p.ID), p.X, p.Y, st.PointRadius, pc)
		}
		if opt.Labels {
			wf("    <text x=\"%d\" y=\"%d\" font-family=\"monospace\" font-size=\"11\">%s</text>\n", r.X+3, r.Y+13, escText(b.ID))
		}
		wf("  </g>\n")
	}

	if r := s.Selection; r != nil {
		wf("  <rect class=\"selection\" x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"%s\" stroke-dasharray=\"2 2\"/>\n",
			r.X-2, r.Y-2, r.Width+4, r.Height+4, svgColor(st.Selection))
	}
	wf("</svg>\n")

	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, "&quot;"...)
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '\n', '\r':
			out = append(out, ' ')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, "&amp;"...)
		case '<':
			out = append(out, "&lt;"...)
		case '>':
			out = append(out, "&gt;"...)
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
