/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"blockcanvas/internal/gesture"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
	PresetCAD   PresetName = "cad"
)

// BatchOptions controls a multi-format export of one snapshot.
//
// Files are written as <OutDir>/<Name>.<format>. Formats defaults to the
// preset's formats; Name defaults to "board".
type BatchOptions struct {
	Preset   PresetName
	Formats  []string // allowed: png, svg, pdf, dxf, json
	OutDir   string
	Name     string
	Scale    float64
	FontSize float64
	Labels   bool
	Style    Style
}

// BatchExport writes every requested format in parallel and returns the
// written paths in format order. The first failure cancels the rest.
func BatchExport(ctx context.Context, s gesture.Snapshot, opt BatchOptions) ([]string, error) {
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	name := opt.Name
	if name == "" {
		name = "board"
	}
	if opt.OutDir == "" {
		opt.OutDir = "."
	}

	paths := make([]string, len(formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		out := filepath.Join(opt.OutDir, name+"."+f)
		paths[i] = out
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := exportOne(s, f, out, opt); err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func exportOne(s gesture.Snapshot, format, out string, opt BatchOptions) error {
	switch format {
	case "png":
		return ExportPNG(s, out, PNGOptions{Scale: opt.Scale, Labels: opt.Labels, FontSize: opt.FontSize, Style: opt.Style})
	case "svg":
		return ExportSVG(s, out, SVGOptions{Scale: opt.Scale, Labels: opt.Labels, Style: opt.Style})
	case "pdf":
		return ExportPDF(s, out, PDFOptions{Scale: opt.Scale, Labels: opt.Labels, FontSize: opt.FontSize, Style: opt.Style})
	case "dxf":
		return ExportDXF(s, out)
	case "json":
		return ExportJSON(s, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg", "json"}
	case PresetPrint:
		return []string{"pdf", "png"}
	case PresetCAD:
		return []string{"dxf", "json"}
	default:
		return []string{"json"}
	}
}
