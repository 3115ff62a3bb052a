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

	"github.com/yofu/dxf"

	"blockcanvas/internal/gesture"
)

// DXF layer names.
const (
	LayerBlocks = "BLOCKS"
	LayerStacks = "STACKS"
	LayerLinks  = "LINKS"
)

// ExportDXF writes rectangles as closed four-line loops, links as single
// lines and connection points as circles. DXF's y axis points up, so y is
// mirrored against the canvas height.
func ExportDXF(s gesture.Snapshot, path string) error {
	d := dxf.NewDrawing()
	flip := func(y int) float64 { return float64(s.Height - y) }

	loop := func(r gesture.RectView) error {
		x0, x1 := float64(r.X), float64(r.X+r.Width)
		y0, y1 := flip(r.Y), flip(r.Y+r.Height)
		edges := [4][4]float64{
			{x0, y0, x1, y0},
			{x1, y0, x1, y1},
			{x1, y1, x0, y1},
			{x0, y1, x0, y0},
		}
		for _, e := range edges {
			if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := d.AddLayer(LayerStacks, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("dxf layer: %w", err)
	}
	for _, sv := range s.Stacks {
		for _, c := range sv.Children {
			if err := loop(c.Rect); err != nil {
				return fmt.Errorf("dxf stack %s: %w", sv.ID, err)
			}
		}
	}

	if _, err := d.AddLayer(LayerBlocks, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("dxf layer: %w", err)
	}
	for _, b := range s.Blocks {
		if err := loop(b.Rect); err != nil {
			return fmt.Errorf("dxf block %s: %w", b.ID, err)
		}
		for _, p := range b.Points {
			if _, err := d.Circle(float64(p.X), flip(p.Y), 0, 2); err != nil {
				return fmt.Errorf("dxf point %s: %w", p.ID, err)
			}
		}
	}

	if _, err := d.AddLayer(LayerLinks, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("dxf layer: %w", err)
	}
	for _, l := range s.Links {
		if _, err := d.Line(float64(l.X1), flip(l.Y1), 0, float64(l.X2), flip(l.Y2), 0); err != nil {
			return fmt.Errorf("dxf link %s: %w", l.ID, err)
		}
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("write dxf: %w", err)
	}
	return nil
}
