/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"blockcanvas/internal/diagram"
)

// endpoint matching tolerance in drawing units
const dxfEps = 0.01

type box struct{ minX, minY, maxX, maxY float64 }

func (b box) empty() bool { return b.maxX-b.minX < dxfEps || b.maxY-b.minY < dxfEps }

func boxOf(pts [][]float64) box {
	b := box{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		b.minX = math.Min(b.minX, p[0])
		b.minY = math.Min(b.minY, p[1])
		b.maxX = math.Max(b.maxX, p[0])
		b.maxY = math.Max(b.maxY, p[1])
	}
	return b
}

func near(a, b []float64) bool {
	return math.Abs(a[0]-b[0]) < dxfEps && math.Abs(a[1]-b[1]) < dxfEps
}

// LoadDXF turns every closed outline into a stack child: LWPOLYLINE
// entities by their bounding box, and runs of four consecutive LINE entities
// that close on themselves. Circles and stray lines are skipped. The y axis
// is flipped and the result is shifted so the top-left child starts at 0,0.
func LoadDXF(path string) (Result, error) {
	drawing, err := dxf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}

	var (
		res    Result
		boxes  []box
		chain  [][2][]float64
		stray  int
		circle int
	)
	flush := func() {
		stray += len(chain)
		chain = chain[:0]
	}
	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			flush()
			if len(e.Vertices) < 3 {
				res.warnf("polyline with %d vertices skipped", len(e.Vertices))
				continue
			}
			boxes = append(boxes, boxOf(e.Vertices))
		case *entity.Line:
			seg := [2][]float64{e.Start[:2], e.End[:2]}
			if len(chain) > 0 && !near(chain[len(chain)-1][1], seg[0]) {
				flush()
			}
			chain = append(chain, seg)
			if len(chain) == 4 {
				if near(chain[3][1], chain[0][0]) {
					boxes = append(boxes, boxOf([][]float64{chain[0][0], chain[1][0], chain[2][0], chain[3][0]}))
					chain = chain[:0]
				} else {
					stray++
					chain = chain[1:]
				}
			}
		case *entity.Circle:
			flush()
			circle++
		default:
			flush()
		}
	}
	flush()
	if stray > 0 {
		res.warnf("%d open line segments skipped", stray)
	}
	if circle > 0 {
		res.warnf("%d circles skipped", circle)
	}

	kept := boxes[:0]
	for _, b := range boxes {
		if b.empty() {
			res.warnf("degenerate outline %.2fx%.2f skipped", b.maxX-b.minX, b.maxY-b.minY)
			continue
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		return finish(res, path)
	}

	minX, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range kept {
		minX = math.Min(minX, b.minX)
		maxY = math.Max(maxY, b.maxY)
	}
	for _, b := range kept {
		res.Children = append(res.Children, diagram.ChildSpec{
			X:      int(math.Round(b.minX - minX)),
			Y:      int(math.Round(maxY - b.maxY)),
			Width:  int(math.Round(b.maxX - b.minX)),
			Height: int(math.Round(b.maxY - b.minY)),
		})
	}
	return finish(res, path)
}
