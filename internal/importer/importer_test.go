/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"blockcanvas/internal/diagram"
	"blockcanvas/internal/export"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestYAMLMappingAndList(t *testing.T) {
	mapping := `
children:
  - {key: header, x: 0, y: 0, width: 200, height: 30}
  - {key: body, x: 0, y: 30, width: 200, height: 100}
`
	res, err := Load(writeFile(t, "stack.yaml", mapping))
	require.NoError(t, err)
	require.Len(t, res.Children, 2)
	assert.Equal(t, diagram.ChildSpec{Key: "body", X: 0, Y: 30, Width: 200, Height: 100}, res.Children[1])

	list := "- {x: 0, y: 0, width: 10, height: 10}\n- {x: 10, y: 0, width: 0, height: 10}\n"
	res, err = Load(writeFile(t, "stack.yml", list))
	require.NoError(t, err)
	assert.Len(t, res.Children, 1)
	assert.Len(t, res.Warnings, 1)
}

func TestYAMLEmpty(t *testing.T) {
	_, err := ParseYAML([]byte("children: []\n"))
	assert.ErrorIs(t, err, ErrNoChildren)
	_, err = ParseYAML([]byte("just a string\n"))
	assert.Error(t, err)
}

func TestUnsupportedExtension(t *testing.T) {
	_, err := Load("stack.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func writeSheet(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	p := filepath.Join(t.TempDir(), "stack.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestXLSXWithAliasesAndBadRows(t *testing.T) {
	p := writeSheet(t, [][]any{
		{"Name", "X", "Y", "W", "H"},
		{"header", 0, 0, 200, 30},
		{"", "", "", "", ""},
		{"broken", "abc", 0, 10, 10},
		{"body", 30, 30, 140.4, 100},
	})
	res, err := Load(p)
	require.NoError(t, err)
	require.Len(t, res.Children, 2)
	assert.Equal(t, "header", res.Children[0].Key)
	assert.Equal(t, 140, res.Children[1].Width)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "row 4")
}

func TestXLSXMissingColumn(t *testing.T) {
	p := writeSheet(t, [][]any{{"key", "x", "y", "width"}, {"a", 0, 0, 10}})
	_, err := LoadXLSX(p, "")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestDXFRoundTripOfExportedStack(t *testing.T) {
	b := diagram.NewBoard(diagram.Options{Width: 640, Height: 480})
	_, err := b.CreateStack(100, 100, diagram.DemoStack())
	require.NoError(t, err)
	e := gesture.New(b, gesture.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	p := filepath.Join(t.TempDir(), "stack.dxf")
	require.NoError(t, export.ExportDXF(e.Snapshot(), p))

	res, err := Load(p)
	require.NoError(t, err)
	want := diagram.DemoStack()
	require.Len(t, res.Children, len(want))
	for i, c := range res.Children {
		w := want[i]
		w.Key = ""
		assert.Equal(t, w, c, "child %d", i)
	}
}

func TestDXFSkipsPointsAndLinks(t *testing.T) {
	b := diagram.NewBoard(diagram.Options{Width: 640, Height: 480})
	a := b.AddBlock(geom.NewRect(0, 0, 200, 30))
	c := b.AddBlock(geom.NewRect(330, 230, 140, 100))
	pa, err := b.AddPoint(a.ID, diagram.Anchor{Side: diagram.SideRight, Fraction: 0.5})
	require.NoError(t, err)
	pc, err := b.AddPoint(c.ID, diagram.Anchor{Side: diagram.SideLeft, Fraction: 0.5})
	require.NoError(t, err)
	_, err = b.Connect(pa.ID, pc.ID)
	require.NoError(t, err)
	e := gesture.New(b, gesture.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	p := filepath.Join(t.TempDir(), "blocks.dxf")
	require.NoError(t, export.ExportDXF(e.Snapshot(), p))

	res, err := LoadDXF(p)
	require.NoError(t, err)
	require.Len(t, res.Children, 2)
	assert.Equal(t, diagram.ChildSpec{X: 0, Y: 0, Width: 200, Height: 30}, res.Children[0])
	assert.Equal(t, diagram.ChildSpec{X: 330, Y: 230, Width: 140, Height: 100}, res.Children[1])
	assert.NotEmpty(t, res.Warnings)
}
