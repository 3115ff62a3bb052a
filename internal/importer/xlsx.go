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
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"blockcanvas/internal/diagram"
)

// Header names accepted per column, lowercase.
var headerAliases = map[string][]string{
	"key":    {"key", "name", "label", "id"},
	"x":      {"x", "left"},
	"y":      {"y", "top"},
	"width":  {"width", "w"},
	"height": {"height", "h"},
}

type columns map[string]int

func detectColumns(row []string) (columns, error) {
	cols := columns{}
	for i, cell := range row {
		h := strings.ToLower(strings.TrimSpace(cell))
		for name, aliases := range headerAliases {
			if _, seen := cols[name]; seen {
				continue
			}
			for _, a := range aliases {
				if h == a {
					cols[name] = i
				}
			}
		}
	}
	for _, req := range []string{"x", "y", "width", "height"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, req)
		}
	}
	return cols, nil
}

func (c columns) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columns) int(row []string, name string) (int, error) {
	s := c.cell(row, name)
	if s == "" {
		return 0, fmt.Errorf("%s is empty", name)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	return int(f + 0.5), nil
}

// LoadXLSX reads children from a sheet whose first row names the columns.
// An empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Result{}, fmt.Errorf("%s: %w", path, ErrNoChildren)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) (Result, error) {
	var res Result
	if len(rows) == 0 {
		return finish(res, "sheet")
	}
	cols, err := detectColumns(rows[0])
	if err != nil {
		return res, err
	}
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		var c diagram.ChildSpec
		c.Key = cols.cell(row, "key")
		var errs []string
		for _, f := range []struct {
			name string
			dst  *int
		}{{"x", &c.X}, {"y", &c.Y}, {"width", &c.Width}, {"height", &c.Height}} {
			v, err := cols.int(row, f.name)
			if err != nil {
				errs = append(errs, err.Error())
				continue
			}
			*f.dst = v
		}
		if len(errs) > 0 {
			res.warnf("row %d skipped: %s", line, strings.Join(errs, ", "))
			continue
		}
		if c.Width <= 0 || c.Height <= 0 {
			res.warnf("row %d skipped: non-positive size %dx%d", line, c.Width, c.Height)
			continue
		}
		res.Children = append(res.Children, c)
	}
	return finish(res, "sheet")
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
