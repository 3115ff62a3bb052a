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
	"os"

	"gopkg.in/yaml.v3"

	"blockcanvas/internal/diagram"
)

type stackFile struct {
	Children []diagram.ChildSpec `yaml:"children"`
}

// LoadYAML reads either a bare list of children or a mapping with a
// children key.
func LoadYAML(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (Result, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("parse yaml: %w", err)
	}
	var res Result
	if len(doc.Content) == 0 {
		return finish(res, "yaml")
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&res.Children); err != nil {
			return Result{}, fmt.Errorf("decode children: %w", err)
		}
	case yaml.MappingNode:
		var f stackFile
		if err := root.Decode(&f); err != nil {
			return Result{}, fmt.Errorf("decode stack: %w", err)
		}
		res.Children = f.Children
	default:
		return Result{}, fmt.Errorf("parse yaml: unexpected top-level node at line %d", root.Line)
	}
	kept := res.Children[:0]
	for i, c := range res.Children {
		if c.Width <= 0 || c.Height <= 0 {
			res.warnf("child %d (%s): non-positive size %dx%d skipped", i, c.Key, c.Width, c.Height)
			continue
		}
		kept = append(kept, c)
	}
	res.Children = kept
	return finish(res, "yaml")
}
