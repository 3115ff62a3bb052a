/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"blockcanvas/internal/gesture"
)

//go:embed snapshot.schema.json
var snapshotSchema []byte

// ErrInvalidSnapshot wraps schema violations.
var ErrInvalidSnapshot = errors.New("snapshot does not match schema")

// SnapshotSchema returns the JSON schema snapshots are validated against.
func SnapshotSchema() []byte { return snapshotSchema }

// ExportJSON writes the snapshot as indented JSON.
func ExportJSON(s gesture.Snapshot, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// ValidateSnapshot checks data against the snapshot schema. Violations are
// reported in one error wrapping ErrInvalidSnapshot.
func ValidateSnapshot(data []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(snapshotSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
}
