/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the active interaction.
type Mode int

const (
	Idle Mode = iota
	Dragging
	Resizing
	Connecting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Connecting:
		return "connecting"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	for _, v := range []Mode{Idle, Dragging, Resizing, Connecting} {
		if v.String() == string(b) {
			*m = v
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", b)
}

// DirtyPolicy decides when a press has turned into a drag and no longer
// counts as a click.
type DirtyPolicy int

const (
	// MoveEvent marks the gesture dirty on any move, even to the same point.
	MoveEvent DirtyPolicy = iota
	// Displacement marks it dirty once the pointer left the press position.
	// It stays dirty when the pointer comes back.
	Displacement
)

var ErrUnknownPolicy = errors.New("unknown dirty policy")

func (p DirtyPolicy) String() string {
	if p == Displacement {
		return "displacement"
	}
	return "move-event"
}

// ParseDirtyPolicy accepts the names used in configuration files and flags.
// The empty string selects MoveEvent.
func ParseDirtyPolicy(s string) (DirtyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "move-event", "move":
		return MoveEvent, nil
	case "displacement":
		return Displacement, nil
	}
	return MoveEvent, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

func (p DirtyPolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *DirtyPolicy) UnmarshalText(b []byte) error {
	v, err := ParseDirtyPolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
