/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package diagram

import "errors"

var (
	ErrBlockNotFound   = errors.New("block not found")
	ErrStackNotFound   = errors.New("stack not found")
	ErrPointNotFound   = errors.New("connection point not found")
	ErrSelfLink        = errors.New("link endpoints belong to the same block")
	ErrInvalidFraction = errors.New("fraction must be in (0,1]")
	ErrInvalidSide     = errors.New("invalid side")
	ErrEmptyStack      = errors.New("stack needs at least one child")
)
