/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package diagram

import "blockcanvas/internal/geom"

// DemoStack is the table-like stack the editor shows on an empty canvas: a
// header bar, two posts and a body between them.
func DemoStack() []ChildSpec {
	return []ChildSpec{
		{Key: "header", X: 0, Y: 0, Width: 200, Height: 30},
		{Key: "left", X: 0, Y: 30, Width: 30, Height: 100},
		{Key: "right", X: 170, Y: 30, Width: 30, Height: 100},
		{Key: "body", X: 30, Y: 30, Width: 140, Height: 100},
	}
}

// SeedDemo fills b with the demo stack and two blocks.
func SeedDemo(b *Board) {
	_, _ = b.CreateStack(100, 100, DemoStack())
	b.AddBlock(geom.NewRect(400, 120, 120, 80))
	b.AddBlock(geom.NewRect(420, 300, 80, 60))
}
