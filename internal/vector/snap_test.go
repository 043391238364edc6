/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import "testing"

func TestSnap_EdgeWithinThreshold(t *testing.T) {
	guide := R(118, 134, 120, 185)
	moving := R(121, 200, 40, 20) // left edge 3px right of guide edge
	got, guides := Snap(moving, []Rect{guide}, SnapOptions{Threshold: 6, SnapToEdges: true})
	if got.X != 118 {
		t.Fatalf("expected snap to x=118, got %+v", got)
	}
	if got.Y != 200 {
		t.Fatalf("y should be untouched, got %v", got.Y)
	}
	if len(guides) != 1 || guides[0].Orientation != Vertical || guides[0].Position != 118 {
		t.Fatalf("unexpected guides: %+v", guides)
	}
}

func TestSnap_CenterAndOutOfRange(t *testing.T) {
	canvas := R(0, 0, 360, 420)
	moving := R(158, 10, 40, 20) // centre x = 178, canvas centre = 180
	got, guides := Snap(moving, []Rect{canvas}, SnapOptions{SnapToCenters: true})
	if got.X != 160 {
		t.Fatalf("expected centre snap to x=160, got %+v", got)
	}
	if len(guides) != 1 || !guides[0].Center {
		t.Fatalf("expected one centre guide, got %+v", guides)
	}

	far := R(50, 50, 10, 10)
	got, guides = Snap(far, []Rect{canvas}, SnapOptions{Threshold: 2, SnapToCenters: true, SnapToEdges: true})
	if got != far || len(guides) != 0 {
		t.Fatalf("expected no snapping, got %+v guides=%d", got, len(guides))
	}
}
