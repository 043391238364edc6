/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Snapping helpers for dragging items against fixed guides (print area, canvas centre).
// UI-agnostic and deterministic so they can be unit tested.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum distance at which snapping occurs. Defaults to 6.
	Threshold     float32
	SnapToEdges   bool
	SnapToCenters bool
}

// Orientation of a guide line.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

// GuideLine is the visual feedback for an alignment that happened during a snap.
// Position is the x of a vertical guide or the y of a horizontal one.
type GuideLine struct {
	Orientation Orientation
	Center      bool
	Position    float32
	From, To    Pt
}

// Snap aligns moving to the closest anchor edge or centre per axis, within the
// threshold. X and Y snap independently.
func Snap(moving Rect, anchors []Rect, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	bestX := axisMatch{dist: math.MaxFloat32}
	bestY := axisMatch{dist: math.MaxFloat32}
	for _, a := range anchors {
		if opts.SnapToEdges {
			for _, edge := range [2]float32{a.X, a.X + a.W} {
				bestX.consider(moving.X-edge, edge, false, opts.Threshold)
				bestX.consider(moving.X+moving.W-edge, edge, false, opts.Threshold)
			}
			for _, edge := range [2]float32{a.Y, a.Y + a.H} {
				bestY.consider(moving.Y-edge, edge, false, opts.Threshold)
				bestY.consider(moving.Y+moving.H-edge, edge, false, opts.Threshold)
			}
		}
		if opts.SnapToCenters {
			c, mc := a.Center(), moving.Center()
			bestX.consider(mc.X-c.X, c.X, true, opts.Threshold)
			bestY.consider(mc.Y-c.Y, c.Y, true, opts.Threshold)
		}
	}

	snapped := moving
	var guides []GuideLine
	if bestX.ok {
		snapped.X = FloatRound(moving.X-bestX.delta, 3)
		span := spanY(snapped, anchors)
		guides = append(guides, GuideLine{Orientation: Vertical, Center: bestX.center, Position: bestX.at,
			From: Pt{bestX.at, span.X}, To: Pt{bestX.at, span.Y}})
	}
	if bestY.ok {
		snapped.Y = FloatRound(moving.Y-bestY.delta, 3)
		span := spanX(snapped, anchors)
		guides = append(guides, GuideLine{Orientation: Horizontal, Center: bestY.center, Position: bestY.at,
			From: Pt{span.X, bestY.at}, To: Pt{span.Y, bestY.at}})
	}
	return snapped, guides
}

type axisMatch struct {
	ok     bool
	delta  float32
	dist   float32
	at     float32
	center bool
}

func (m *axisMatch) consider(delta, at float32, center bool, threshold float32) {
	d := float32(math.Abs(float64(delta)))
	if d > threshold || d >= m.dist {
		return
	}
	*m = axisMatch{ok: true, delta: delta, dist: d, at: FloatRound(at, 3), center: center}
}

// spanY returns the vertical extent (min in X, max in Y) covering r and all anchors.
func spanY(r Rect, anchors []Rect) Pt {
	lo, hi := r.Y, r.Y+r.H
	for _, a := range anchors {
		lo = min(lo, a.Y)
		hi = max(hi, a.Y+a.H)
	}
	return Pt{lo, hi}
}

func spanX(r Rect, anchors []Rect) Pt {
	lo, hi := r.X, r.X+r.W
	for _, a := range anchors {
		lo = min(lo, a.X)
		hi = max(hi, a.X+a.W)
	}
	return Pt{lo, hi}
}
