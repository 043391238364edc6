/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import "mytshirt/internal/vector"

// MinItemSize is the smallest edge a live resize can shrink an item to.
const MinItemSize = 1

// resizeGesture scales a node from one corner handle. The opposite corner of
// the box at gesture start stays fixed.
type resizeGesture struct {
	ref       HitTarget
	corner    Corner
	anchor    vector.Pt
	base      vector.Pt // committed width and height of the node
	keepRatio bool
}

// beginResize starts a gesture on ref. Labels always keep their ratio.
func beginResize(ref HitTarget, n *Node, box vector.Rect, corner Corner, keepRatio bool) *resizeGesture {
	keepRatio = keepRatio || ref.Kind == TargetText
	g := &resizeGesture{ref: ref, corner: corner, base: vector.Pt{X: n.Width, Y: n.Height}, keepRatio: keepRatio}
	switch corner {
	case CornerNW:
		g.anchor = box.Max()
	case CornerNE:
		g.anchor = vector.Pt{X: box.X, Y: box.Y + box.H}
	case CornerSW:
		g.anchor = vector.Pt{X: box.X + box.W, Y: box.Y}
	default:
		g.anchor = box.Min()
	}
	return g
}

// at converts the pointer position into a transient transform. The box never
// flips through the anchor and never drops below MinItemSize.
func (g *resizeGesture) at(p vector.Pt) (Transform, bool) {
	if g.base.X <= 0 || g.base.Y <= 0 {
		return Transform{}, false
	}
	west := g.corner == CornerNW || g.corner == CornerSW
	north := g.corner == CornerNW || g.corner == CornerNE

	w := p.X - g.anchor.X
	if west {
		w = -w
	}
	h := p.Y - g.anchor.Y
	if north {
		h = -h
	}
	w, h = max(w, MinItemSize), max(h, MinItemSize)

	sx, sy := w/g.base.X, h/g.base.Y
	if g.keepRatio {
		s := max(sx, sy)
		sx, sy = s, s
		w, h = g.base.X*s, g.base.Y*s
	}

	x, y := g.anchor.X, g.anchor.Y
	if west {
		x -= w
	}
	if north {
		y -= h
	}
	return Transform{X: x, Y: y, ScaleX: sx, ScaleY: sy}, true
}
