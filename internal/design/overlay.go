/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import "mytshirt/internal/vector"

// Overlay layout constants.
const (
	AnchorSize      = 8
	DeleteGlyphSize = 16
	// delete glyph sits just outside the box's top-right corner
	deleteGlyphDX = -6
	deleteGlyphDY = -18
)

// Overlay is the control overlay: resize handles bound to the selected node
// and a delete glyph anchored to the node's current box.
type Overlay struct {
	visible bool
	bound   *Node
	box     *vector.Rect
	geom    Geometry
}

// Bind shows the overlay on n (the item's own node, never a copy) and
// computes its box.
func (o *Overlay) Bind(n *Node) {
	o.visible = true
	o.bound = n
	o.Refresh()
}

// Hide unbinds and drops the control box.
func (o *Overlay) Hide() {
	o.visible = false
	o.bound = nil
	o.box = nil
}

// Refresh recomputes the control box from the bound node. With nothing bound
// the cached box is kept.
func (o *Overlay) Refresh() {
	if !o.visible || o.bound == nil {
		return
	}
	if b, ok := o.geom.BoundingBox(o.bound); ok {
		o.box = &b
	}
}

func (o *Overlay) Visible() bool { return o.visible }

// Bound is the node the handles are attached to.
func (o *Overlay) Bound() *Node { return o.bound }

// Box is the current control box; ok is false when there is none.
func (o *Overlay) Box() (vector.Rect, bool) {
	if o.box == nil {
		return vector.Rect{}, false
	}
	return *o.box, true
}

// DeleteGlyph is the top-left of the delete affordance.
func (o *Overlay) DeleteGlyph() (vector.Pt, bool) {
	b, ok := o.Box()
	if !ok || !o.visible {
		return vector.Pt{}, false
	}
	return vector.Pt{X: b.X + b.W + deleteGlyphDX, Y: b.Y + deleteGlyphDY}, true
}

// DeleteGlyphRect is the clickable area of the delete affordance.
func (o *Overlay) DeleteGlyphRect() (vector.Rect, bool) {
	p, ok := o.DeleteGlyph()
	if !ok {
		return vector.Rect{}, false
	}
	return vector.R(p.X, p.Y, DeleteGlyphSize, DeleteGlyphSize), true
}

// Handles returns the four corner anchors, ordered NW, NE, SW, SE.
func (o *Overlay) Handles() ([4]vector.Rect, bool) {
	b, ok := o.Box()
	if !ok || !o.visible {
		return [4]vector.Rect{}, false
	}
	const h = AnchorSize
	return [4]vector.Rect{
		vector.R(b.X-h/2, b.Y-h/2, h, h),
		vector.R(b.X+b.W-h/2, b.Y-h/2, h, h),
		vector.R(b.X-h/2, b.Y+b.H-h/2, h, h),
		vector.R(b.X+b.W-h/2, b.Y+b.H-h/2, h, h),
	}, true
}
