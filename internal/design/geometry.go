/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import "mytshirt/internal/vector"

// Canvas layout in logical pixels.
const (
	CanvasWidth  = 360
	CanvasHeight = 420
)

var (
	// CanvasRect is the stage area; anything outside it is background.
	CanvasRect = vector.R(0, 0, CanvasWidth, CanvasHeight)
	// PrintGuide is the dashed placement hint. It is drawn but never hit.
	PrintGuide = vector.R(118, 134, 120, 185)
	// DefaultImageRect is where every fresh upload lands.
	DefaultImageRect = vector.R(140, 160, 80, 80)
	// DefaultTextPos is where "add text" places a new label.
	DefaultTextPos = vector.Pt{X: 140, Y: 200}
)

// Node is the live rendered state of one item: committed position and size
// plus the transient scale a resize gesture applies until it is committed.
// Width and Height are unscaled; the rendered size is Width*ScaleX.
type Node struct {
	X, Y           float32
	Width, Height  float32
	ScaleX, ScaleY float32
	// Rotation in radians. The overlay has rotation disabled, so it stays 0
	// unless a host sets it.
	Rotation float32
}

func newNode(r vector.Rect) Node {
	return Node{X: r.X, Y: r.Y, Width: r.W, Height: r.H, ScaleX: 1, ScaleY: 1}
}

// Transform maps node-local coordinates to canvas coordinates
// (translate, then rotate, then scale).
func (n *Node) Transform() vector.Affine2D {
	xf := vector.Translate(n.X, n.Y)
	if n.Rotation != 0 {
		xf = xf.Mul(vector.Rotate(n.Rotation))
	}
	return xf.Mul(vector.Scale(orOne(n.ScaleX), orOne(n.ScaleY)))
}

// Local is the node's unscaled content rectangle in its own space.
func (n *Node) Local() vector.Rect { return vector.R(0, 0, n.Width, n.Height) }

// Hit reports whether canvas point p lies on the node.
func (n *Node) Hit(p vector.Pt) bool {
	q := n.Transform().Invert().Apply(p)
	return n.Local().Contains(q)
}

// orOne treats an unset (zero) scale as identity so a zero Node is usable.
func orOne(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}

// Geometry computes axis-aligned client boxes for nodes and remembers the
// last one it produced.
type Geometry struct {
	last vector.Rect
	has  bool
}

// BoundingBox returns n's box in canvas pixels. For a nil node (the item went
// away between an event and its recompute) it returns the last known box;
// ok is false only if no box was ever computed.
func (g *Geometry) BoundingBox(n *Node) (box vector.Rect, ok bool) {
	if n == nil {
		return g.last, g.has
	}
	g.last = vector.TransformedBounds(n.Transform(), n.Local())
	g.has = true
	return g.last, true
}
