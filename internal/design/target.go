/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import "mytshirt/internal/vector"

// TargetKind classifies what a pointer landed on.
type TargetKind uint8

const (
	TargetBackground TargetKind = iota
	TargetImage
	TargetText
	TargetDeleteGlyph
	TargetHandle
)

func (k TargetKind) String() string {
	switch k {
	case TargetImage:
		return "image"
	case TargetText:
		return "text"
	case TargetDeleteGlyph:
		return "delete"
	case TargetHandle:
		return "handle"
	default:
		return "background"
	}
}

// Corner names a resize handle.
type Corner uint8

const (
	CornerNW Corner = iota
	CornerNE
	CornerSW
	CornerSE
)

// HitTarget is the explicit result of a hit test. It doubles as the item
// reference the store and selection work with.
type HitTarget struct {
	Kind   TargetKind
	ID     TextID // set for TargetText
	Corner Corner // set for TargetHandle
}

var (
	Background = HitTarget{Kind: TargetBackground}
	ImageRef   = HitTarget{Kind: TargetImage}
)

// TextRef refers to the label with id.
func TextRef(id TextID) HitTarget { return HitTarget{Kind: TargetText, ID: id} }

// IsItem reports whether t names an image or text item.
func (t HitTarget) IsItem() bool { return t.Kind == TargetImage || t.Kind == TargetText }

func (t HitTarget) String() string {
	switch t.Kind {
	case TargetText:
		return "text:" + string(t.ID)
	case TargetHandle:
		return [...]string{"handle:nw", "handle:ne", "handle:sw", "handle:se"}[t.Corner&3]
	default:
		return t.Kind.String()
	}
}

// HitTest resolves a canvas point. Overlay affordances win over items, items
// are tested top-most first (labels above the image), and the print guide
// never receives hits. The glyph and handles stay clickable where they poke
// out past the canvas edge.
func (s *Session) HitTest(p vector.Pt) HitTarget {
	if s.overlay.Visible() {
		if r, ok := s.overlay.DeleteGlyphRect(); ok && r.Contains(p) {
			return HitTarget{Kind: TargetDeleteGlyph}
		}
		if hs, ok := s.overlay.Handles(); ok {
			for i, h := range hs {
				if h.Contains(p) {
					return HitTarget{Kind: TargetHandle, Corner: Corner(i)}
				}
			}
		}
	}
	if !CanvasRect.Contains(p) {
		return Background
	}
	texts := s.store.texts
	for i := len(texts) - 1; i >= 0; i-- {
		if texts[i].Hit(p) {
			return TextRef(texts[i].ID)
		}
	}
	if img := s.store.image; img != nil && img.Hit(p) {
		return ImageRef
	}
	return Background
}
