/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import (
	"image"

	"github.com/google/uuid"

	"mytshirt/internal/textlayout"
	"mytshirt/internal/vector"
)

// TextID identifies a text item for the lifetime of the session. IDs are
// never reused, even after the item is deleted.
type TextID string

// ImageItem is the single uploaded picture.
type ImageItem struct {
	Pixels image.Image
	Node
}

// TextItem is one label. Its Width and Height follow from measuring Text at
// FontSize; resizing changes FontSize.
type TextItem struct {
	ID       TextID
	Text     string
	FontSize float32
	Node
}

// Store owns the placeable items: at most one image and an ordered list of
// text items (creation order, later items drawn on top). Text items live in
// a slice; index maps an ID to its slot so lookups never walk a scene.
type Store struct {
	image *ImageItem
	texts []*TextItem
	index map[TextID]int
	// issued holds every ID ever handed out, deleted ones included.
	issued map[TextID]struct{}

	fonts       textlayout.Provider
	family      string
	fontSize    float32
	defaultText string
	newID       func() TextID
}

// StoreOptions configures a Store. Zero values fall back to the defaults.
type StoreOptions struct {
	DefaultText string
	FontSize    float32
	Fonts       textlayout.Provider
	FontFamily  string
	NewID       func() TextID
}

func NewStore(opts StoreOptions) *Store {
	s := &Store{
		index:       make(map[TextID]int),
		issued:      make(map[TextID]struct{}),
		fonts:       opts.Fonts,
		family:      opts.FontFamily,
		fontSize:    opts.FontSize,
		defaultText: opts.DefaultText,
		newID:       opts.NewID,
	}
	if s.fonts == nil {
		s.fonts = &textlayout.GoFontProvider{}
	}
	if s.fontSize <= 0 {
		s.fontSize = 24
	}
	if s.defaultText == "" {
		s.defaultText = "Your Text"
	}
	if s.newID == nil {
		s.newID = func() TextID { return TextID(uuid.NewString()) }
	}
	return s
}

// SetImage replaces any existing image with a new one at the default placement.
// Nothing of the previous image's geometry carries over.
func (s *Store) SetImage(px image.Image) *ImageItem {
	s.image = &ImageItem{Pixels: px, Node: newNode(DefaultImageRect)}
	return s.image
}

// RemoveImage deletes the image; false if there was none.
func (s *Store) RemoveImage() bool {
	if s.image == nil {
		return false
	}
	s.image = nil
	return true
}

// Image returns the image item or nil.
func (s *Store) Image() *ImageItem { return s.image }

// AddText appends a label at the default position and returns its new ID.
// An empty text uses the configured default.
func (s *Store) AddText(text string) TextID {
	if text == "" {
		text = s.defaultText
	}
	id := s.newID()
	for _, taken := s.issued[id]; taken; _, taken = s.issued[id] {
		id = s.newID()
	}
	s.issued[id] = struct{}{}
	it := &TextItem{ID: id, Text: text, FontSize: s.fontSize, Node: newNode(vector.Rect{X: DefaultTextPos.X, Y: DefaultTextPos.Y})}
	s.measure(it)
	s.index[id] = len(s.texts)
	s.texts = append(s.texts, it)
	return id
}

// RemoveText deletes the label with id; false if it does not exist.
func (s *Store) RemoveText(id TextID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.texts = append(s.texts[:i], s.texts[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.texts); j++ {
		s.index[s.texts[j].ID] = j
	}
	return true
}

// Text returns the label with id or nil.
func (s *Store) Text(id TextID) *TextItem {
	if i, ok := s.index[id]; ok {
		return s.texts[i]
	}
	return nil
}

// Texts returns the labels in draw order. The slice is a copy; the items are live.
func (s *Store) Texts() []*TextItem { return append([]*TextItem(nil), s.texts...) }

// SetText replaces a label's content and re-measures it.
func (s *Store) SetText(id TextID, text string) bool {
	it := s.Text(id)
	if it == nil {
		return false
	}
	it.Text = text
	s.measure(it)
	return true
}

// Node resolves an item reference to its live node; nil for the background,
// overlay targets and items that no longer exist.
func (s *Store) Node(ref HitTarget) *Node {
	switch ref.Kind {
	case TargetImage:
		if s.image != nil {
			return &s.image.Node
		}
	case TargetText:
		if it := s.Text(ref.ID); it != nil {
			return &it.Node
		}
	}
	return nil
}

// UpdatePosition moves an item. Called on every drag frame, so it only writes.
func (s *Store) UpdatePosition(ref HitTarget, x, y float32) bool {
	n := s.Node(ref)
	if n == nil {
		return false
	}
	n.X, n.Y = x, y
	return true
}

// Transform is the live geometry a resize gesture puts on a node.
type Transform struct {
	X, Y           float32
	ScaleX, ScaleY float32
}

// ApplyTransform sets the transient position and scale of an item. Labels
// only scale uniformly, by ScaleY, since a commit can only grow their font.
func (s *Store) ApplyTransform(ref HitTarget, tr Transform) bool {
	n := s.Node(ref)
	if n == nil {
		return false
	}
	n.X, n.Y = tr.X, tr.Y
	n.ScaleX, n.ScaleY = tr.ScaleX, tr.ScaleY
	if ref.Kind == TargetText {
		n.ScaleX = tr.ScaleY
	}
	return true
}

// CommitTransform folds the node's scale into explicit dimensions and resets
// scale to 1, so consecutive resizes never compound. Images get new
// Width/Height; labels get a new FontSize and are re-measured.
func (s *Store) CommitTransform(ref HitTarget) bool {
	n := s.Node(ref)
	if n == nil {
		return false
	}
	sx, sy := abs32(orOne(n.ScaleX)), abs32(orOne(n.ScaleY))
	switch ref.Kind {
	case TargetImage:
		n.Width = vector.FloatRound(n.Width*sx, 3)
		n.Height = vector.FloatRound(n.Height*sy, 3)
		n.ScaleX, n.ScaleY = 1, 1
	case TargetText:
		it := s.Text(ref.ID)
		it.FontSize = vector.FloatRound(it.FontSize*sy, 3)
		n.ScaleX, n.ScaleY = 1, 1
		s.measure(it)
	}
	return true
}

// Len is the number of items held.
func (s *Store) Len() int {
	n := len(s.texts)
	if s.image != nil {
		n++
	}
	return n
}

func (s *Store) measure(it *TextItem) {
	w, h := textlayout.Measure(s.fonts, it.Text, textlayout.FontSpec{Family: s.family, SizePx: it.FontSize})
	it.Width, it.Height = w, h
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
