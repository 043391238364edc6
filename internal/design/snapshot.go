/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import "mytshirt/internal/vector"

// Snapshot is a plain copy of the editor state for renderers, change
// listeners and the replay report.
type Snapshot struct {
	Garment   string      `yaml:"garment"`
	Backdrop  string      `yaml:"backdrop"`
	Selection string      `yaml:"selection"`
	Selected  TextID      `yaml:"selected_text,omitempty"`
	Overlay   bool        `yaml:"overlay"`
	Box       *Box        `yaml:"box,omitempty"`
	Image     *ImageState `yaml:"image,omitempty"`
	Texts     []TextState `yaml:"texts,omitempty"`
}

type Box struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	W float32 `yaml:"width"`
	H float32 `yaml:"height"`
}

func boxOf(r vector.Rect) Box {
	return Box{X: vector.FloatRound(r.X, 3), Y: vector.FloatRound(r.Y, 3), W: vector.FloatRound(r.W, 3), H: vector.FloatRound(r.H, 3)}
}

type ImageState struct {
	Box          Box `yaml:",inline"`
	PixelsWidth  int `yaml:"pixels_width"`
	PixelsHeight int `yaml:"pixels_height"`
}

type TextState struct {
	ID       TextID  `yaml:"id"`
	Text     string  `yaml:"text"`
	FontSize float32 `yaml:"font_size"`
	Box      Box     `yaml:",inline"`
}

// Snapshot copies the current state. Item boxes and label font sizes are the
// on-canvas values, so a pending scale is included.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Garment:   string(s.backdrop.Color),
		Backdrop:  s.backdrop.Path,
		Selection: s.sel.State().String(),
		Selected:  s.sel.TextID(),
		Overlay:   s.overlay.Visible(),
	}
	if b, ok := s.overlay.Box(); ok {
		bx := boxOf(b)
		snap.Box = &bx
	}
	var g Geometry
	if img := s.store.Image(); img != nil {
		b, _ := g.BoundingBox(&img.Node)
		is := &ImageState{Box: boxOf(b)}
		if img.Pixels != nil {
			is.PixelsWidth, is.PixelsHeight = img.Pixels.Bounds().Dx(), img.Pixels.Bounds().Dy()
		}
		snap.Image = is
	}
	for _, t := range s.store.Texts() {
		b, _ := g.BoundingBox(&t.Node)
		fs := vector.FloatRound(t.FontSize*abs32(orOne(t.ScaleY)), 3)
		snap.Texts = append(snap.Texts, TextState{ID: t.ID, Text: t.Text, FontSize: fs, Box: boxOf(b)})
	}
	return snap
}
