/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures single-style text labels so text items get a
// deterministic bounding box without a rendering backend.
package textlayout

import (
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name, empty means the default face
	SizePx float32
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float32
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// LineHeight is the line box multiplier; labels render with lineHeight 1.
const LineHeight = 1.0

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// Glyphs advance 7px whatever the requested size.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, metricsOf(f)
}

// GoFontProvider resolves every spec to Go Regular at the requested size.
// Faces are cached per size; opening one parses glyph tables.
type GoFontProvider struct {
	once  sync.Once
	font  *opentype.Font
	err   error
	mu    sync.Mutex
	faces map[float32]font.Face
}

func (p *GoFontProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	p.once.Do(func() { p.font, p.err = opentype.Parse(goregular.TTF) })
	if p.err != nil {
		return BasicProvider{}.Resolve(spec)
	}
	size := spec.SizePx
	if size <= 0 {
		size = 12
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.faces[size]; ok {
		return f, metricsOf(f)
	}
	// 72 DPI keeps points equal to pixels
	face, err := opentype.NewFace(p.font, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return BasicProvider{}.Resolve(spec)
	}
	if p.faces == nil {
		p.faces = make(map[float32]font.Face)
	}
	p.faces[size] = face
	return face, metricsOf(face)
}

func metricsOf(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float32(m.Ascent.Round()),
		Descent: float32(m.Descent.Round()),
		LineGap: float32(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

func advance(d *font.Drawer, s string) float32 {
	return fixedToFloat(d.MeasureString(s))
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }

// Measure returns the label box for text at the given font: the widest line's
// advance, and one line box of SizePx*LineHeight per line. Empty text still
// occupies one line so the item stays clickable.
func Measure(provider Provider, text string, spec FontSpec) (w, h float32) {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, _ := provider.Resolve(spec)
	d := &font.Drawer{Face: face}
	lines := strings.Split(text, "\n")
	for _, ln := range lines {
		w = max(w, advance(d, ln))
	}
	size := spec.SizePx
	if size <= 0 {
		m := metricsOf(face)
		size = m.Ascent + m.Descent
	}
	return w, float32(len(lines)) * size * LineHeight
}
