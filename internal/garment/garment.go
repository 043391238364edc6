/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package garment resolves a garment colour keyword to the backdrop silhouette
// drawn behind the design canvas.
package garment

import (
	"path"
	"path/filepath"
	"strings"
)

// Color identifies one of the available garment colours.
type Color string

const (
	Black    Color = "black"
	Navy     Color = "navy"
	Maroon   Color = "maroon"
	DarkGrey Color = "darkgrey"
	White    Color = "white"
)

// Default is used for empty or unknown keywords.
const Default = White

var silhouettes = map[Color]string{
	Black:    "/tshirts/black.png",
	Navy:     "/tshirts/navy.png",
	Maroon:   "/tshirts/maroon.png",
	DarkGrey: "/tshirts/darkgrey.png",
	White:    "/tshirts/white.png",
}

// All lists the colours in picker order.
func All() []Color { return []Color{Black, Navy, Maroon, DarkGrey, White} }

// Parse normalizes a keyword; ok is false when it fell back to Default.
func Parse(keyword string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(keyword)))
	if _, ok := silhouettes[c]; ok {
		return c, true
	}
	return Default, false
}

// Backdrop is the resolved, immutable backdrop for a garment colour.
type Backdrop struct {
	Color Color
	// Path is the asset path as served, e.g. /tshirts/navy.png.
	Path string
}

// Resolve maps any keyword to a backdrop, falling back to white.
func Resolve(keyword string) Backdrop {
	c, _ := Parse(keyword)
	return Backdrop{Color: c, Path: silhouettes[c]}
}

// File returns the backdrop location on disk below assetsDir.
func (b Backdrop) File(assetsDir string) string {
	return filepath.Join(assetsDir, filepath.FromSlash(strings.TrimPrefix(path.Clean(b.Path), "/")))
}
