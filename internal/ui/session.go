/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/font/gofont/goregular"

	"mytshirt/internal/config"
	"mytshirt/internal/design"
	"mytshirt/internal/imageio"
	applog "mytshirt/internal/log"
	"mytshirt/internal/textlayout"
)

// LabelFamily is the family a configured label font is registered under.
const LabelFamily = "label"

// NewSession builds a design session from the user configuration. A font
// file that cannot be loaded is an error; without one Go Regular is used.
func NewSession(cfg config.AppConfig, onChange func(design.Snapshot)) (*design.Session, error) {
	f, err := LoadLabelFont(cfg.Editor.FontFile)
	if err != nil {
		return nil, err
	}
	return newSession(cfg, f, onChange)
}

func newSession(cfg config.AppConfig, f LabelFont, onChange func(design.Snapshot)) (*design.Session, error) {
	fonts, err := f.Provider()
	if err != nil {
		return nil, err
	}
	return design.NewSession(design.Options{
		DefaultText:   cfg.Editor.DefaultText,
		FontSize:      cfg.Editor.FontSize,
		Fonts:         fonts,
		FontFamily:    LabelFamily,
		KeepRatio:     cfg.Editor.KeepRatio,
		Snap:          cfg.Editor.Snap,
		SnapThreshold: cfg.Editor.SnapThreshold,
		Garment:       cfg.Garment.Default,
		Logger:        applog.WithComponent("design"),
		OnChange:      onChange,
	}), nil
}

// NewDecoder returns the upload decoder configured by cfg.
func NewDecoder(cfg config.AppConfig) imageio.Decoder {
	return imageio.Decoder{
		MaxBytes:     cfg.Upload.MaxBytes,
		MaxDimension: cfg.Upload.MaxDimension,
		AutoOrient:   cfg.Upload.AutoOrient,
	}
}

// LabelFont is the face labels are measured with. The renderer draws labels
// from the same bytes so their boxes match the drawn glyphs.
type LabelFont struct {
	Name string
	Data []byte
}

// LoadLabelFont reads the font file at path, or returns Go Regular when path
// is empty.
func LoadLabelFont(path string) (LabelFont, error) {
	if path == "" {
		return LabelFont{Name: "GoRegular.ttf", Data: goregular.TTF}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return LabelFont{}, fmt.Errorf("label font: %w", err)
	}
	applog.WithComponent("ui").Info("label font loaded", slog.String("path", path))
	return LabelFont{Name: filepath.Base(path), Data: data}, nil
}

// Provider returns a measuring provider for f under LabelFamily.
func (f LabelFont) Provider() (textlayout.Provider, error) {
	lib := textlayout.NewFontLibrary()
	if err := lib.Add(LabelFamily, 400, false, f.Data); err != nil {
		return nil, fmt.Errorf("label font: %w", err)
	}
	return textlayout.OTProvider{Lib: lib, Fallback: &textlayout.GoFontProvider{}}, nil
}
