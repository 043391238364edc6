/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imageio is the upload boundary: it turns a user-chosen file into a
// decoded, drawable bitmap. Callers only ever see image.Image.
package imageio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	// extra formats beyond the stdlib registrations pulled in by imaging
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	applog "mytshirt/internal/log"
)

var (
	// ErrNoFile means the user cancelled the picker; callers treat it as a no-op.
	ErrNoFile = errors.New("no file selected")
	// ErrTooLarge is returned when the upload exceeds Decoder.MaxBytes.
	ErrTooLarge = errors.New("upload exceeds size limit")
)

// Decoder decodes uploads. The zero value decodes anything with orientation
// correction disabled and no size caps.
type Decoder struct {
	// MaxBytes caps the raw file size (0 = unlimited).
	MaxBytes int64
	// MaxDimension downsizes bitmaps whose longer side exceeds it (0 = keep).
	MaxDimension int
	// AutoOrient applies the EXIF orientation tag of JPEG uploads.
	AutoOrient bool
}

// DecodeFile opens and decodes path. An empty path yields ErrNoFile.
func (d Decoder) DecodeFile(ctx context.Context, path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()
	return d.Decode(ctx, f)
}

// Decode reads r fully and decodes it.
func (d Decoder) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	l := applog.WithOperation(applog.WithComponent("imageio"), "decode")
	src := r
	if d.MaxBytes > 0 {
		src = io.LimitReader(r, d.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if d.MaxBytes > 0 && int64(len(data)) > d.MaxBytes {
		return nil, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(d.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	b := img.Bounds()
	l.Debug("decoded", slog.Int("w", b.Dx()), slog.Int("h", b.Dy()), slog.Int("bytes", len(data)))
	if d.MaxDimension > 0 && (b.Dx() > d.MaxDimension || b.Dy() > d.MaxDimension) {
		img = imaging.Fit(img, d.MaxDimension, d.MaxDimension, imaging.Lanczos)
		l.Debug("downscaled", slog.Int("w", img.Bounds().Dx()), slog.Int("h", img.Bounds().Dy()))
	}
	return img, nil
}
