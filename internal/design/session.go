/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package design is the editing core of the T-shirt designer: the item store,
// selection, the control overlay and the dispatcher that routes pointer and
// toolbar events through them. It has no UI dependency; front ends feed it
// canvas coordinates and render from Snapshot or the accessors.
package design

import (
	"context"
	"image"
	"io"
	"log/slog"

	"mytshirt/internal/garment"
	applog "mytshirt/internal/log"
	"mytshirt/internal/textlayout"
	"mytshirt/internal/vector"
)

// Decoder turns an upload stream into a bitmap. imageio.Decoder satisfies it.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (image.Image, error)
}

// Poster runs fn on the dispatch goroutine. Fyne hosts pass fyne.Do.
type Poster func(fn func())

type Options struct {
	DefaultText   string
	FontSize      float32
	Fonts         textlayout.Provider
	FontFamily    string
	NewID         func() TextID
	KeepRatio     bool
	Snap          bool
	SnapThreshold float32
	Garment       string
	Logger        *slog.Logger
	// OnChange receives one snapshot per event that changed the design.
	OnChange func(Snapshot)
}

// Session holds one editing session. It is not safe for concurrent use; all
// calls must come from the dispatch goroutine.
type Session struct {
	store    *Store
	sel      Selection
	overlay  Overlay
	geom     Geometry
	backdrop garment.Backdrop

	keepRatio bool
	snap      bool
	snapOpts  vector.SnapOptions
	guides    []vector.GuideLine

	drag   *dragState
	resize *resizeGesture

	uploadSeq uint64
	log       *slog.Logger
	onChange  func(Snapshot)
}

type dragState struct {
	ref    HitTarget
	offset vector.Pt
}

func NewSession(opts Options) *Session {
	s := &Session{
		store: NewStore(StoreOptions{
			DefaultText: opts.DefaultText,
			FontSize:    opts.FontSize,
			Fonts:       opts.Fonts,
			FontFamily:  opts.FontFamily,
			NewID:       opts.NewID,
		}),
		backdrop:  garment.Resolve(opts.Garment),
		keepRatio: opts.KeepRatio,
		snap:      opts.Snap,
		snapOpts:  vector.SnapOptions{Threshold: opts.SnapThreshold, SnapToEdges: true, SnapToCenters: true},
		log:       opts.Logger,
		onChange:  opts.OnChange,
	}
	if s.log == nil {
		s.log = applog.WithComponent("design")
	}
	return s
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) Selection() *Selection { return &s.sel }

func (s *Session) Overlay() *Overlay { return &s.overlay }

func (s *Session) Garment() garment.Backdrop { return s.backdrop }

// Guides are the alignment lines produced by the last snapped drag step.
func (s *Session) Guides() []vector.GuideLine { return s.guides }

// SetGarment switches the backdrop colour. Unknown keywords fall back to white.
func (s *Session) SetGarment(keyword string) {
	b := garment.Resolve(keyword)
	if b == s.backdrop {
		return
	}
	s.backdrop = b
	s.changed("garment")
}

// Background handles a pointer-down on empty canvas.
func (s *Session) Background() {
	if s.sel.State() == Idle && !s.overlay.Visible() {
		return
	}
	s.clearSelection()
	s.changed("background")
}

// Select handles a click on t. Items become the selection, the background
// clears it and the delete glyph deletes the selected item.
func (s *Session) Select(t HitTarget) {
	switch t.Kind {
	case TargetBackground:
		s.Background()
	case TargetDeleteGlyph:
		s.Delete()
	case TargetImage, TargetText:
		n := s.store.Node(t)
		if n == nil {
			s.log.Debug("click on missing item ignored", slog.String("target", t.String()))
			return
		}
		s.sel.Select(t)
		s.overlay.Bind(n)
		s.changed("select")
	}
}

// Tap hit-tests p and dispatches the result as a click.
func (s *Session) Tap(p vector.Pt) HitTarget {
	t := s.HitTest(p)
	s.Select(t)
	return t
}

// DragMove moves t so its top-left lands on (x, y). The selection is left
// alone; the overlay follows whatever it is bound to.
func (s *Session) DragMove(t HitTarget, x, y float32) bool {
	n := s.store.Node(t)
	if n == nil {
		return false
	}
	s.guides = nil
	if s.snap {
		box, _ := s.geom.BoundingBox(n)
		want := box.Offset(x-n.X, y-n.Y)
		got, guides := vector.Snap(want, []vector.Rect{PrintGuide, CanvasRect}, s.snapOpts)
		x += got.X - want.X
		y += got.Y - want.Y
		s.guides = guides
	}
	s.store.UpdatePosition(t, x, y)
	s.overlay.Refresh()
	s.changed("drag")
	return true
}

// Transform applies a live, uncommitted transform to t.
func (s *Session) Transform(t HitTarget, tr Transform) bool {
	if !s.store.ApplyTransform(t, tr) {
		return false
	}
	s.overlay.Refresh()
	s.changed("transform")
	return true
}

// TransformEnd folds the pending scale of t into its dimensions.
func (s *Session) TransformEnd(t HitTarget) bool {
	if !s.store.CommitTransform(t) {
		return false
	}
	s.overlay.Refresh()
	s.changed("transform-end")
	return true
}

// CompleteUpload installs px as the image in one transition: the selection
// is cleared and the overlay hidden before the swap.
func (s *Session) CompleteUpload(px image.Image) {
	if px == nil {
		return
	}
	s.clearSelection()
	s.store.SetImage(px)
	s.changed("upload")
}

// Upload decodes r and applies the result through post. A nil post decodes
// synchronously. When uploads overlap the last one to finish wins. Decode
// failures are logged and leave the design untouched. If r is an io.Closer it
// is closed once decoding returns, whether or not it was read to the end.
func (s *Session) Upload(ctx context.Context, dec Decoder, r io.Reader, post Poster) {
	if r == nil {
		return
	}
	decode := func() (image.Image, error) {
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}
		return dec.Decode(ctx, r)
	}
	if dec == nil {
		if c, ok := r.(io.Closer); ok {
			_ = c.Close()
		}
		return
	}
	s.uploadSeq++
	seq := s.uploadSeq
	lg := applog.WithOperation(s.log, "upload").With(slog.Uint64("seq", seq))

	finish := func(px image.Image, err error) {
		if err != nil {
			lg.Warn("image decode failed", slog.Any("err", err))
			return
		}
		if seq != s.uploadSeq {
			lg.Debug("superseded upload completed late", slog.Uint64("latest", s.uploadSeq))
		}
		s.CompleteUpload(px)
	}
	if post == nil {
		finish(decode())
		return
	}
	go func() {
		px, err := decode()
		post(func() { finish(px, err) })
	}()
}

// AddText appends a default label, selects it and shows the overlay on it.
func (s *Session) AddText() TextID {
	id := s.store.AddText("")
	ref := TextRef(id)
	s.sel.Select(ref)
	s.overlay.Bind(s.store.Node(ref))
	s.changed("add-text")
	return id
}

// SetText replaces a label's content and re-measures it.
func (s *Session) SetText(id TextID, text string) bool {
	if !s.store.SetText(id, text) {
		return false
	}
	s.overlay.Refresh()
	s.changed("set-text")
	return true
}

// Delete removes the selected item. With nothing selected it does nothing.
func (s *Session) Delete() {
	cur := s.sel.Current()
	switch cur.Kind {
	case TargetImage:
		s.store.RemoveImage()
	case TargetText:
		s.store.RemoveText(cur.ID)
	default:
		return
	}
	s.clearSelection()
	s.changed("delete")
}

// BeginDrag starts a pointer drag at p. A corner handle starts a resize of
// the selected item, an item starts a move and anything else is ignored.
func (s *Session) BeginDrag(p vector.Pt) HitTarget {
	s.drag, s.resize = nil, nil
	t := s.HitTest(p)
	switch t.Kind {
	case TargetHandle:
		ref := s.sel.Current()
		n := s.store.Node(ref)
		box, ok := s.overlay.Box()
		if n != nil && ok {
			s.resize = beginResize(ref, n, box, t.Corner, s.keepRatio)
		}
	case TargetImage, TargetText:
		n := s.store.Node(t)
		s.drag = &dragState{ref: t, offset: vector.Pt{X: p.X - n.X, Y: p.Y - n.Y}}
	}
	return t
}

// DragTo continues the gesture started by BeginDrag.
func (s *Session) DragTo(p vector.Pt) {
	switch {
	case s.resize != nil:
		if tr, ok := s.resize.at(p); ok {
			s.Transform(s.resize.ref, tr)
		}
	case s.drag != nil:
		s.DragMove(s.drag.ref, p.X-s.drag.offset.X, p.Y-s.drag.offset.Y)
	}
}

// EndDrag finishes the current gesture; a resize is committed.
func (s *Session) EndDrag() {
	if s.resize != nil {
		s.TransformEnd(s.resize.ref)
	}
	s.drag, s.resize = nil, nil
	s.guides = nil
}

func (s *Session) clearSelection() {
	s.sel.Clear()
	s.overlay.Hide()
	s.drag, s.resize = nil, nil
}

func (s *Session) changed(op string) {
	s.log.Debug("design changed", slog.String("op", op))
	if s.onChange != nil {
		s.onChange(s.Snapshot())
	}
}
