/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"math"
	"testing"

	"mytshirt/internal/textlayout"
	"mytshirt/internal/vector"
)

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Fonts == nil {
		opts.Fonts = textlayout.BasicProvider{}
	}
	if opts.NewID == nil {
		opts.NewID = counterIDs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewSession(opts)
}

func mustBox(t *testing.T, s *Session) vector.Rect {
	t.Helper()
	b, ok := s.Overlay().Box()
	if !ok {
		t.Fatalf("expected a control box")
	}
	return b
}

func assertIdle(t *testing.T, s *Session) {
	t.Helper()
	if s.Selection().State() != Idle {
		t.Fatalf("expected idle, got %v", s.Selection().State())
	}
	if s.Overlay().Visible() {
		t.Fatalf("overlay should be hidden")
	}
	if _, ok := s.Overlay().Box(); ok {
		t.Fatalf("control box should be cleared")
	}
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-3 }

type stubDecoder struct {
	img image.Image
	err error
}

func (d stubDecoder) Decode(context.Context, io.Reader) (image.Image, error) { return d.img, d.err }

func TestSession_BackgroundClearsAnySelection(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	id := s.AddText()
	for _, target := range []HitTarget{ImageRef, TextRef(id)} {
		s.Select(target)
		if !s.Selection().Is(target) || !s.Overlay().Visible() {
			t.Fatalf("%v should be selected with overlay", target)
		}
		s.Background()
		assertIdle(t, s)
	}
}

func TestSession_AddTextSelectsAndBoxesImmediately(t *testing.T) {
	s := newTestSession(t, Options{})
	id := s.AddText()
	if s.Selection().State() != TextSelected || s.Selection().TextID() != id {
		t.Fatalf("new text should be selected")
	}
	if b := mustBox(t, s); b != vector.R(140, 200, 63, 24) {
		t.Fatalf("unexpected box %+v", b)
	}
}

func TestSession_TextReselectScenario(t *testing.T) {
	s := newTestSession(t, Options{})
	id := s.AddText()
	s.Tap(vector.Pt{X: 10, Y: 10})
	assertIdle(t, s)

	got := s.Tap(vector.Pt{X: 150, Y: 210})
	if got != TextRef(id) {
		t.Fatalf("expected to hit the text, got %v", got)
	}
	var g Geometry
	want, _ := g.BoundingBox(s.Store().Node(TextRef(id)))
	if !s.Overlay().Visible() || mustBox(t, s) != want {
		t.Fatalf("overlay box should match the text node")
	}
	if s.Overlay().Bound() != s.Store().Node(TextRef(id)) {
		t.Fatalf("overlay should be bound to the item's own node")
	}
}

func TestSession_DragShiftsItemAndBoxByDelta(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.Select(ImageRef)
	deltas := []vector.Pt{{X: 5, Y: -3}, {X: -40.5, Y: 12.25}, {X: 0, Y: 0}, {X: 100, Y: 100}}
	for _, d := range deltas {
		n := s.Store().Node(ImageRef)
		before := mustBox(t, s)
		x, y := n.X, n.Y
		s.DragMove(ImageRef, x+d.X, y+d.Y)
		if n.X != x+d.X || n.Y != y+d.Y {
			t.Fatalf("stored position off: got (%v,%v)", n.X, n.Y)
		}
		after := mustBox(t, s)
		if after.X-before.X != d.X || after.Y-before.Y != d.Y || after.W != before.W {
			t.Fatalf("box did not follow drag by %+v: %+v -> %+v", d, before, after)
		}
	}
}

func TestSession_DragUnselectedKeepsSelection(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	id := s.AddText()
	before := mustBox(t, s)
	s.DragMove(ImageRef, 0, 0)
	if !s.Selection().Is(TextRef(id)) || mustBox(t, s) != before {
		t.Fatalf("dragging another item must not change the selection or its box")
	}
}

func TestSession_ResizeCommitScenario(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.Select(ImageRef)
	s.Transform(ImageRef, Transform{X: 140, Y: 160, ScaleX: 2, ScaleY: 2})
	s.TransformEnd(ImageRef)
	n := s.Store().Node(ImageRef)
	if n.Width != 160 || n.Height != 160 || n.ScaleX != 1 || n.ScaleY != 1 {
		t.Fatalf("expected normalized 160x160, got %+v", *n)
	}
	if b := mustBox(t, s); b.W != 160 || b.H != 160 {
		t.Fatalf("box not recomputed after commit: %+v", b)
	}
	// second gesture starts from committed size
	s.Transform(ImageRef, Transform{X: 140, Y: 160, ScaleX: 1.5, ScaleY: 1.5})
	s.TransformEnd(ImageRef)
	if n.Width != 240 || n.Height != 240 {
		t.Fatalf("scale compounded: %vx%v", n.Width, n.Height)
	}
}

func TestSession_UploadReplacesAndGoesIdle(t *testing.T) {
	s := newTestSession(t, Options{})
	a := image.NewRGBA(image.Rect(0, 0, 4, 4))
	b := image.NewRGBA(image.Rect(0, 0, 8, 8))
	s.CompleteUpload(a)
	s.Select(ImageRef)
	s.DragMove(ImageRef, 10, 20)
	s.Transform(ImageRef, Transform{X: 10, Y: 20, ScaleX: 3, ScaleY: 3})
	s.TransformEnd(ImageRef)

	var snaps []Snapshot
	s.onChange = func(sn Snapshot) { snaps = append(snaps, sn) }
	s.Upload(context.Background(), stubDecoder{img: b}, bytes.NewReader(nil), nil)

	assertIdle(t, s)
	img := s.Store().Image()
	if img.Pixels != b || img.X != 140 || img.Y != 160 || img.Width != 80 || img.Height != 80 {
		t.Fatalf("expected B at default placement, got %+v", img.Node)
	}
	if len(snaps) != 1 || snaps[0].Selection != "idle" || snaps[0].Image == nil || snaps[0].Image.PixelsWidth != 8 {
		t.Fatalf("expected one idle snapshot with the new image, got %+v", snaps)
	}
}

func TestSession_UploadFailureLeavesStateAlone(t *testing.T) {
	s := newTestSession(t, Options{})
	a := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s.CompleteUpload(a)
	s.Select(ImageRef)
	changed := 0
	s.onChange = func(Snapshot) { changed++ }

	s.Upload(context.Background(), stubDecoder{err: errors.New("bad png")}, bytes.NewReader([]byte("x")), nil)
	s.Upload(context.Background(), stubDecoder{img: a}, nil, nil)

	if changed != 0 || s.Store().Image().Pixels != a || !s.Selection().Is(ImageRef) {
		t.Fatalf("failed or empty upload must not change the design")
	}
}

func TestSession_UploadAsyncPostsCompletion(t *testing.T) {
	s := newTestSession(t, Options{})
	s.AddText()
	queue := make(chan func(), 1)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	s.Upload(context.Background(), stubDecoder{img: img}, bytes.NewReader(nil), func(fn func()) { queue <- fn })

	if s.Store().Image() != nil {
		t.Fatalf("image must not appear before the posted completion runs")
	}
	(<-queue)()
	if s.Store().Image() == nil || s.Store().Image().Pixels != img {
		t.Fatalf("completion not applied")
	}
	assertIdle(t, s)
}

func TestSession_OverlappingUploadsLastCompletionWins(t *testing.T) {
	s := newTestSession(t, Options{})
	queue := make(chan func(), 2)
	post := func(fn func()) { queue <- fn }
	first := image.NewRGBA(image.Rect(0, 0, 1, 1))
	second := image.NewRGBA(image.Rect(0, 0, 2, 2))
	s.Upload(context.Background(), stubDecoder{img: first}, bytes.NewReader(nil), post)
	firstDone := <-queue
	s.Upload(context.Background(), stubDecoder{img: second}, bytes.NewReader(nil), post)
	secondDone := <-queue

	secondDone()
	firstDone()
	if s.Store().Image().Pixels != first {
		t.Fatalf("the completion applied last should win")
	}
}

type closeCounter struct {
	io.Reader
	closed int
}

func (c *closeCounter) Close() error { c.closed++; return nil }

func TestSession_UploadClosesReader(t *testing.T) {
	s := newTestSession(t, Options{})
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// the stub decoder never reads, like a size-limited decode that gives up early
	direct := &closeCounter{Reader: bytes.NewReader(make([]byte, 64))}
	s.Upload(context.Background(), stubDecoder{img: img}, direct, nil)
	if direct.closed != 1 {
		t.Fatalf("synchronous upload closed reader %d times", direct.closed)
	}

	queue := make(chan func(), 1)
	async := &closeCounter{Reader: bytes.NewReader(nil)}
	s.Upload(context.Background(), stubDecoder{err: errors.New("too large")}, async, func(fn func()) { queue <- fn })
	(<-queue)()
	if async.closed != 1 {
		t.Fatalf("failed async upload closed reader %d times", async.closed)
	}
}

func TestSession_DeleteTargetsSelection(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	a := s.AddText()
	b := s.AddText()

	s.Delete()
	if s.Store().Text(b) != nil || s.Store().Text(a) == nil || s.Store().Image() == nil {
		t.Fatalf("delete should remove only the selected text")
	}
	assertIdle(t, s)

	// nothing selected: no-op
	s.Delete()
	if s.Store().Len() != 2 {
		t.Fatalf("delete in idle must not remove anything")
	}

	s.Select(ImageRef)
	s.Delete()
	if s.Store().Image() != nil || s.Store().Text(a) == nil {
		t.Fatalf("delete should remove only the image")
	}
	assertIdle(t, s)
}

func TestSession_DeleteGlyphClick(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.Select(ImageRef)
	glyph, ok := s.Overlay().DeleteGlyph()
	if !ok || glyph != (vector.Pt{X: 214, Y: 142}) {
		t.Fatalf("unexpected glyph position %+v", glyph)
	}
	if got := s.Tap(vector.Pt{X: glyph.X + 4, Y: glyph.Y + 4}); got.Kind != TargetDeleteGlyph {
		t.Fatalf("expected glyph hit, got %v", got)
	}
	if s.Store().Image() != nil {
		t.Fatalf("glyph click should delete the image")
	}
	assertIdle(t, s)
}

func TestSession_HitTestOrder(t *testing.T) {
	s := newTestSession(t, Options{})
	if s.HitTest(vector.Pt{X: 150, Y: 170}) != Background {
		t.Fatalf("empty canvas should hit background")
	}
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if s.HitTest(vector.Pt{X: 150, Y: 170}) != ImageRef {
		t.Fatalf("expected image hit")
	}
	a := s.AddText()
	b := s.AddText()
	s.Background()
	// both labels and the image overlap here; the newest label is on top
	if got := s.HitTest(vector.Pt{X: 150, Y: 210}); got != TextRef(b) {
		t.Fatalf("expected top-most text %q, got %v", b, got)
	}
	s.DragMove(TextRef(b), 300, 400)
	if got := s.HitTest(vector.Pt{X: 150, Y: 210}); got != TextRef(a) {
		t.Fatalf("expected text %q, got %v", a, got)
	}
	// guide area outside any item
	if s.HitTest(vector.Pt{X: 120, Y: 300}) != Background {
		t.Fatalf("print guide must not receive hits")
	}
	if s.HitTest(vector.Pt{X: -5, Y: 10}) != Background {
		t.Fatalf("points outside the canvas are background")
	}
}

func TestSession_CornerResizeGesture(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.Select(ImageRef)
	// SE handle centred on (220, 240)
	if got := s.BeginDrag(vector.Pt{X: 220, Y: 240}); got.Kind != TargetHandle || got.Corner != CornerSE {
		t.Fatalf("expected SE handle, got %v", got)
	}
	s.DragTo(vector.Pt{X: 300, Y: 280})
	if b := mustBox(t, s); b != vector.R(140, 160, 160, 120) {
		t.Fatalf("unexpected live box %+v", b)
	}
	s.EndDrag()
	n := s.Store().Node(ImageRef)
	if n.Width != 160 || n.Height != 120 || n.ScaleX != 1 {
		t.Fatalf("resize not committed: %+v", *n)
	}

	// NW handle keeps the SE corner fixed
	s.BeginDrag(vector.Pt{X: 140, Y: 160})
	s.DragTo(vector.Pt{X: 500, Y: 500})
	b := mustBox(t, s)
	if !near(b.X, 299) || !near(b.Y, 279) || !near(b.W, 1) || !near(b.H, 1) {
		t.Fatalf("expected clamp to 1px at anchor, got %+v", b)
	}
	s.EndDrag()
}

func TestSession_KeepRatioResize(t *testing.T) {
	s := newTestSession(t, Options{KeepRatio: true})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.Select(ImageRef)
	s.BeginDrag(vector.Pt{X: 220, Y: 240})
	s.DragTo(vector.Pt{X: 300, Y: 250})
	s.EndDrag()
	n := s.Store().Node(ImageRef)
	if n.Width != 160 || n.Height != 160 {
		t.Fatalf("keep-ratio resize should stay square, got %vx%v", n.Width, n.Height)
	}
}

func TestSession_PointerDragMovesByOffset(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.BeginDrag(vector.Pt{X: 150, Y: 170})
	s.DragTo(vector.Pt{X: 160, Y: 165})
	s.EndDrag()
	n := s.Store().Node(ImageRef)
	if n.X != 150 || n.Y != 155 {
		t.Fatalf("unexpected position (%v,%v)", n.X, n.Y)
	}
	if s.Selection().State() != Idle {
		t.Fatalf("dragging must not select")
	}
}

func TestSession_SnapToPrintGuide(t *testing.T) {
	s := newTestSession(t, Options{Snap: true, SnapThreshold: 4})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.DragMove(ImageRef, 120, 100)
	n := s.Store().Node(ImageRef)
	if n.X != 118 {
		t.Fatalf("expected snap to guide edge 118, got %v", n.X)
	}
	if len(s.Guides()) == 0 {
		t.Fatalf("expected guide feedback")
	}
	s.EndDrag()
	if len(s.Guides()) != 0 {
		t.Fatalf("guides should clear when the drag ends")
	}
}

func TestSession_SetGarment(t *testing.T) {
	changes := 0
	s := newTestSession(t, Options{Garment: "navy", OnChange: func(Snapshot) { changes++ }})
	if s.Garment().Path != "/tshirts/navy.png" {
		t.Fatalf("unexpected backdrop %+v", s.Garment())
	}
	s.SetGarment("purple")
	if s.Snapshot().Garment != "white" || changes != 1 {
		t.Fatalf("unknown colour should fall back to white")
	}
	s.SetGarment("white")
	if changes != 1 {
		t.Fatalf("same garment should not notify")
	}
}

func TestSession_TextTransformLiveBoxMatchesCommit(t *testing.T) {
	s := newTestSession(t, Options{})
	id := s.AddText()
	ref := TextRef(id)
	s.Transform(ref, Transform{X: 140, Y: 200, ScaleX: 3, ScaleY: 1})
	live := mustBox(t, s)
	s.TransformEnd(ref)
	if got := mustBox(t, s); got != live {
		t.Fatalf("live box %+v changed on commit to %+v", live, got)
	}
}

func TestSession_TextCornerResizeKeepsRatio(t *testing.T) {
	s := newTestSession(t, Options{Fonts: &textlayout.GoFontProvider{}})
	id := s.AddText()
	hs, _ := s.Overlay().Handles()
	se := vector.Pt{X: hs[CornerSE].X + AnchorSize/2, Y: hs[CornerSE].Y + AnchorSize/2}
	if got := s.BeginDrag(se); got.Kind != TargetHandle || got.Corner != CornerSE {
		t.Fatalf("expected SE handle, got %v", got)
	}
	s.DragTo(vector.Pt{X: se.X + 80, Y: se.Y + 6})
	live := mustBox(t, s)
	if n := s.Store().Node(TextRef(id)); n.ScaleX != n.ScaleY {
		t.Fatalf("label stretched unevenly: %v x %v", n.ScaleX, n.ScaleY)
	}
	if fs := s.Snapshot().Texts[0].FontSize; fs <= 24 {
		t.Fatalf("snapshot should report the live font size, got %v", fs)
	}
	s.EndDrag()
	got := mustBox(t, s)
	within := func(a, b float32) bool { return math.Abs(float64(a-b)) < 0.5 }
	if !within(got.X, live.X) || !within(got.Y, live.Y) || !within(got.W, live.W) || !within(got.H, live.H) {
		t.Fatalf("committed box %+v drifted from live box %+v", got, live)
	}
}

func TestSession_DeleteGlyphPastTopEdge(t *testing.T) {
	s := newTestSession(t, Options{})
	s.CompleteUpload(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	s.Select(ImageRef)
	s.DragMove(ImageRef, 140, 2)
	glyph, _ := s.Overlay().DeleteGlyph()
	if glyph.Y >= 0 {
		t.Fatalf("expected glyph above the canvas, got %+v", glyph)
	}
	if got := s.Tap(vector.Pt{X: glyph.X + 8, Y: glyph.Y + 8}); got.Kind != TargetDeleteGlyph {
		t.Fatalf("expected glyph hit, got %v", got)
	}
	if s.Store().Image() != nil {
		t.Fatalf("glyph click should delete the image")
	}
	assertIdle(t, s)
}
