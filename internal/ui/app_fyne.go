//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"image/color"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"mytshirt/internal/config"
	"mytshirt/internal/crash"
	"mytshirt/internal/design"
	"mytshirt/internal/garment"
	applog "mytshirt/internal/log"
	"mytshirt/internal/vector"
)

// Run opens the designer window and blocks until it is closed.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	font, err := LoadLabelFont(cfg.Editor.FontFile)
	if err != nil {
		return err
	}
	dc := NewDesignCanvas(cfg.Garment.AssetsDir)
	dc.font = fyne.NewStaticResource(font.Name, font.Data)
	sess, err := newSession(cfg, font, func(design.Snapshot) { dc.Refresh() })
	if err != nil {
		return err
	}
	dc.session = sess
	defer crash.Recover("", func() any { return sess.Snapshot() })

	fyneApp := app.NewWithID("mytshirt")
	w := fyneApp.NewWindow("T-shirt Designer")
	status := widget.NewLabel("Ready")
	decoder := NewDecoder(cfg)

	upload := widget.NewButton("Upload Image", func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil {
				l.Warn("file dialog failed", slog.Any("err", err))
				return
			}
			if rc == nil {
				return
			}
			name := rc.URI().Name()
			status.SetText("Loading " + name + "...")
			sess.Upload(context.Background(), decoder, rc, fyne.Do)
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}))
		fd.Show()
	})
	addText := widget.NewButton("Add Text", func() { sess.AddText() })
	del := widget.NewButton("Delete", func() { sess.Delete() })

	colors := make([]string, 0, len(garment.All()))
	for _, c := range garment.All() {
		colors = append(colors, string(c))
	}
	picker := widget.NewSelect(colors, func(c string) { sess.SetGarment(c) })
	picker.SetSelected(string(sess.Garment().Color))

	edit := widget.NewEntry()
	edit.SetPlaceHolder("Selected label text")
	edit.OnSubmitted = func(text string) {
		if id := sess.Selection().TextID(); id != "" {
			sess.SetText(id, text)
		}
	}
	dc.OnSelect = func(t design.HitTarget) {
		status.SetText("Selected: " + t.String())
		if t.Kind == design.TargetText {
			if it := sess.Store().Text(t.ID); it != nil {
				edit.SetText(it.Text)
			}
		}
	}

	toolbar := container.NewHBox(upload, addText, del, widget.NewLabel("Garment:"), picker)
	w.SetContent(container.NewBorder(toolbar, container.NewBorder(nil, nil, nil, status, edit), nil, nil, dc))
	w.Resize(fyne.NewSize(design.CanvasWidth+240, design.CanvasHeight+120))
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

// DesignCanvas renders a design.Session and feeds it pointer events.
type DesignCanvas struct {
	widget.BaseWidget

	session *design.Session
	assets  string
	font    fyne.Resource // label face, shared with measurement
	zoom    float32
	origin  fyne.Position
	drag    bool

	OnSelect func(design.HitTarget)
}

func NewDesignCanvas(assetsDir string) *DesignCanvas {
	dc := &DesignCanvas{assets: assetsDir, zoom: 1}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *DesignCanvas) MinSize() fyne.Size {
	return fyne.NewSize(design.CanvasWidth, design.CanvasHeight)
}

func (dc *DesignCanvas) toCanvas(p fyne.Position) vector.Pt {
	return vector.Pt{X: (p.X - dc.origin.X) / dc.zoom, Y: (p.Y - dc.origin.Y) / dc.zoom}
}

func (dc *DesignCanvas) toScreen(p vector.Pt) fyne.Position {
	return fyne.NewPos(dc.origin.X+p.X*dc.zoom, dc.origin.Y+p.Y*dc.zoom)
}

func (dc *DesignCanvas) Tapped(e *fyne.PointEvent) {
	if dc.session == nil {
		return
	}
	t := dc.session.Tap(dc.toCanvas(e.Position))
	if t.IsItem() && dc.OnSelect != nil {
		dc.OnSelect(t)
	}
}

func (dc *DesignCanvas) Dragged(e *fyne.DragEvent) {
	if dc.session == nil {
		return
	}
	if !dc.drag {
		start := e.Position.Subtract(e.Dragged)
		dc.session.BeginDrag(dc.toCanvas(start))
		dc.drag = true
	}
	dc.session.DragTo(dc.toCanvas(e.Position))
}

func (dc *DesignCanvas) DragEnd() {
	dc.drag = false
	if dc.session != nil {
		dc.session.EndDrag()
	}
}

func (dc *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &designRenderer{
		dc:    dc,
		bg:    canvas.NewRectangle(color.RGBA{R: 245, G: 245, B: 245, A: 255}),
		guide: canvas.NewRectangle(color.Transparent),
		bbox:  canvas.NewRectangle(color.Transparent),
		glyph: canvas.NewText("✕", color.RGBA{R: 200, G: 40, B: 40, A: 255}),
	}
	r.guide.StrokeColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	r.guide.StrokeWidth = 1
	r.bbox.StrokeColor = color.RGBA{R: 0, G: 120, B: 215, A: 255}
	r.bbox.StrokeWidth = 1
	r.glyph.TextSize = design.DeleteGlyphSize - 2
	for i := range r.handles {
		h := canvas.NewRectangle(color.White)
		h.StrokeColor = r.bbox.StrokeColor
		h.StrokeWidth = 1
		r.handles[i] = h
	}
	return r
}

type designRenderer struct {
	dc *DesignCanvas

	bg       *canvas.Rectangle
	shirt    *canvas.Image
	shirtFor string
	guide    *canvas.Rectangle
	photo    *canvas.Image
	texts    []*canvas.Text
	guides   []*canvas.Line
	bbox     *canvas.Rectangle
	handles  [4]*canvas.Rectangle
	glyph    *canvas.Text
	objects  []fyne.CanvasObject
}

func (r *designRenderer) Destroy()                     {}
func (r *designRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *designRenderer) MinSize() fyne.Size           { return r.dc.MinSize() }
func (r *designRenderer) Refresh()                     { r.Layout(r.dc.Size()); canvas.Refresh(r.dc) }

func (r *designRenderer) Layout(size fyne.Size) {
	dc := r.dc
	dc.zoom = max(min(size.Width/design.CanvasWidth, size.Height/design.CanvasHeight), 0.1)
	dc.origin = fyne.NewPos((size.Width-design.CanvasWidth*dc.zoom)/2, (size.Height-design.CanvasHeight*dc.zoom)/2)

	r.bg.Resize(size)
	objs := []fyne.CanvasObject{r.bg}
	if dc.session == nil {
		r.objects = objs
		return
	}
	snap := dc.session.Snapshot()

	if b := dc.session.Garment(); r.shirt == nil || r.shirtFor != b.Path {
		r.shirt = r.loadShirt(b)
		r.shirtFor = b.Path
	}
	if r.shirt != nil {
		r.place(r.shirt, design.CanvasRect)
		objs = append(objs, r.shirt)
	}
	r.place(r.guide, design.PrintGuide)
	objs = append(objs, r.guide)

	if img := dc.session.Store().Image(); img != nil {
		if r.photo == nil || r.photo.Image != img.Pixels {
			r.photo = canvas.NewImageFromImage(img.Pixels)
			r.photo.FillMode = canvas.ImageFillStretch
		}
		r.place(r.photo, boxRect(snap.Image.Box))
		objs = append(objs, r.photo)
	}

	for len(r.texts) < len(snap.Texts) {
		t := canvas.NewText("", color.Black)
		t.FontSource = dc.font
		r.texts = append(r.texts, t)
	}
	for i, ts := range snap.Texts {
		t := r.texts[i]
		t.Text = ts.Text
		t.TextSize = ts.FontSize * dc.zoom
		t.Move(dc.toScreen(vector.Pt{X: ts.Box.X, Y: ts.Box.Y}))
		t.Refresh()
		objs = append(objs, t)
	}

	gs := dc.session.Guides()
	for len(r.guides) < len(gs) {
		ln := canvas.NewLine(color.RGBA{R: 230, G: 0, B: 140, A: 255})
		ln.StrokeWidth = 1
		r.guides = append(r.guides, ln)
	}
	for i, g := range gs {
		ln := r.guides[i]
		ln.Position1 = dc.toScreen(g.From)
		ln.Position2 = dc.toScreen(g.To)
		objs = append(objs, ln)
	}

	ov := dc.session.Overlay()
	if box, ok := ov.Box(); ok && ov.Visible() {
		r.place(r.bbox, box)
		objs = append(objs, r.bbox)
		if hs, ok := ov.Handles(); ok {
			for i, h := range hs {
				r.place(r.handles[i], h)
				objs = append(objs, r.handles[i])
			}
		}
		if p, ok := ov.DeleteGlyph(); ok {
			r.glyph.Move(dc.toScreen(p))
			objs = append(objs, r.glyph)
		}
	}
	r.objects = objs
}

func (r *designRenderer) place(o fyne.CanvasObject, rc vector.Rect) {
	o.Move(r.dc.toScreen(rc.Min()))
	o.Resize(fyne.NewSize(rc.W*r.dc.zoom, rc.H*r.dc.zoom))
}

func (r *designRenderer) loadShirt(b garment.Backdrop) *canvas.Image {
	path := b.File(r.dc.assets)
	if _, err := os.Stat(path); err != nil {
		applog.WithComponent("ui").Warn("garment image missing", slog.String("path", path))
		return nil
	}
	img := canvas.NewImageFromFile(path)
	img.FillMode = canvas.ImageFillContain
	return img
}

func boxRect(b design.Box) vector.Rect { return vector.R(b.X, b.Y, b.W, b.H) }
