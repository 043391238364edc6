/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mytshirt/internal/design"
	applog "mytshirt/internal/log"
	"mytshirt/internal/vector"
)

// ErrUnknownTarget is returned for a target name no earlier event defined.
var ErrUnknownTarget = errors.New("unknown target")

// Runner replays scripts against a session. Uploads decode synchronously.
type Runner struct {
	Session *design.Session
	Decoder design.Decoder
	// BaseDir anchors relative upload paths, normally the script's directory.
	BaseDir string
	Log     *slog.Logger

	names map[string]design.TextID
}

// Run applies every event in order and stops at the first one that cannot
// be applied. A decode failure is not such an event: the session logs it
// and keeps its state, as it does interactively.
func (r *Runner) Run(ctx context.Context, s Script) error {
	if r.Log == nil {
		r.Log = applog.WithComponent("script")
	}
	if r.names == nil {
		r.names = make(map[string]design.TextID)
	}
	if s.Garment != "" {
		r.Session.SetGarment(s.Garment)
	}
	for i, ev := range s.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.apply(ctx, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Type, err)
		}
		r.Log.Debug("event applied", slog.Int("n", i+1), slog.String("type", string(ev.Type)))
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, ev Event) error {
	sess := r.Session
	switch ev.Type {
	case EventUpload:
		path := ev.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.BaseDir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open upload: %w", err)
		}
		sess.Upload(ctx, r.Decoder, f, nil)
	case EventAddText:
		id := sess.AddText()
		if ev.As != "" {
			r.names[ev.As] = id
		}
	case EventSetText:
		t, err := r.target(ev.Target)
		if err != nil {
			return err
		}
		if t.Kind != design.TargetText || !sess.SetText(t.ID, ev.Text) {
			return fmt.Errorf("%w: %q is not a text", ErrUnknownTarget, ev.Target)
		}
	case EventClick:
		t, err := r.target(ev.Target)
		if err != nil {
			return err
		}
		sess.Select(t)
	case EventTap:
		sess.Tap(vector.Pt{X: ev.X, Y: ev.Y})
	case EventDrag:
		t, err := r.item(ev.Target)
		if err != nil {
			return err
		}
		sess.DragMove(t, ev.X, ev.Y)
	case EventResize:
		t, err := r.item(ev.Target)
		if err != nil {
			return err
		}
		n := sess.Store().Node(t)
		sess.Transform(t, design.Transform{X: n.X, Y: n.Y, ScaleX: ev.ScaleX, ScaleY: ev.ScaleY})
		sess.TransformEnd(t)
	case EventBackground:
		sess.Background()
	case EventDelete:
		sess.Delete()
	case EventGarment:
		sess.SetGarment(ev.Color)
	default:
		return fmt.Errorf("unsupported event type %q", ev.Type)
	}
	return nil
}

// target resolves a script name to a hit target.
func (r *Runner) target(name string) (design.HitTarget, error) {
	switch name {
	case "image":
		return design.ImageRef, nil
	case "background":
		return design.Background, nil
	}
	id, ok := r.names[name]
	if !ok {
		return design.HitTarget{}, fmt.Errorf("%w %q", ErrUnknownTarget, name)
	}
	return design.TextRef(id), nil
}

// item resolves name to an item that currently exists.
func (r *Runner) item(name string) (design.HitTarget, error) {
	t, err := r.target(name)
	if err != nil {
		return t, err
	}
	if r.Session.Store().Node(t) == nil {
		return t, fmt.Errorf("%w: %q does not exist", ErrUnknownTarget, name)
	}
	return t, nil
}

// Load reads, validates and decodes the script at path.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, errs := Parse(data)
	if len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return Script{}, fmt.Errorf("%s: %w", path, errors.Join(joined...))
	}
	return s, nil
}
