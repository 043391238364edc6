/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

import (
	"fmt"
	"image"
	"math/rand"
	"testing"

	"mytshirt/internal/textlayout"
)

func counterIDs() func() TextID {
	n := 0
	return func() TextID {
		n++
		return TextID(fmt.Sprintf("t%d", n))
	}
}

func newTestStore() *Store {
	return NewStore(StoreOptions{Fonts: textlayout.BasicProvider{}, NewID: counterIDs()})
}

func TestStore_AddTextDefaults(t *testing.T) {
	s := newTestStore()
	id := s.AddText("")
	it := s.Text(id)
	if it == nil {
		t.Fatalf("added text not found")
	}
	if it.Text != "Your Text" || it.X != 140 || it.Y != 200 || it.FontSize != 24 {
		t.Fatalf("unexpected defaults: %+v", it)
	}
	// nine glyphs of 7px, one line of 24px
	if it.Width != 63 || it.Height != 24 {
		t.Fatalf("unexpected measured size %vx%v", it.Width, it.Height)
	}
}

func TestStore_IDsAreNeverReused(t *testing.T) {
	// a generator that repeats itself must not resurrect a deleted ID
	ids := []TextID{"a", "a", "b", "a", "b", "c"}
	i := 0
	s := NewStore(StoreOptions{Fonts: textlayout.BasicProvider{}, NewID: func() TextID { id := ids[i%len(ids)]; i++; return id }})
	first := s.AddText("x")
	s.RemoveText(first)
	second := s.AddText("y")
	third := s.AddText("z")
	if first == second || second == third || first == third {
		t.Fatalf("expected distinct ids, got %q %q %q", first, second, third)
	}
}

func TestStore_LiveIDsMatchReplayedOps(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		s := newTestStore()
		want := map[TextID]bool{}
		var issued []TextID
		for op := 0; op < 40; op++ {
			if len(issued) == 0 || rng.Intn(3) > 0 {
				id := s.AddText("")
				if want[id] {
					t.Fatalf("id %q issued twice", id)
				}
				want[id] = true
				issued = append(issued, id)
				continue
			}
			id := issued[rng.Intn(len(issued))]
			removed := s.RemoveText(id)
			if removed != want[id] {
				t.Fatalf("remove %q returned %v, expected %v", id, removed, want[id])
			}
			delete(want, id)
		}
		got := s.Texts()
		if len(got) != len(want) {
			t.Fatalf("round %d: %d live texts, expected %d", round, len(got), len(want))
		}
		for _, it := range got {
			if !want[it.ID] || s.Text(it.ID) != it {
				t.Fatalf("round %d: index out of sync for %q", round, it.ID)
			}
		}
	}
}

func TestStore_SetImageReplacesWholesale(t *testing.T) {
	s := newTestStore()
	a := image.NewRGBA(image.Rect(0, 0, 10, 10))
	b := image.NewRGBA(image.Rect(0, 0, 20, 5))
	s.SetImage(a)
	s.UpdatePosition(ImageRef, 10, 10)
	s.ApplyTransform(ImageRef, Transform{X: 10, Y: 10, ScaleX: 3, ScaleY: 3})
	s.CommitTransform(ImageRef)

	s.SetImage(b)
	img := s.Image()
	if img.Pixels != b {
		t.Fatalf("expected second bitmap")
	}
	if img.X != 140 || img.Y != 160 || img.Width != 80 || img.Height != 80 || img.ScaleX != 1 || img.ScaleY != 1 {
		t.Fatalf("expected default placement, got %+v", img.Node)
	}
	if s.Len() != 1 {
		t.Fatalf("expected exactly one item, got %d", s.Len())
	}
}

func TestStore_CommitTransformDoesNotCompound(t *testing.T) {
	s := newTestStore()
	s.SetImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	s.ApplyTransform(ImageRef, Transform{X: 140, Y: 160, ScaleX: 2, ScaleY: 2})
	s.CommitTransform(ImageRef)
	s.ApplyTransform(ImageRef, Transform{X: 140, Y: 160, ScaleX: 0.5, ScaleY: 1.5})
	s.CommitTransform(ImageRef)
	n := s.Image().Node
	if n.Width != 80 || n.Height != 240 || n.ScaleX != 1 || n.ScaleY != 1 {
		t.Fatalf("unexpected committed node %+v", n)
	}
}

func TestStore_CommitTransformTextScalesFont(t *testing.T) {
	s := newTestStore()
	id := s.AddText("Hi")
	s.ApplyTransform(TextRef(id), Transform{X: 140, Y: 200, ScaleX: 2, ScaleY: 2})
	s.CommitTransform(TextRef(id))
	it := s.Text(id)
	if it.FontSize != 48 || it.Height != 48 || it.ScaleX != 1 || it.ScaleY != 1 {
		t.Fatalf("unexpected committed text %+v", it)
	}
}

func TestStore_MissingRefs(t *testing.T) {
	s := newTestStore()
	if s.UpdatePosition(ImageRef, 1, 1) || s.CommitTransform(TextRef("nope")) || s.RemoveImage() || s.RemoveText("nope") {
		t.Fatalf("operations on missing items should report false")
	}
	if s.Node(Background) != nil {
		t.Fatalf("background has no node")
	}
}

func TestStore_RemoveTextKeepsOrder(t *testing.T) {
	s := newTestStore()
	a, b, c := s.AddText("a"), s.AddText("b"), s.AddText("c")
	s.RemoveText(b)
	got := s.Texts()
	if len(got) != 2 || got[0].ID != a || got[1].ID != c {
		t.Fatalf("unexpected order after removal")
	}
	if s.Text(c) != got[1] {
		t.Fatalf("index not updated after removal")
	}
}
