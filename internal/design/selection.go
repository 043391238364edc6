/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package design

// State is the selection controller's logical state.
type State uint8

const (
	Idle State = iota
	ImageSelected
	TextSelected
)

func (s State) String() string {
	switch s {
	case ImageSelected:
		return "image"
	case TextSelected:
		return "text"
	default:
		return "idle"
	}
}

// Selection tracks the single selected item, if any.
type Selection struct {
	state State
	id    TextID
}

func (s *Selection) State() State { return s.state }

// TextID is the selected label's ID; empty unless State is TextSelected.
func (s *Selection) TextID() TextID { return s.id }

// Current returns the selected item as a reference, or Background when idle.
func (s *Selection) Current() HitTarget {
	switch s.state {
	case ImageSelected:
		return ImageRef
	case TextSelected:
		return TextRef(s.id)
	default:
		return Background
	}
}

// Is reports whether t is the selected item.
func (s *Selection) Is(t HitTarget) bool { return t.IsItem() && s.Current() == t }

// Select makes t the selection. Background clears; overlay targets are
// ignored and return false.
func (s *Selection) Select(t HitTarget) bool {
	switch t.Kind {
	case TargetBackground:
		s.Clear()
	case TargetImage:
		s.state, s.id = ImageSelected, ""
	case TargetText:
		s.state, s.id = TextSelected, t.ID
	default:
		return false
	}
	return true
}

// Clear returns to Idle.
func (s *Selection) Clear() { s.state, s.id = Idle, "" }
