/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a recorded editing session: an optional garment colour and the
// events to replay against a fresh design session, in order.
type Script struct {
	Garment string  `json:"garment,omitempty"`
	Events  []Event `json:"events"`
}

// EventType names one dispatcher event.
type EventType string

const (
	EventUpload     EventType = "upload"
	EventAddText    EventType = "add_text"
	EventSetText    EventType = "set_text"
	EventClick      EventType = "click"
	EventTap        EventType = "tap"
	EventDrag       EventType = "drag"
	EventResize     EventType = "resize"
	EventBackground EventType = "background"
	EventDelete     EventType = "delete"
	EventGarment    EventType = "garment"
)

// Event is one step. Which fields apply depends on Type:
//
//	upload:     File (relative paths resolve against the script's directory)
//	add_text:   As names the new label for later events
//	set_text:   Target, Text
//	click:      Target ("image", "background" or a label name)
//	tap:        X, Y in canvas pixels
//	drag:       Target, X, Y (new top-left)
//	resize:     Target, ScaleX, ScaleY (committed like a transform-end)
//	garment:    Color
type Event struct {
	Type   EventType `json:"type"`
	File   string    `json:"file,omitempty"`
	As     string    `json:"as,omitempty"`
	Target string    `json:"target,omitempty"`
	Text   string    `json:"text,omitempty"`
	Color  string    `json:"color,omitempty"`
	X      float32   `json:"x,omitempty"`
	Y      float32   `json:"y,omitempty"`
	ScaleX float32   `json:"scale_x,omitempty"`
	ScaleY float32   `json:"scale_y,omitempty"`
}

// Error reports a script problem with position context. Line and Column are
// set for syntax errors, Field for schema violations.
type Error struct {
	Line    int
	Column  int
	Field   string
	Message string
}

func (e Error) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	case e.Field != "":
		return e.Field + ": " + e.Message
	default:
		return e.Message
	}
}
