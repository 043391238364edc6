/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// Parse validates data against the script schema and decodes it. On any
// error the returned Script is empty.
func Parse(data []byte) (Script, []Error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Script{}, []Error{syntaxError(data, err)}
	}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Script{}, []Error{{Message: "schema: " + err.Error()}}
	}
	if !result.Valid() {
		errs := make([]Error, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, Error{Field: e.Field(), Message: e.Description()})
		}
		return Script{}, errs
	}
	var s Script
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return Script{}, []Error{{Message: err.Error()}}
	}
	return s, nil
}

// syntaxError locates a JSON decode failure as line:column.
func syntaxError(data []byte, err error) Error {
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	var off int64
	switch {
	case errors.As(err, &se):
		off = se.Offset
	case errors.As(err, &te):
		off = te.Offset
	default:
		return Error{Message: err.Error()}
	}
	line, col := 1, 1
	for _, b := range data[:min(int(off), len(data))] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Error{Line: line, Column: col, Message: err.Error()}
}
