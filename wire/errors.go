// Copyright 2026 The Bootstrap Sync Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package wire implements the length-prefixed binary codec used by the
// bootstrap chain sync protocol: fixed-width integers, minimally-encoded
// varints, optional values, and ordered-unique collections.
package wire

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when a Decode call runs out of buffer before
// a value is fully read.
var ErrUnexpectedEOF = errors.New("wire: unexpected end of data")

// ErrInvalidValue is returned for any structurally invalid decode: an out
// of range tag, a non-minimal VarUint, a duplicate entry in an ordered set,
// or a collection length outside its bounds. Zero pagination cursors and
// reversed topoheight ranges are rejected by the bootstrapsync decoder with
// protocol.ErrBounds instead.
var ErrInvalidValue = errors.New("wire: invalid value")

// InvalidValueError wraps ErrInvalidValue with the field that failed
// validation, so callers can log or test against a specific cause.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("wire: invalid value for %s: %s", e.Field, e.Reason)
}

func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidValue
}

// NewInvalidValueError builds an InvalidValueError for the given field.
func NewInvalidValueError(field, reason string) error {
	return &InvalidValueError{Field: field, Reason: reason}
}
