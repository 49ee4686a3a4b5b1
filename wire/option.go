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

package wire

// EncodeOption writes a single tag byte (0 absent, 1 present) followed by
// the payload when value is non-nil.
func EncodeOption[T any](w *Writer, value *T, encode func(*Writer, T)) {
	if value == nil {
		w.WriteOptionAbsent()
		return
	}
	w.WriteOptionPresent()
	encode(w, *value)
}

// DecodeOption reads the Option<T> tag and, when present, the payload.
func DecodeOption[T any](r *Reader, decode DecodeFunc[T]) (*T, error) {
	present, err := r.ReadOptionTag()
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	v, err := decode(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SizeOption returns the encoded size of an Option<T> given the payload
// size when present.
func SizeOption(present bool, payloadSize int) int {
	if !present {
		return 1
	}
	return 1 + payloadSize
}
