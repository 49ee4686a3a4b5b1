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

// EncodeFunc writes a single item of type T.
type EncodeFunc[T any] func(w *Writer, item T)

// DecodeFunc reads a single item of type T.
type DecodeFunc[T any] func(r *Reader) (T, error)

// KeyFunc extracts the comparable identity used for duplicate detection in
// an ordered-unique set (e.g. a Hash's raw bytes as a string, or a
// PublicKey's byte array).
type KeyFunc[T any, K comparable] func(item T) K

// EncodeOrderedSetU8 encodes an ordered-unique set with a u8 length prefix.
// Used for collections bounded by a cap that fits a byte (BlockIds).
func EncodeOrderedSetU8[T any](w *Writer, items []T, encode EncodeFunc[T]) {
	w.WriteU8(uint8(len(items)))
	for _, item := range items {
		encode(w, item)
	}
}

// DecodeOrderedSetU8 decodes an ordered-unique set with a u8 length prefix,
// rejecting duplicates (by key) and lengths outside [minLen, maxLen].
func DecodeOrderedSetU8[T any, K comparable](
	r *Reader,
	minLen, maxLen int,
	decode DecodeFunc[T],
	key KeyFunc[T, K],
) ([]T, error) {
	n, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if int(n) < minLen || int(n) > maxLen {
		return nil, NewInvalidValueError("set length", "out of bounds")
	}
	return decodeSetItems(r, int(n), decode, key)
}

// EncodeOrderedSetU32 encodes an ordered-unique set with a u32 length
// prefix. Used for collections that may exceed 256 items (assets, keys,
// accounts, block metadata).
func EncodeOrderedSetU32[T any](w *Writer, items []T, encode EncodeFunc[T]) {
	w.WriteU32(uint32(len(items)))
	for _, item := range items {
		encode(w, item)
	}
}

// DecodeOrderedSetU32 decodes an ordered-unique set with a u32 length
// prefix, rejecting duplicates and lengths above maxLen.
func DecodeOrderedSetU32[T any, K comparable](
	r *Reader,
	maxLen int,
	decode DecodeFunc[T],
	key KeyFunc[T, K],
) ([]T, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(n) > maxLen {
		return nil, NewInvalidValueError("set length", "exceeds page cap")
	}
	return decodeSetItems(r, int(n), decode, key)
}

func decodeSetItems[T any, K comparable](
	r *Reader,
	n int,
	decode DecodeFunc[T],
	key KeyFunc[T, K],
) ([]T, error) {
	items := make([]T, 0, n)
	seen := make(map[K]struct{}, n)
	for i := 0; i < n; i++ {
		item, err := decode(r)
		if err != nil {
			return nil, err
		}
		k := key(item)
		if _, dup := seen[k]; dup {
			return nil, NewInvalidValueError("set item", "duplicate entry")
		}
		seen[k] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

// EncodeSequenceU32 encodes a duplicate-permitting sequence with a u32
// length prefix (balances/nonces vectors).
func EncodeSequenceU32[T any](w *Writer, items []T, encode EncodeFunc[T]) {
	w.WriteU32(uint32(len(items)))
	for _, item := range items {
		encode(w, item)
	}
}

// DecodeSequenceU32 decodes a duplicate-permitting sequence with a u32
// length prefix, rejecting lengths above maxLen.
func DecodeSequenceU32[T any](r *Reader, maxLen int, decode DecodeFunc[T]) ([]T, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if int(n) > maxLen {
		return nil, NewInvalidValueError("sequence length", "exceeds page cap")
	}
	items := make([]T, 0, n)
	for i := 0; i < int(n); i++ {
		item, err := decode(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
