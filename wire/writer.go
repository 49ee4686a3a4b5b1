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

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates the big-endian, unpadded byte encoding of a message.
// Every Write* method appends exactly the bytes that the matching Read*
// method on Reader consumes, so Size() always equals len(w.Bytes()).
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteBool appends a single byte, 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteU16 appends a fixed-width big-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf.Write(tmp[:])
}

// WriteU32 appends a fixed-width big-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf.Write(tmp[:])
}

// WriteU64 appends a fixed-width big-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf.Write(tmp[:])
}

// WriteBytes appends raw bytes with no length prefix. Callers that need a
// length-delimited blob should prefix it themselves (see WriteVarBytes).
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteVarBytes appends a u32 length prefix followed by the bytes. Used for
// opaque payloads (ciphertext caches) whose length is not otherwise implied
// by the surrounding message shape.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteU32(uint32(len(b)))
	w.buf.Write(b)
}

// WriteOptionPresent writes the Option<T> presence tag for a present value;
// the payload must be written immediately after by the caller.
func (w *Writer) WriteOptionPresent() {
	w.WriteU8(1)
}

// WriteOptionAbsent writes the Option<T> presence tag for an absent value.
func (w *Writer) WriteOptionAbsent() {
	w.WriteU8(0)
}
