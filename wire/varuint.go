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

import "math/big"

// VarUint is an arbitrary-precision unsigned integer with a minimal wire
// encoding: a u8 byte count followed by that many big-endian bytes with no
// leading zero byte. It backs difficulty-style values that can outgrow a
// u64 while still rejecting non-minimal (padded) encodings of the same
// value, per spec.
type VarUint struct {
	v *big.Int
}

// NewVarUint wraps a uint64 as a VarUint.
func NewVarUint(v uint64) VarUint {
	return VarUint{v: new(big.Int).SetUint64(v)}
}

// NewVarUintFromBigInt wraps an existing non-negative big.Int.
func NewVarUintFromBigInt(v *big.Int) VarUint {
	return VarUint{v: new(big.Int).Set(v)}
}

// Big returns the underlying big.Int value. The returned pointer must not
// be mutated by callers.
func (v VarUint) Big() *big.Int {
	if v.v == nil {
		return new(big.Int)
	}
	return v.v
}

// Uint64 returns the value truncated to 64 bits, for callers that know the
// value fits (e.g. test fixtures).
func (v VarUint) Uint64() uint64 {
	return v.Big().Uint64()
}

// Equal reports whether two VarUint values represent the same number.
func (v VarUint) Equal(other VarUint) bool {
	return v.Big().Cmp(other.Big()) == 0
}

func (v VarUint) minimalBytes() []byte {
	big := v.Big()
	if big.Sign() == 0 {
		return nil
	}
	return big.Bytes()
}

// Size returns the exact encoded length in bytes.
func (v VarUint) Size() int {
	return 1 + len(v.minimalBytes())
}

// Encode writes the minimal u8-length-prefixed big-endian encoding.
func (v VarUint) Encode(w *Writer) {
	b := v.minimalBytes()
	w.WriteU8(uint8(len(b)))
	w.WriteBytes(b)
}

// DecodeVarUint reads a VarUint and rejects any non-minimal encoding: a
// nonzero length byte whose first content byte is 0x00 could only arise
// from padding, since big.Int.Bytes() never emits a leading zero.
func DecodeVarUint(r *Reader) (VarUint, error) {
	n, err := r.ReadU8()
	if err != nil {
		return VarUint{}, err
	}
	if n == 0 {
		return NewVarUint(0), nil
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return VarUint{}, err
	}
	if b[0] == 0 {
		return VarUint{}, NewInvalidValueError("varuint", "non-minimal encoding (leading zero byte)")
	}
	return VarUint{v: new(big.Int).SetBytes(b)}, nil
}
