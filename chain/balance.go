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

package chain

import "github.com/xelis-project/bootstrapsync/wire"

// CiphertextCache is an opaque encrypted balance payload. This layer never
// interprets its contents, only carries them end-to-end.
type CiphertextCache []byte

// Size returns the exact encoded length, including the length prefix.
func (c CiphertextCache) Size() int {
	return 4 + len(c)
}

// Encode writes the ciphertext with a u32 length prefix.
func (c CiphertextCache) Encode(w *wire.Writer) {
	w.WriteVarBytes(c)
}

// DecodeCiphertextCache reads a length-prefixed ciphertext blob.
func DecodeCiphertextCache(r *wire.Reader) (CiphertextCache, error) {
	b, err := r.ReadVarBytes()
	if err != nil {
		return nil, err
	}
	return CiphertextCache(b), nil
}

// BalanceType distinguishes how a balance entry should be interpreted.
type BalanceType uint8

const (
	// BalanceTypeInput marks a balance produced only by incoming transfers.
	BalanceTypeInput BalanceType = iota
	// BalanceTypeOutput marks a balance that has had outgoing spends applied.
	BalanceTypeOutput
	// BalanceTypeBoth marks a balance combining input and output history.
	BalanceTypeBoth
)

// Size returns the fixed encoded length.
func (t BalanceType) Size() int {
	return 1
}

// Encode writes the balance type tag.
func (t BalanceType) Encode(w *wire.Writer) {
	w.WriteU8(uint8(t))
}

// DecodeBalanceType reads and validates a balance type tag.
func DecodeBalanceType(r *wire.Reader) (BalanceType, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	if tag > uint8(BalanceTypeBoth) {
		return 0, wire.NewInvalidValueError("balance type", "unknown tag")
	}
	return BalanceType(tag), nil
}

// AccountBalance is one entry of a Balances response: the input balance
// ciphertext, an optional output balance ciphertext, and the balance type.
type AccountBalance struct {
	InputBalance  CiphertextCache
	OutputBalance CiphertextCache
	Type          BalanceType
}

// Size returns the exact encoded length.
func (b AccountBalance) Size() int {
	return b.InputBalance.Size() + wire.SizeOption(b.OutputBalance != nil, sizeOfCiphertext(b.OutputBalance)) + b.Type.Size()
}

func sizeOfCiphertext(c CiphertextCache) int {
	if c == nil {
		return 0
	}
	return c.Size()
}

// Encode writes the balance entry.
func (b AccountBalance) Encode(w *wire.Writer) {
	b.InputBalance.Encode(w)
	wire.EncodeOption(w, cipherPtr(b.OutputBalance), func(w *wire.Writer, c CiphertextCache) { c.Encode(w) })
	b.Type.Encode(w)
}

func cipherPtr(c CiphertextCache) *CiphertextCache {
	if c == nil {
		return nil
	}
	return &c
}

// DecodeAccountBalance reads an AccountBalance.
func DecodeAccountBalance(r *wire.Reader) (AccountBalance, error) {
	in, err := DecodeCiphertextCache(r)
	if err != nil {
		return AccountBalance{}, err
	}
	out, err := wire.DecodeOption(r, DecodeCiphertextCache)
	if err != nil {
		return AccountBalance{}, err
	}
	typ, err := DecodeBalanceType(r)
	if err != nil {
		return AccountBalance{}, err
	}
	var outBalance CiphertextCache
	if out != nil {
		outBalance = *out
	}
	return AccountBalance{InputBalance: in, OutputBalance: outBalance, Type: typ}, nil
}
