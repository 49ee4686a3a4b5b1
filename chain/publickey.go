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

import (
	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/xelis-project/bootstrapsync/wire"
)

// PublicKeySize is the fixed width of a compressed Edwards25519 point.
const PublicKeySize = 32

// PublicKey is a fixed-width cryptographic account identity: a compressed
// Edwards25519 point, orderable and hashable by its raw bytes.
type PublicKey [PublicKeySize]byte

// String renders the key as base58.
func (k PublicKey) String() string {
	return base58.Encode(k[:])
}

// Less gives PublicKey a total order over its raw bytes, used by callers
// that want a deterministic account ordering independent of insertion
// order (e.g. constructing test fixtures).
func (k PublicKey) Less(other PublicKey) bool {
	for i := range k {
		if k[i] != other[i] {
			return k[i] < other[i]
		}
	}
	return false
}

// Validate reports whether the key decodes to a canonical point on the
// curve. Non-canonical encodings and points off-curve are rejected the
// same way a real account key would be at the ledger boundary; this layer
// only enforces that the bytes are a valid identity, not that any
// particular account owns it.
func (k PublicKey) Validate() error {
	if _, err := new(edwards25519.Point).SetBytes(k[:]); err != nil {
		return wire.NewInvalidValueError("public key", "not a canonical curve point")
	}
	return nil
}

// Size returns the fixed encoded length.
func (k PublicKey) Size() int {
	return PublicKeySize
}

// Encode writes the raw key bytes.
func (k PublicKey) Encode(w *wire.Writer) {
	w.WriteBytes(k[:])
}

// DecodePublicKey reads a fixed-width PublicKey and validates it as a
// canonical curve point before handing it to the caller.
func DecodePublicKey(r *wire.Reader) (PublicKey, error) {
	b, err := r.ReadBytes(PublicKeySize)
	if err != nil {
		return PublicKey{}, err
	}
	var k PublicKey
	copy(k[:], b)
	if err := k.Validate(); err != nil {
		return PublicKey{}, err
	}
	return k, nil
}
