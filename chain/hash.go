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

// Package chain implements the bootstrap sync data model: fixed-width
// hashes and public keys, block identifiers, assets, balances, and block
// metadata, each with a wire codec matching the session's binary format.
package chain

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/xelis-project/bootstrapsync/wire"
)

// HashSize is the fixed width of a Hash in bytes.
const HashSize = 32

// Hash is an opaque fixed-width digest, compared and hashed by its raw
// bytes in canonical (encoded) byte order.
type Hash [HashSize]byte

// ZeroHash is the all-zero digest used to represent genesis' parent.
var ZeroHash Hash

// HashBytes derives a Hash by blake2b-256 hashing arbitrary data. Used by
// test fixtures to build deterministic hashes.
func HashBytes(data []byte) Hash {
	return Hash(blake2b.Sum256(data))
}

// String renders the hash as base58, for compact logging.
func (h Hash) String() string {
	return base58.Encode(h[:])
}

// Equal reports byte-for-byte equality.
func (h Hash) Equal(other Hash) bool {
	return h == other
}

// Size returns the fixed encoded length.
func (h Hash) Size() int {
	return HashSize
}

// Encode writes the raw hash bytes.
func (h Hash) Encode(w *wire.Writer) {
	w.WriteBytes(h[:])
}

// DecodeHash reads a fixed-width Hash.
func DecodeHash(r *wire.Reader) (Hash, error) {
	b, err := r.ReadBytes(HashSize)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
