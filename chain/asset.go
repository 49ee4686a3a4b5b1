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

// AssetWithData is an asset identifier plus its registration metadata.
// Equality and ordered-set membership are by asset Hash alone.
type AssetWithData struct {
	Hash                   Hash
	Decimals               uint8
	Owner                  *PublicKey
	RegistrationTopoheight uint64
}

// Key returns the comparable identity used for ordered-unique set
// deduplication.
func (a AssetWithData) Key() Hash {
	return a.Hash
}

// Size returns the exact encoded length.
func (a AssetWithData) Size() int {
	size := a.Hash.Size() + 1 + 8
	if a.Owner != nil {
		size += PublicKeySize
	}
	return size + 1 // owner option tag
}

// Encode writes the asset hash, decimals, optional owner, and registration
// topoheight, in that order.
func (a AssetWithData) Encode(w *wire.Writer) {
	a.Hash.Encode(w)
	w.WriteU8(a.Decimals)
	wire.EncodeOption(w, a.Owner, func(w *wire.Writer, pk PublicKey) { pk.Encode(w) })
	w.WriteU64(a.RegistrationTopoheight)
}

// DecodeAssetWithData reads an AssetWithData.
func DecodeAssetWithData(r *wire.Reader) (AssetWithData, error) {
	hash, err := DecodeHash(r)
	if err != nil {
		return AssetWithData{}, err
	}
	decimals, err := r.ReadU8()
	if err != nil {
		return AssetWithData{}, err
	}
	owner, err := wire.DecodeOption(r, DecodePublicKey)
	if err != nil {
		return AssetWithData{}, err
	}
	topo, err := r.ReadU64()
	if err != nil {
		return AssetWithData{}, err
	}
	return AssetWithData{
		Hash:                   hash,
		Decimals:               decimals,
		Owner:                  owner,
		RegistrationTopoheight: topo,
	}, nil
}
