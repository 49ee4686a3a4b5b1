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

// BlockId identifies a recent block compactly for the ChainInfo handshake.
// Equality and set membership are by Hash alone: the topoheight is
// verification payload carried alongside the identity, not part of it.
type BlockId struct {
	Topoheight uint64
	Hash       Hash
}

// Key returns the comparable identity used for ordered-unique set
// deduplication.
func (b BlockId) Key() Hash {
	return b.Hash
}

// Size returns the exact encoded length.
func (b BlockId) Size() int {
	return 8 + b.Hash.Size()
}

// Encode writes the topoheight followed by the hash.
func (b BlockId) Encode(w *wire.Writer) {
	w.WriteU64(b.Topoheight)
	b.Hash.Encode(w)
}

// DecodeBlockId reads a BlockId.
func DecodeBlockId(r *wire.Reader) (BlockId, error) {
	topo, err := r.ReadU64()
	if err != nil {
		return BlockId{}, err
	}
	hash, err := DecodeHash(r)
	if err != nil {
		return BlockId{}, err
	}
	return BlockId{Topoheight: topo, Hash: hash}, nil
}

// CommonPoint is the (hash, topoheight) at which a requesting and
// responding chain view agree.
type CommonPoint struct {
	Hash       Hash
	Topoheight uint64
}

// Size returns the exact encoded length.
func (c CommonPoint) Size() int {
	return c.Hash.Size() + 8
}

// Encode writes the hash followed by the topoheight.
func (c CommonPoint) Encode(w *wire.Writer) {
	c.Hash.Encode(w)
	w.WriteU64(c.Topoheight)
}

// DecodeCommonPoint reads a CommonPoint.
func DecodeCommonPoint(r *wire.Reader) (CommonPoint, error) {
	hash, err := DecodeHash(r)
	if err != nil {
		return CommonPoint{}, err
	}
	topo, err := r.ReadU64()
	if err != nil {
		return CommonPoint{}, err
	}
	return CommonPoint{Hash: hash, Topoheight: topo}, nil
}
