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

// BlockMetadata is the per-block snapshot record served by the
// BlocksMetadata step. Equality and ordered-set membership are by Hash
// alone; the remaining fields are verification payload.
type BlockMetadata struct {
	Hash                 Hash
	Supply               uint64
	Reward               uint64
	Difficulty           Difficulty
	CumulativeDifficulty CumulativeDifficulty
	P                    wire.VarUint
	MerkleHash           Hash
}

// Key returns the comparable identity used for ordered-unique set
// deduplication.
func (m BlockMetadata) Key() Hash {
	return m.Hash
}

// Size returns the exact encoded length.
func (m BlockMetadata) Size() int {
	return m.Hash.Size() + 8 + 8 + m.Difficulty.Size() + m.CumulativeDifficulty.Size() + m.P.Size() + m.MerkleHash.Size()
}

// Encode writes the block metadata record.
func (m BlockMetadata) Encode(w *wire.Writer) {
	m.Hash.Encode(w)
	w.WriteU64(m.Supply)
	w.WriteU64(m.Reward)
	m.Difficulty.Encode(w)
	m.CumulativeDifficulty.Encode(w)
	m.P.Encode(w)
	m.MerkleHash.Encode(w)
}

// DecodeBlockMetadata reads a BlockMetadata record.
func DecodeBlockMetadata(r *wire.Reader) (BlockMetadata, error) {
	hash, err := DecodeHash(r)
	if err != nil {
		return BlockMetadata{}, err
	}
	supply, err := r.ReadU64()
	if err != nil {
		return BlockMetadata{}, err
	}
	reward, err := r.ReadU64()
	if err != nil {
		return BlockMetadata{}, err
	}
	difficulty, err := DecodeDifficulty(r)
	if err != nil {
		return BlockMetadata{}, err
	}
	cumulative, err := DecodeCumulativeDifficulty(r)
	if err != nil {
		return BlockMetadata{}, err
	}
	p, err := wire.DecodeVarUint(r)
	if err != nil {
		return BlockMetadata{}, err
	}
	merkleHash, err := DecodeHash(r)
	if err != nil {
		return BlockMetadata{}, err
	}
	return BlockMetadata{
		Hash:                 hash,
		Supply:               supply,
		Reward:               reward,
		Difficulty:           difficulty,
		CumulativeDifficulty: cumulative,
		P:                    p,
		MerkleHash:           merkleHash,
	}, nil
}
