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

package bootstrapsync

import (
	"github.com/jinzhu/copier"

	"github.com/xelis-project/bootstrapsync/chain"
)

// BalanceKey locates one account's balance for one asset in a Snapshot.
type BalanceKey struct {
	Account chain.PublicKey
	Asset   chain.Hash
}

// Snapshot is the accumulated result of a completed sync: the stable
// anchor the session pinned at ChainInfo time, the merkle pairs covering
// the gap from the common point, the registered assets and accounts, the
// balance and nonce maps keyed off those accounts, and the topmost window
// of block metadata.
type Snapshot struct {
	StableTopoheight uint64
	StableHeight     uint64
	StableHash       chain.Hash
	StableMerkleHash chain.Hash

	MerklePairs []MerklePair
	Assets      []chain.AssetWithData
	Accounts    []chain.PublicKey

	Balances map[BalanceKey]chain.AccountBalance
	Nonces   map[chain.PublicKey]uint64

	Metadata []chain.BlockMetadata
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		Balances: make(map[BalanceKey]chain.AccountBalance),
		Nonces:   make(map[chain.PublicKey]uint64),
	}
}

// Clone deep-copies the snapshot so a caller can keep it past the point
// the client's state machine resumes mutating its own working copy (e.g.
// handing it to the out-of-scope block-application layer on a different
// goroutine).
func (s *Snapshot) Clone() (*Snapshot, error) {
	// copier cannot copy a map keyed by a struct, so Balances is copied by
	// hand and everything else goes through copier.
	src := *s
	src.Balances = nil
	clone := &Snapshot{}
	if err := copier.CopyWithOption(clone, &src, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	clone.Balances = make(map[BalanceKey]chain.AccountBalance, len(s.Balances))
	for k, v := range s.Balances {
		v.InputBalance = append(chain.CiphertextCache(nil), v.InputBalance...)
		if v.OutputBalance != nil {
			v.OutputBalance = append(chain.CiphertextCache{}, v.OutputBalance...)
		}
		clone.Balances[k] = v
	}
	return clone, nil
}
