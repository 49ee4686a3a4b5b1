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
	"github.com/xelis-project/bootstrapsync/chain"
)

// fakeChainView is an in-memory ChainView for tests. Pages are served by
// treating an opaque page cursor as a 1-indexed "next batch number": nil
// means the first batch, Some(n) means batch n (0-indexed offset n*limit).
// This is purely a test fixture's interpretation of the cursor it is
// handed back; Server never assumes anything about a ChainView's paging
// scheme beyond "hasMore".
type fakeChainView struct {
	localBlocks      map[uint64]chain.Hash
	stableTopoheight uint64
	stableHeight     uint64
	stableHash       chain.Hash
	stableMerkleHash chain.Hash

	merklePairs []MerklePair
	assets      []chain.AssetWithData
	accounts    []chain.PublicKey
	balances    map[BalanceKey]chain.AccountBalance
	nonces      map[chain.PublicKey]uint64
	metadata    []chain.BlockMetadata
}

func newFakeChainView() *fakeChainView {
	return &fakeChainView{
		localBlocks: make(map[uint64]chain.Hash),
		balances:    make(map[BalanceKey]chain.AccountBalance),
		nonces:      make(map[chain.PublicKey]uint64),
	}
}

func (v *fakeChainView) FindCommonAncestor(candidates []chain.BlockId) (chain.CommonPoint, bool) {
	for _, c := range candidates {
		if h, ok := v.localBlocks[c.Topoheight]; ok && h.Equal(c.Hash) {
			return chain.CommonPoint{Hash: h, Topoheight: c.Topoheight}, true
		}
	}
	return chain.CommonPoint{}, false
}

func (v *fakeChainView) StableAnchor() (uint64, uint64, chain.Hash, chain.Hash) {
	return v.stableTopoheight, v.stableHeight, v.stableHash, v.stableMerkleHash
}

func pageOffset(page *uint64, limit int) int {
	if page == nil {
		return 0
	}
	return int(*page) * limit
}

func (v *fakeChainView) BlockHashesIn(_ TopoheightRange, page *uint64, limit int) ([]MerklePair, bool) {
	offset := pageOffset(page, limit)
	if offset >= len(v.merklePairs) {
		return nil, false
	}
	end := offset + limit
	if end > len(v.merklePairs) {
		end = len(v.merklePairs)
	}
	return v.merklePairs[offset:end], end < len(v.merklePairs)
}

func (v *fakeChainView) AssetsIn(_ TopoheightRange, page *uint64, limit int) ([]chain.AssetWithData, bool) {
	offset := pageOffset(page, limit)
	if offset >= len(v.assets) {
		return nil, false
	}
	end := offset + limit
	if end > len(v.assets) {
		end = len(v.assets)
	}
	return v.assets[offset:end], end < len(v.assets)
}

func (v *fakeChainView) KeysIn(_ TopoheightRange, page *uint64, limit int) ([]chain.PublicKey, bool) {
	offset := pageOffset(page, limit)
	if offset >= len(v.accounts) {
		return nil, false
	}
	end := offset + limit
	if end > len(v.accounts) {
		end = len(v.accounts)
	}
	return v.accounts[offset:end], end < len(v.accounts)
}

func (v *fakeChainView) BalanceAt(account chain.PublicKey, asset chain.Hash, _ uint64) (chain.AccountBalance, bool) {
	bal, ok := v.balances[BalanceKey{Account: account, Asset: asset}]
	return bal, ok
}

func (v *fakeChainView) NonceAt(account chain.PublicKey, _ uint64) uint64 {
	return v.nonces[account]
}

func (v *fakeChainView) TopKMetadata(_ uint64, k int) []chain.BlockMetadata {
	if k > len(v.metadata) {
		k = len(v.metadata)
	}
	return v.metadata[:k]
}
