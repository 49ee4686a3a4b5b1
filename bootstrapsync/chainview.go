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

import "github.com/xelis-project/bootstrapsync/chain"

// TopoheightRange is an exclusive-inclusive (min, max] window used by the
// Assets and Keys phases.
type TopoheightRange struct {
	Min uint64
	Max uint64
}

// ChainView is the read capability a server responder needs. It must be
// safe to call concurrently with new blocks arriving. The responder reads
// StableAnchor() once per session; every other method is called with the
// topoheights named in the client's request, which the responder does not
// check against that pinned anchor.
type ChainView interface {
	// FindCommonAncestor walks candidates newest-to-oldest and returns the
	// first one present in the local chain at the claimed topoheight, or
	// ok=false if none matched.
	FindCommonAncestor(candidates []chain.BlockId) (chain.CommonPoint, bool)

	// StableAnchor returns the chain's current stable (topoheight, height,
	// hash, merkle hash).
	StableAnchor() (topoheight uint64, height uint64, hash chain.Hash, merkleHash chain.Hash)

	// BlockHashesIn returns a page of (block hash, merkle root) pairs for
	// topoheights in rng starting after page, plus whether more pages
	// remain. Cursor issuance is the Server's job, not the view's.
	BlockHashesIn(rng TopoheightRange, page *uint64, limit int) (pairs []MerklePair, hasMore bool)

	// AssetsIn returns a page of assets registered in rng, plus whether
	// more pages remain.
	AssetsIn(rng TopoheightRange, page *uint64, limit int) (assets []chain.AssetWithData, hasMore bool)

	// KeysIn returns a page of accounts registered in rng, plus whether
	// more pages remain.
	KeysIn(rng TopoheightRange, page *uint64, limit int) (accounts []chain.PublicKey, hasMore bool)

	// BalanceAt returns the account's balance for asset as of topoheight,
	// or ok=false if the account has no balance for that asset at or
	// before topoheight.
	BalanceAt(account chain.PublicKey, asset chain.Hash, topoheight uint64) (chain.AccountBalance, bool)

	// NonceAt returns the account's latest nonce at or before topoheight.
	// Accounts never seen return 0 (see DESIGN.md for the policy record).
	NonceAt(account chain.PublicKey, topoheight uint64) uint64

	// TopKMetadata returns the topmost k blocks' metadata at or before
	// topoheight, ordered by descending topoheight.
	TopKMetadata(topoheight uint64, k int) []chain.BlockMetadata
}

// LocalTipSketch produces the BlockId window a client offers in its
// initial ChainInfo request.
type LocalTipSketch interface {
	// RecentBlockIds returns up to max BlockIds, newest first.
	RecentBlockIds(max int) []chain.BlockId
}

// LogSpacedBlockIDs builds a ChainInfo candidate window by walking back
// from the local tip with doubling gaps (1, 2, 4, 8, ...), so the window
// covers a long history in a small, bounded number of samples. This is
// the recommended-but-not-mandated sampling strategy; any uniqueness-
// respecting sampling within the cap is wire-compliant.
func LogSpacedBlockIDs(tipTopoheight uint64, hashAt func(topoheight uint64) (chain.Hash, bool), max int) []chain.BlockId {
	ids := make([]chain.BlockId, 0, max)
	gap := uint64(1)
	topo := tipTopoheight
	for len(ids) < max {
		hash, ok := hashAt(topo)
		if ok {
			ids = append(ids, chain.BlockId{Topoheight: topo, Hash: hash})
		}
		if topo < gap {
			break
		}
		topo -= gap
		gap *= 2
	}
	return ids
}
