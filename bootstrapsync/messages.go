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
	"github.com/xelis-project/bootstrapsync/wire"
)

// Request wire tags. Part of the wire ABI: never reassign these.
const (
	requestTagChainInfo      uint8 = 0
	requestTagMerkles        uint8 = 1
	requestTagAssets         uint8 = 2
	requestTagKeys           uint8 = 3
	requestTagBalances       uint8 = 4
	requestTagNonces         uint8 = 5
	requestTagBlocksMetadata uint8 = 6
)

// Response wire tags. These are deliberately NOT a renumbering of the
// request tags: the source's response stream never allocated a distinct
// tag for the Merkles phase, reusing the Assets response's "set + page"
// shape instead. Which concrete type tag 1 decodes to is resolved by the
// expected phase the client is in, not by the byte alone. This is
// preserved verbatim rather than "fixed" because the tag numbers are part
// of the wire ABI.
const (
	responseTagChainInfo      uint8 = 0
	responseTagSetAndPage     uint8 = 1 // Assets, or Merkles when expected == StepBlockHashes
	responseTagKeys           uint8 = 2
	responseTagBalances       uint8 = 3
	responseTagNonces         uint8 = 4
	responseTagBlocksMetadata uint8 = 5
)

func decodeU64(r *wire.Reader) (uint64, error) { return r.ReadU64() }

func encodeU64(w *wire.Writer, v uint64) { w.WriteU64(v) }

func sizeOfPage(page *uint64) int {
	return wire.SizeOption(page != nil, 8)
}

// StepRequest is implemented by all seven request variants.
type StepRequest interface {
	Kind() StepKind
	Size() int
	Encode(w *wire.Writer)
}

// ChainInfoRequest opens a session: the client offers a window of recent
// local BlockIds for the server to intersect against its own chain.
type ChainInfoRequest struct {
	BlockIds []chain.BlockId
}

func (r ChainInfoRequest) Kind() StepKind { return StepChainInfo }

func (r ChainInfoRequest) Size() int {
	size := 1
	for _, id := range r.BlockIds {
		size += id.Size()
	}
	return size
}

func (r ChainInfoRequest) Encode(w *wire.Writer) {
	wire.EncodeOrderedSetU8(w, r.BlockIds, func(w *wire.Writer, id chain.BlockId) { id.Encode(w) })
}

// MerklesRequest asks for block-hash/merkle-root pairs in
// (CommonTopoheight, TargetTopoheight], paginated.
type MerklesRequest struct {
	CommonTopoheight uint64
	TargetTopoheight uint64
	Page             *uint64
}

func (r MerklesRequest) Kind() StepKind { return StepBlockHashes }

func (r MerklesRequest) Size() int { return 8 + 8 + sizeOfPage(r.Page) }

func (r MerklesRequest) Encode(w *wire.Writer) {
	w.WriteU64(r.CommonTopoheight)
	w.WriteU64(r.TargetTopoheight)
	wire.EncodeOption(w, r.Page, encodeU64)
}

// AssetsRequest asks for assets registered in (MinTopoheight,
// MaxTopoheight], paginated.
type AssetsRequest struct {
	MinTopoheight uint64
	MaxTopoheight uint64
	Page          *uint64
}

func (r AssetsRequest) Kind() StepKind { return StepAssets }

func (r AssetsRequest) Size() int { return 8 + 8 + sizeOfPage(r.Page) }

func (r AssetsRequest) Encode(w *wire.Writer) {
	w.WriteU64(r.MinTopoheight)
	w.WriteU64(r.MaxTopoheight)
	wire.EncodeOption(w, r.Page, encodeU64)
}

// KeysRequest asks for accounts registered in (MinTopoheight,
// MaxTopoheight], paginated.
type KeysRequest struct {
	MinTopoheight uint64
	MaxTopoheight uint64
	Page          *uint64
}

func (r KeysRequest) Kind() StepKind { return StepKeys }

func (r KeysRequest) Size() int { return 8 + 8 + sizeOfPage(r.Page) }

func (r KeysRequest) Encode(w *wire.Writer) {
	w.WriteU64(r.MinTopoheight)
	w.WriteU64(r.MaxTopoheight)
	wire.EncodeOption(w, r.Page, encodeU64)
}

// BalancesRequest asks, for one asset, for the balance of each account in
// Accounts as of MaxTopoheight.
type BalancesRequest struct {
	MaxTopoheight uint64
	Asset         chain.Hash
	Accounts      []chain.PublicKey
}

func (r BalancesRequest) Kind() StepKind { return StepBalances }

func (r BalancesRequest) Size() int {
	size := 8 + r.Asset.Size() + 4
	for range r.Accounts {
		size += chain.PublicKeySize
	}
	return size
}

func (r BalancesRequest) Encode(w *wire.Writer) {
	w.WriteU64(r.MaxTopoheight)
	r.Asset.Encode(w)
	wire.EncodeOrderedSetU32(w, r.Accounts, func(w *wire.Writer, k chain.PublicKey) { k.Encode(w) })
}

// NoncesRequest asks for the latest nonce of each account in Accounts as
// of MaxTopoheight.
type NoncesRequest struct {
	MaxTopoheight uint64
	Accounts      []chain.PublicKey
}

func (r NoncesRequest) Kind() StepKind { return StepNonces }

func (r NoncesRequest) Size() int {
	size := 8 + 4
	for range r.Accounts {
		size += chain.PublicKeySize
	}
	return size
}

func (r NoncesRequest) Encode(w *wire.Writer) {
	w.WriteU64(r.MaxTopoheight)
	wire.EncodeOrderedSetU32(w, r.Accounts, func(w *wire.Writer, k chain.PublicKey) { k.Encode(w) })
}

// BlocksMetadataRequest asks for the topmost window of block metadata
// starting at StartTopoheight (the pinned stable topoheight).
type BlocksMetadataRequest struct {
	StartTopoheight uint64
}

func (r BlocksMetadataRequest) Kind() StepKind { return StepBlocksMetadata }

func (r BlocksMetadataRequest) Size() int { return 8 }

func (r BlocksMetadataRequest) Encode(w *wire.Writer) {
	w.WriteU64(r.StartTopoheight)
}

// EncodeStepRequest frames a request with its tag byte and returns the raw
// bytes ready to hand to the protocol layer.
func EncodeStepRequest(req StepRequest) []byte {
	w := wire.NewWriter()
	w.WriteU8(requestTag(req.Kind()))
	req.Encode(w)
	return w.Bytes()
}

func requestTag(k StepKind) uint8 {
	switch k {
	case StepChainInfo:
		return requestTagChainInfo
	case StepBlockHashes:
		return requestTagMerkles
	case StepAssets:
		return requestTagAssets
	case StepKeys:
		return requestTagKeys
	case StepBalances:
		return requestTagBalances
	case StepNonces:
		return requestTagNonces
	default:
		return requestTagBlocksMetadata
	}
}

// DecodeStepRequest reads a tagged request, applying the structural bounds
// inline: ChainInfo count in [1, cfg.ChainSyncRequestMaxBlocks], page
// cursors >= 1, min <= max on Assets and Keys ranges (Merkles ranges are
// not checked), and duplicate rejection within the
// ordered-unique sets.
func DecodeStepRequest(r *wire.Reader, cfg Config) (StepRequest, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case requestTagChainInfo:
		ids, err := wire.DecodeOrderedSetU8(
			r, 1, int(cfg.ChainSyncRequestMaxBlocks),
			chain.DecodeBlockId,
			func(id chain.BlockId) chain.Hash { return id.Key() },
		)
		if err != nil {
			return nil, err
		}
		return ChainInfoRequest{BlockIds: ids}, nil
	case requestTagMerkles:
		return decodeRangeRequest(r, StepBlockHashes)
	case requestTagAssets:
		return decodeRangeRequest(r, StepAssets)
	case requestTagKeys:
		return decodeRangeRequest(r, StepKeys)
	case requestTagBalances:
		maxTopo, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		asset, err := chain.DecodeHash(r)
		if err != nil {
			return nil, err
		}
		accounts, err := decodeAccountSet(r, cfg)
		if err != nil {
			return nil, err
		}
		return BalancesRequest{MaxTopoheight: maxTopo, Asset: asset, Accounts: accounts}, nil
	case requestTagNonces:
		maxTopo, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		accounts, err := decodeAccountSet(r, cfg)
		if err != nil {
			return nil, err
		}
		return NoncesRequest{MaxTopoheight: maxTopo, Accounts: accounts}, nil
	case requestTagBlocksMetadata:
		startTopo, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return BlocksMetadataRequest{StartTopoheight: startTopo}, nil
	default:
		return nil, framingErrorf("unknown request tag %d", tag)
	}
}

func decodeAccountSet(r *wire.Reader, cfg Config) ([]chain.PublicKey, error) {
	return wire.DecodeOrderedSetU32(
		r, int(cfg.MaxItemsPerPage),
		chain.DecodePublicKey,
		func(k chain.PublicKey) chain.PublicKey { return k },
	)
}

func decodePage(r *wire.Reader) (*uint64, error) {
	page, err := wire.DecodeOption(r, decodeU64)
	if err != nil {
		return nil, err
	}
	if page != nil && *page == 0 {
		return nil, boundsErrorf("page cursor must be >= 1")
	}
	return page, nil
}

func decodeRangeRequest(r *wire.Reader, kind StepKind) (StepRequest, error) {
	minTopo, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	maxTopo, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	page, err := decodePage(r)
	if err != nil {
		return nil, err
	}
	if kind != StepBlockHashes && minTopo > maxTopo {
		return nil, boundsErrorf("reversed topoheight range: min %d > max %d", minTopo, maxTopo)
	}
	switch kind {
	case StepBlockHashes:
		return MerklesRequest{CommonTopoheight: minTopo, TargetTopoheight: maxTopo, Page: page}, nil
	case StepAssets:
		return AssetsRequest{MinTopoheight: minTopo, MaxTopoheight: maxTopo, Page: page}, nil
	default:
		return KeysRequest{MinTopoheight: minTopo, MaxTopoheight: maxTopo, Page: page}, nil
	}
}

// StepResponse is implemented by all response variants.
type StepResponse interface {
	Kind() StepKind
	Encode(w *wire.Writer)
}

// ChainInfoResponse answers the ChainInfo request: the agreed common point
// (or its absence) and the server's current stable anchor.
type ChainInfoResponse struct {
	CommonPoint      *chain.CommonPoint
	StableTopoheight uint64
	StableHeight     uint64
	StableHash       chain.Hash
	StableMerkleHash chain.Hash
}

func (r ChainInfoResponse) Kind() StepKind { return StepChainInfo }

func (r ChainInfoResponse) Encode(w *wire.Writer) {
	wire.EncodeOption(w, r.CommonPoint, func(w *wire.Writer, cp chain.CommonPoint) { cp.Encode(w) })
	w.WriteU64(r.StableTopoheight)
	w.WriteU64(r.StableHeight)
	r.StableHash.Encode(w)
	r.StableMerkleHash.Encode(w)
}

// MerklePair associates a block hash with its merkle root.
type MerklePair struct {
	BlockHash  chain.Hash
	MerkleHash chain.Hash
}

func decodeMerklePair(r *wire.Reader) (MerklePair, error) {
	blockHash, err := chain.DecodeHash(r)
	if err != nil {
		return MerklePair{}, err
	}
	merkleHash, err := chain.DecodeHash(r)
	if err != nil {
		return MerklePair{}, err
	}
	return MerklePair{BlockHash: blockHash, MerkleHash: merkleHash}, nil
}

func encodeMerklePair(w *wire.Writer, p MerklePair) {
	p.BlockHash.Encode(w)
	p.MerkleHash.Encode(w)
}

// MerklesResponse answers a BlockHashes-phase request with a page of
// (block hash, merkle root) pairs.
type MerklesResponse struct {
	Pairs []MerklePair
	Page  *uint64
}

func (r MerklesResponse) Kind() StepKind { return StepBlockHashes }

func (r MerklesResponse) Encode(w *wire.Writer) {
	wire.EncodeSequenceU32(w, r.Pairs, encodeMerklePair)
	wire.EncodeOption(w, r.Page, encodeU64)
}

// AssetsResponse answers an Assets-phase request with a page of
// AssetWithData.
type AssetsResponse struct {
	Assets []chain.AssetWithData
	Page   *uint64
}

func (r AssetsResponse) Kind() StepKind { return StepAssets }

func (r AssetsResponse) Encode(w *wire.Writer) {
	wire.EncodeOrderedSetU32(w, r.Assets, func(w *wire.Writer, a chain.AssetWithData) { a.Encode(w) })
	wire.EncodeOption(w, r.Page, encodeU64)
}

// KeysResponse answers a Keys-phase request with a page of accounts.
type KeysResponse struct {
	Accounts []chain.PublicKey
	Page     *uint64
}

func (r KeysResponse) Kind() StepKind { return StepKeys }

func (r KeysResponse) Encode(w *wire.Writer) {
	wire.EncodeOrderedSetU32(w, r.Accounts, func(w *wire.Writer, k chain.PublicKey) { k.Encode(w) })
	wire.EncodeOption(w, r.Page, encodeU64)
}

// BalancesResponse answers a Balances request positionally: one optional
// AccountBalance per requested account, nil marking "no balance for this
// asset".
type BalancesResponse struct {
	Balances []*chain.AccountBalance
}

func (r BalancesResponse) Kind() StepKind { return StepBalances }

func (r BalancesResponse) Encode(w *wire.Writer) {
	wire.EncodeSequenceU32(w, r.Balances, func(w *wire.Writer, b *chain.AccountBalance) {
		wire.EncodeOption(w, b, func(w *wire.Writer, v chain.AccountBalance) { v.Encode(w) })
	})
}

// NoncesResponse answers a Nonces request positionally: one nonce per
// requested account.
type NoncesResponse struct {
	Nonces []uint64
}

func (r NoncesResponse) Kind() StepKind { return StepNonces }

func (r NoncesResponse) Encode(w *wire.Writer) {
	wire.EncodeSequenceU32(w, r.Nonces, encodeU64)
}

// BlocksMetadataResponse answers the final phase with the topmost window
// of block metadata.
type BlocksMetadataResponse struct {
	Metadata []chain.BlockMetadata
}

func (r BlocksMetadataResponse) Kind() StepKind { return StepBlocksMetadata }

func (r BlocksMetadataResponse) Encode(w *wire.Writer) {
	wire.EncodeOrderedSetU32(w, r.Metadata, func(w *wire.Writer, m chain.BlockMetadata) { m.Encode(w) })
}

// EncodeStepResponse frames a response with its tag byte.
func EncodeStepResponse(resp StepResponse) []byte {
	w := wire.NewWriter()
	w.WriteU8(responseTag(resp.Kind()))
	resp.Encode(w)
	return w.Bytes()
}

func responseTag(k StepKind) uint8 {
	switch k {
	case StepChainInfo:
		return responseTagChainInfo
	case StepBlockHashes, StepAssets:
		return responseTagSetAndPage
	case StepKeys:
		return responseTagKeys
	case StepBalances:
		return responseTagBalances
	case StepNonces:
		return responseTagNonces
	default:
		return responseTagBlocksMetadata
	}
}

// DecodeStepResponse reads a tagged response. expected is the phase the
// client's state machine is currently in; it both disambiguates tag 1
// (Assets vs. Merkles share a wire shape, see the tag table comment above)
// and enforces that the response tag matches the current phase for every
// other tag.
func DecodeStepResponse(r *wire.Reader, expected StepKind, cfg Config) (StepResponse, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case responseTagChainInfo:
		if expected != StepChainInfo {
			return nil, ErrProtocolMismatch
		}
		return decodeChainInfoResponse(r)
	case responseTagSetAndPage:
		switch expected {
		case StepBlockHashes:
			return decodeMerklesResponse(r, cfg)
		case StepAssets:
			return decodeAssetsResponse(r, cfg)
		default:
			return nil, ErrProtocolMismatch
		}
	case responseTagKeys:
		if expected != StepKeys {
			return nil, ErrProtocolMismatch
		}
		return decodeKeysResponse(r, cfg)
	case responseTagBalances:
		if expected != StepBalances {
			return nil, ErrProtocolMismatch
		}
		return decodeBalancesResponse(r, cfg)
	case responseTagNonces:
		if expected != StepNonces {
			return nil, ErrProtocolMismatch
		}
		return decodeNoncesResponse(r, cfg)
	case responseTagBlocksMetadata:
		if expected != StepBlocksMetadata {
			return nil, ErrProtocolMismatch
		}
		return decodeBlocksMetadataResponse(r, cfg)
	default:
		return nil, framingErrorf("unknown response tag %d", tag)
	}
}

func decodeChainInfoResponse(r *wire.Reader) (StepResponse, error) {
	cp, err := wire.DecodeOption(r, chain.DecodeCommonPoint)
	if err != nil {
		return nil, err
	}
	stableTopo, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	stableHeight, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	stableHash, err := chain.DecodeHash(r)
	if err != nil {
		return nil, err
	}
	stableMerkleHash, err := chain.DecodeHash(r)
	if err != nil {
		return nil, err
	}
	return ChainInfoResponse{
		CommonPoint:      cp,
		StableTopoheight: stableTopo,
		StableHeight:     stableHeight,
		StableHash:       stableHash,
		StableMerkleHash: stableMerkleHash,
	}, nil
}

func decodeMerklesResponse(r *wire.Reader, cfg Config) (StepResponse, error) {
	pairs, err := wire.DecodeSequenceU32(r, int(cfg.MaxItemsPerPage), decodeMerklePair)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(r)
	if err != nil {
		return nil, err
	}
	return MerklesResponse{Pairs: pairs, Page: page}, nil
}

func decodeAssetsResponse(r *wire.Reader, cfg Config) (StepResponse, error) {
	assets, err := wire.DecodeOrderedSetU32(
		r, int(cfg.MaxItemsPerPage),
		chain.DecodeAssetWithData,
		func(a chain.AssetWithData) chain.Hash { return a.Key() },
	)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(r)
	if err != nil {
		return nil, err
	}
	return AssetsResponse{Assets: assets, Page: page}, nil
}

func decodeKeysResponse(r *wire.Reader, cfg Config) (StepResponse, error) {
	accounts, err := decodeAccountSet(r, cfg)
	if err != nil {
		return nil, err
	}
	page, err := decodePage(r)
	if err != nil {
		return nil, err
	}
	return KeysResponse{Accounts: accounts, Page: page}, nil
}

func decodeBalancesResponse(r *wire.Reader, cfg Config) (StepResponse, error) {
	balances, err := wire.DecodeSequenceU32(
		r, int(cfg.MaxItemsPerPage),
		func(r *wire.Reader) (*chain.AccountBalance, error) {
			return wire.DecodeOption(r, chain.DecodeAccountBalance)
		},
	)
	if err != nil {
		return nil, err
	}
	return BalancesResponse{Balances: balances}, nil
}

func decodeNoncesResponse(r *wire.Reader, cfg Config) (StepResponse, error) {
	nonces, err := wire.DecodeSequenceU32(r, int(cfg.MaxItemsPerPage), decodeU64)
	if err != nil {
		return nil, err
	}
	return NoncesResponse{Nonces: nonces}, nil
}

func decodeBlocksMetadataResponse(r *wire.Reader, cfg Config) (StepResponse, error) {
	metadata, err := wire.DecodeOrderedSetU32(
		r, int(cfg.MaxItemsPerPage),
		chain.DecodeBlockMetadata,
		func(m chain.BlockMetadata) chain.Hash { return m.Key() },
	)
	if err != nil {
		return nil, err
	}
	return BlocksMetadataResponse{Metadata: metadata}, nil
}
