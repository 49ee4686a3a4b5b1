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
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/require"

	"github.com/xelis-project/bootstrapsync/chain"
	"github.com/xelis-project/bootstrapsync/wire"
)

func testCfg() Config {
	return NewConfig(WithChainSyncRequestMaxBlocks(16))
}

func u64ptr(v uint64) *uint64 { return &v }

// canonicalPubKey derives a distinct, canonical curve point for seed so it
// survives PublicKey.Validate() on decode.
func canonicalPubKey(seed byte) chain.PublicKey {
	scalarBytes := make([]byte, 32)
	scalarBytes[0] = seed
	s, err := edwards25519.NewScalar().SetCanonicalBytes(scalarBytes)
	if err != nil {
		panic(err)
	}
	point := new(edwards25519.Point).ScalarBaseMult(s)
	var k chain.PublicKey
	copy(k[:], point.Bytes())
	return k
}

func TestStepRequestRoundTrip(t *testing.T) {
	cfg := testCfg()

	cases := []struct {
		name string
		req  StepRequest
	}{
		{"ChainInfo", ChainInfoRequest{BlockIds: []chain.BlockId{
			{Topoheight: 1, Hash: chain.HashBytes([]byte("a"))},
			{Topoheight: 2, Hash: chain.HashBytes([]byte("b"))},
		}}},
		{"Merkles", MerklesRequest{CommonTopoheight: 1, TargetTopoheight: 100, Page: u64ptr(3)}},
		{"MerklesNoPage", MerklesRequest{CommonTopoheight: 1, TargetTopoheight: 100}},
		{"Assets", AssetsRequest{MinTopoheight: 0, MaxTopoheight: 100}},
		{"Keys", KeysRequest{MinTopoheight: 0, MaxTopoheight: 100, Page: u64ptr(1)}},
		{"Balances", BalancesRequest{
			MaxTopoheight: 100,
			Asset:         chain.HashBytes([]byte("asset")),
			Accounts:      []chain.PublicKey{canonicalPubKey(1), canonicalPubKey(2)},
		}},
		{"Nonces", NoncesRequest{MaxTopoheight: 100, Accounts: []chain.PublicKey{canonicalPubKey(1)}}},
		{"BlocksMetadata", BlocksMetadataRequest{StartTopoheight: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			framed := EncodeStepRequest(tc.req)
			r := wire.NewReader(framed)
			got, err := DecodeStepRequest(r, cfg)
			require.NoError(t, err)
			require.Equal(t, tc.req.Kind(), got.Kind())
			require.Equal(t, 0, r.Remaining())
		})
	}
}

func TestStepResponseRoundTrip(t *testing.T) {
	cfg := testCfg()
	cp := chain.CommonPoint{Hash: chain.HashBytes([]byte("common")), Topoheight: 5}

	cases := []struct {
		name     string
		resp     StepResponse
		expected StepKind
	}{
		{"ChainInfo", ChainInfoResponse{
			CommonPoint:      &cp,
			StableTopoheight: 100,
			StableHeight:     90,
			StableHash:       chain.HashBytes([]byte("stable")),
			StableMerkleHash: chain.HashBytes([]byte("merkle")),
		}, StepChainInfo},
		{"Merkles", MerklesResponse{
			Pairs: []MerklePair{{BlockHash: chain.HashBytes([]byte("b1")), MerkleHash: chain.HashBytes([]byte("m1"))}},
			Page:  u64ptr(2),
		}, StepBlockHashes},
		{"Assets", AssetsResponse{
			Assets: []chain.AssetWithData{{Hash: chain.HashBytes([]byte("asset1")), Decimals: 8, RegistrationTopoheight: 10}},
		}, StepAssets},
		{"Keys", KeysResponse{Accounts: []chain.PublicKey{canonicalPubKey(1), canonicalPubKey(2)}}, StepKeys},
		{"Balances", BalancesResponse{Balances: []*chain.AccountBalance{
			{InputBalance: chain.CiphertextCache{1}, Type: chain.BalanceTypeInput},
			nil,
		}}, StepBalances},
		{"Nonces", NoncesResponse{Nonces: []uint64{1, 2, 3}}, StepNonces},
		{"BlocksMetadata", BlocksMetadataResponse{Metadata: []chain.BlockMetadata{
			{Hash: chain.HashBytes([]byte("blk1")), Supply: 1, Reward: 1, Difficulty: chain.NewDifficulty(1), CumulativeDifficulty: chain.NewCumulativeDifficulty(1), P: wire.NewVarUint(1), MerkleHash: chain.HashBytes([]byte("mh1"))},
		}}, StepBlocksMetadata},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			framed := EncodeStepResponse(tc.resp)
			r := wire.NewReader(framed)
			got, err := DecodeStepResponse(r, tc.expected, cfg)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got.Kind())
			require.Equal(t, 0, r.Remaining())
		})
	}
}

func TestDecodeChainInfoRequestRejectsZeroCount(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(requestTagChainInfo)
	w.WriteU8(0)
	_, err := DecodeStepRequest(wire.NewReader(w.Bytes()), testCfg())
	require.Error(t, err)
}

func TestDecodeChainInfoRequestRejectsOverCap(t *testing.T) {
	cfg := testCfg()
	ids := make([]chain.BlockId, int(cfg.ChainSyncRequestMaxBlocks)+1)
	for i := range ids {
		ids[i] = chain.BlockId{Topoheight: uint64(i), Hash: chain.HashBytes([]byte{byte(i)})}
	}
	w := wire.NewWriter()
	w.WriteU8(requestTagChainInfo)
	w.WriteU8(uint8(len(ids)))
	for _, id := range ids {
		id.Encode(w)
	}
	_, err := DecodeStepRequest(wire.NewReader(w.Bytes()), cfg)
	require.Error(t, err)
}

func TestDecodePageCursorZeroRejected(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(requestTagAssets)
	w.WriteU64(0)
	w.WriteU64(100)
	w.WriteOptionPresent()
	w.WriteU64(0)
	_, err := DecodeStepRequest(wire.NewReader(w.Bytes()), testCfg())
	require.Error(t, err)
}

func TestDecodeAssetsRequestRejectsReversedRange(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(requestTagAssets)
	w.WriteU64(100)
	w.WriteU64(50)
	w.WriteOptionAbsent()
	_, err := DecodeStepRequest(wire.NewReader(w.Bytes()), testCfg())
	require.Error(t, err)
}

func TestDecodeOrderedSetRejectsDuplicateAccounts(t *testing.T) {
	pk := canonicalPubKey(1)
	w := wire.NewWriter()
	w.WriteU8(requestTagNonces)
	w.WriteU64(100)
	wire.EncodeOrderedSetU32(w, []chain.PublicKey{pk, pk}, func(w *wire.Writer, k chain.PublicKey) { k.Encode(w) })
	_, err := DecodeStepRequest(wire.NewReader(w.Bytes()), testCfg())
	require.Error(t, err)
}

func TestDecodeStepRequestRejectsUnknownTag(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(99)
	_, err := DecodeStepRequest(wire.NewReader(w.Bytes()), testCfg())
	require.Error(t, err)
}

func TestDecodeStepResponseRejectsUnknownTag(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(99)
	_, err := DecodeStepResponse(wire.NewReader(w.Bytes()), StepChainInfo, testCfg())
	require.Error(t, err)
}

func TestDecodeStepResponseRejectsPhaseMismatch(t *testing.T) {
	resp := KeysResponse{Accounts: []chain.PublicKey{{0x01}}}
	framed := EncodeStepResponse(resp)
	_, err := DecodeStepResponse(wire.NewReader(framed), StepAssets, testCfg())
	require.ErrorIs(t, err, ErrProtocolMismatch)
}

func TestMerklesResponseSharesTagWithAssetsResponse(t *testing.T) {
	assetsResp := AssetsResponse{Assets: []chain.AssetWithData{{Hash: chain.HashBytes([]byte("x"))}}}
	merklesResp := MerklesResponse{Pairs: []MerklePair{{BlockHash: chain.HashBytes([]byte("x"))}}}
	require.Equal(t, responseTag(assetsResp.Kind()), responseTag(merklesResp.Kind()))

	framed := EncodeStepResponse(merklesResp)
	decoded, err := DecodeStepResponse(wire.NewReader(framed), StepBlockHashes, testCfg())
	require.NoError(t, err)
	_, ok := decoded.(MerklesResponse)
	require.True(t, ok)
}
