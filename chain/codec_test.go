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

package chain_test

import (
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/require"

	"github.com/xelis-project/bootstrapsync/chain"
	"github.com/xelis-project/bootstrapsync/wire"
)

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

func TestHashRoundTrip(t *testing.T) {
	h := chain.HashBytes([]byte("bootstrap-sync-fixture"))

	w := wire.NewWriter()
	h.Encode(w)
	require.Equal(t, h.Size(), w.Len())

	got, err := chain.DecodeHash(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.True(t, h.Equal(got))
	require.NotEmpty(t, h.String())
}

func TestPublicKeyRoundTrip(t *testing.T) {
	k := canonicalPubKey(1)

	w := wire.NewWriter()
	k.Encode(w)
	got, err := chain.DecodePublicKey(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, k, got)
}

func TestPublicKeyLessIsTotalOrder(t *testing.T) {
	a := chain.PublicKey{0x01}
	b := chain.PublicKey{0x02}
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
}

func TestBlockIdRoundTrip(t *testing.T) {
	id := chain.BlockId{Topoheight: 42, Hash: chain.HashBytes([]byte("block-42"))}

	w := wire.NewWriter()
	id.Encode(w)
	require.Equal(t, id.Size(), w.Len())

	got, err := chain.DecodeBlockId(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, id, got)
	require.Equal(t, id.Hash, id.Key())
}

func TestCommonPointRoundTrip(t *testing.T) {
	cp := chain.CommonPoint{Hash: chain.HashBytes([]byte("common")), Topoheight: 7}

	w := wire.NewWriter()
	cp.Encode(w)
	got, err := chain.DecodeCommonPoint(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, cp, got)
}

func TestAssetWithDataRoundTripWithOwner(t *testing.T) {
	owner := canonicalPubKey(9)
	asset := chain.AssetWithData{
		Hash:                   chain.HashBytes([]byte("asset-1")),
		Decimals:               8,
		Owner:                  &owner,
		RegistrationTopoheight: 100,
	}

	w := wire.NewWriter()
	asset.Encode(w)
	require.Equal(t, asset.Size(), w.Len())

	got, err := chain.DecodeAssetWithData(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, asset.Hash, got.Hash)
	require.Equal(t, asset.Decimals, got.Decimals)
	require.NotNil(t, got.Owner)
	require.Equal(t, owner, *got.Owner)
	require.Equal(t, asset.RegistrationTopoheight, got.RegistrationTopoheight)
}

func TestAssetWithDataRoundTripWithoutOwner(t *testing.T) {
	asset := chain.AssetWithData{
		Hash:                   chain.HashBytes([]byte("asset-2")),
		Decimals:               0,
		Owner:                  nil,
		RegistrationTopoheight: 0,
	}

	w := wire.NewWriter()
	asset.Encode(w)
	require.Equal(t, asset.Size(), w.Len())

	got, err := chain.DecodeAssetWithData(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Nil(t, got.Owner)
}

func TestAccountBalanceRoundTripWithOutput(t *testing.T) {
	bal := chain.AccountBalance{
		InputBalance:  chain.CiphertextCache{1, 2, 3},
		OutputBalance: chain.CiphertextCache{4, 5},
		Type:          chain.BalanceTypeBoth,
	}

	w := wire.NewWriter()
	bal.Encode(w)
	require.Equal(t, bal.Size(), w.Len())

	got, err := chain.DecodeAccountBalance(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, bal, got)
}

func TestAccountBalanceRoundTripWithoutOutput(t *testing.T) {
	bal := chain.AccountBalance{
		InputBalance: chain.CiphertextCache{9},
		Type:         chain.BalanceTypeInput,
	}

	w := wire.NewWriter()
	bal.Encode(w)

	got, err := chain.DecodeAccountBalance(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Nil(t, got.OutputBalance)
	require.Equal(t, chain.BalanceTypeInput, got.Type)
}

func TestDecodeBalanceTypeRejectsUnknownTag(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(3)
	_, err := chain.DecodeBalanceType(wire.NewReader(w.Bytes()))
	require.Error(t, err)
}

func TestDifficultyRoundTrip(t *testing.T) {
	d := chain.NewDifficulty(123456789)

	w := wire.NewWriter()
	d.Encode(w)
	got, err := chain.DecodeDifficulty(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.True(t, d.Equal(got.VarUint))
}

func TestCumulativeDifficultyRoundTripLargeValue(t *testing.T) {
	cd := chain.NewCumulativeDifficulty(0)
	big := cd.Big()
	big.SetString("123456789012345678901234567890", 10)
	cd = chain.CumulativeDifficulty{VarUint: wire.NewVarUintFromBigInt(big)}

	w := wire.NewWriter()
	cd.Encode(w)
	got, err := chain.DecodeCumulativeDifficulty(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.True(t, cd.Equal(got.VarUint))
}

func TestBlockMetadataRoundTrip(t *testing.T) {
	bm := chain.BlockMetadata{
		Hash:                 chain.HashBytes([]byte("block-meta-1")),
		Supply:               1_000_000,
		Reward:               50,
		Difficulty:           chain.NewDifficulty(9000),
		CumulativeDifficulty: chain.NewCumulativeDifficulty(500000),
		P:                    wire.NewVarUint(2),
		MerkleHash:           chain.HashBytes([]byte("merkle-1")),
	}

	w := wire.NewWriter()
	bm.Encode(w)
	require.Equal(t, bm.Size(), w.Len())

	got, err := chain.DecodeBlockMetadata(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, bm.Hash, got.Hash)
	require.Equal(t, bm.Supply, got.Supply)
	require.Equal(t, bm.Reward, got.Reward)
	require.True(t, bm.Difficulty.Equal(got.Difficulty.VarUint))
	require.True(t, bm.CumulativeDifficulty.Equal(got.CumulativeDifficulty.VarUint))
	require.True(t, bm.P.Equal(got.P))
	require.Equal(t, bm.MerkleHash, got.MerkleHash)
	require.Equal(t, bm.Hash, bm.Key())
}

func TestVarUintRejectsNonMinimalEncoding(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU8(2)
	w.WriteBytes([]byte{0x00, 0x05})
	_, err := wire.DecodeVarUint(wire.NewReader(w.Bytes()))
	require.Error(t, err)
}

func TestVarUintZeroRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	z := wire.NewVarUint(0)
	z.Encode(w)
	require.Equal(t, []byte{0}, w.Bytes())

	got, err := wire.DecodeVarUint(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.True(t, z.Equal(got))
}
