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
	"context"
	"fmt"
	"sync"

	"github.com/xelis-project/bootstrapsync/chain"
	"github.com/xelis-project/bootstrapsync/muxer"
	"github.com/xelis-project/bootstrapsync/protocol"
	"github.com/xelis-project/bootstrapsync/wire"
)

// requestMessage adapts a StepRequest to protocol.Message.
type requestMessage struct{ req StepRequest }

func (m requestMessage) MessageType() uint8 { return requestTag(m.req.Kind()) }
func (m requestMessage) Encode() []byte     { return EncodeStepRequest(m.req) }

// responseMessage adapts a StepResponse to protocol.Message.
type responseMessage struct{ resp StepResponse }

func (m responseMessage) MessageType() uint8 { return responseTag(m.resp.Kind()) }
func (m responseMessage) Encode() []byte     { return EncodeStepResponse(m.resp) }

// messageState maps a decoded requestMessage or responseMessage to the
// phase it addresses, for protocol.Protocol's inbound transition check.
func messageState(msg protocol.Message) (protocol.State, bool) {
	switch m := msg.(type) {
	case requestMessage:
		return stateFor(m.req.Kind()), true
	case responseMessage:
		return stateFor(m.resp.Kind()), true
	default:
		return protocol.State{}, false
	}
}

// Client drives a single peer through the bootstrap sync phases. The
// underlying protocol is strictly request/response with no pipelining:
// Client never has more than one outstanding request in flight.
type Client struct {
	peerID string
	cfg    Config
	proto  *protocol.Protocol

	mu       sync.Mutex
	expected StepKind

	respCh chan StepResponse
	errCh  chan error
}

// NewClient registers the bootstrap sync protocol on m and returns a
// driver for the given peer.
func NewClient(peerID string, m *muxer.Muxer, cfg Config) *Client {
	c := &Client{
		peerID: peerID,
		cfg:    cfg,
		respCh: make(chan StepResponse, 1),
		errCh:  make(chan error, 4),
	}
	c.proto = protocol.New(protocol.ProtocolConfig{
		Name:                 ProtocolName,
		ProtocolId:           ProtocolId,
		Muxer:                m,
		ErrorChan:            c.errCh,
		Logger:               cfg.logger(),
		MessageHandlerFunc:   c.handleMessage,
		MessageFromBytesFunc: c.decodeMessage,
		StateMap:             StateMap(),
		MessageStateFunc:     messageState,
	})
	c.proto.Logger().Debug("bootstrap sync client ready", "peer", peerID, "states", len(StateMap()))
	return c
}

// Stop releases the underlying protocol registration.
func (c *Client) Stop() {
	c.proto.Stop()
}

func (c *Client) setExpected(k StepKind) {
	c.mu.Lock()
	c.expected = k
	c.mu.Unlock()
	c.proto.SetState(uint(k))
}

func (c *Client) getExpected() StepKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expected
}

func (c *Client) decodeMessage(b []byte) (protocol.Message, error) {
	resp, err := DecodeStepResponse(wire.NewReader(b), c.getExpected(), c.cfg)
	if err != nil {
		return nil, err
	}
	return responseMessage{resp}, nil
}

func (c *Client) handleMessage(msg protocol.Message) error {
	rm, ok := msg.(responseMessage)
	if !ok {
		return ErrProtocolMismatch
	}
	select {
	case c.respCh <- rm.resp:
	case <-c.proto.DoneChan():
	}
	return nil
}

// roundTrip sends req, declares expected as the phase the next response
// must belong to, and blocks for exactly one reply, bounded by
// cfg.RequestTimeout so a peer that goes silent mid-phase doesn't hang the
// session past its own deadline.
func (c *Client) roundTrip(ctx context.Context, req StepRequest, expected StepKind) (StepResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()
	c.setExpected(expected)
	if err := c.proto.SendMessage(requestMessage{req}, false); err != nil {
		return nil, fmt.Errorf("%w: %v", protocol.ErrTransport, err)
	}
	select {
	case resp := <-c.respCh:
		return resp, nil
	case err := <-c.errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", protocol.ErrTransport, ctx.Err())
	}
}

func advanceCursor(last *uint64, next *uint64) error {
	if next != nil && last != nil && *next <= *last {
		return ErrNonMonotoneCursor
	}
	return nil
}

func chunkAccounts(accounts []chain.PublicKey, size int) [][]chain.PublicKey {
	if len(accounts) == 0 {
		return nil
	}
	if size <= 0 || size > len(accounts) {
		size = len(accounts)
	}
	chunks := make([][]chain.PublicKey, 0, (len(accounts)+size-1)/size)
	for i := 0; i < len(accounts); i += size {
		end := i + size
		if end > len(accounts) {
			end = len(accounts)
		}
		chunks = append(chunks, accounts[i:end])
	}
	return chunks
}

// DriveSync runs the full client state machine against the peer this
// Client was constructed for: ChainInfo, then BlockHashes/Assets/Keys
// (each paginated until its server-side cursor returns None), then
// Balances/Nonces chunked by MaxItemsPerPage, then BlocksMetadata.
// localStableTopoheight is this node's own stable topoheight, used to
// reject a peer that claims to be behind us.
func (c *Client) DriveSync(ctx context.Context, sketch LocalTipSketch, localStableTopoheight uint64) (*Snapshot, error) {
	blockIDs := sketch.RecentBlockIds(int(c.cfg.ChainSyncRequestMaxBlocks))
	if len(blockIDs) == 0 {
		return nil, boundsErrorf("local tip sketch produced no BlockIds")
	}

	chainInfoCtx, cancel := context.WithTimeout(ctx, c.cfg.ChainInfoTimeout)
	defer cancel()
	respAny, err := c.roundTrip(chainInfoCtx, ChainInfoRequest{BlockIds: blockIDs}, StepChainInfo)
	if err != nil {
		return nil, err
	}
	chainInfo, ok := respAny.(ChainInfoResponse)
	if !ok {
		return nil, ErrProtocolMismatch
	}
	if chainInfo.CommonPoint == nil {
		return nil, ErrNoCommonAncestor
	}
	if chainInfo.StableTopoheight < localStableTopoheight {
		return nil, ErrPeerBehind
	}

	snap := newSnapshot()
	snap.StableTopoheight = chainInfo.StableTopoheight
	snap.StableHeight = chainInfo.StableHeight
	snap.StableHash = chainInfo.StableHash
	snap.StableMerkleHash = chainInfo.StableMerkleHash

	commonTopo := chainInfo.CommonPoint.Topoheight
	stableTopo := chainInfo.StableTopoheight

	if err := c.syncMerkles(ctx, commonTopo, stableTopo, snap); err != nil {
		return nil, err
	}
	if err := c.syncAssets(ctx, commonTopo, stableTopo, snap); err != nil {
		return nil, err
	}
	if err := c.syncKeys(ctx, commonTopo, stableTopo, snap); err != nil {
		return nil, err
	}
	if err := c.syncBalances(ctx, stableTopo, snap); err != nil {
		return nil, err
	}
	if err := c.syncNonces(ctx, stableTopo, snap); err != nil {
		return nil, err
	}
	if err := c.syncBlocksMetadata(ctx, stableTopo, snap); err != nil {
		return nil, err
	}
	// The returned Snapshot is independent of the session's own working copy.
	return snap.Clone()
}

func (c *Client) syncMerkles(ctx context.Context, commonTopo, stableTopo uint64, snap *Snapshot) error {
	maxPairs := stableTopo - commonTopo
	var page, lastCursor *uint64
	for {
		req := MerklesRequest{CommonTopoheight: commonTopo, TargetTopoheight: stableTopo, Page: page}
		respAny, err := c.roundTrip(ctx, req, StepBlockHashes)
		if err != nil {
			return err
		}
		mr, ok := respAny.(MerklesResponse)
		if !ok {
			return ErrProtocolMismatch
		}
		snap.MerklePairs = append(snap.MerklePairs, mr.Pairs...)
		if uint64(len(snap.MerklePairs)) > maxPairs {
			return ErrStablePinContradicted
		}
		if mr.Page == nil {
			return nil
		}
		if err := advanceCursor(lastCursor, mr.Page); err != nil {
			return err
		}
		lastCursor = mr.Page
		page = mr.Page
	}
}

func (c *Client) syncAssets(ctx context.Context, commonTopo, stableTopo uint64, snap *Snapshot) error {
	var page, lastCursor *uint64
	for {
		req := AssetsRequest{MinTopoheight: commonTopo, MaxTopoheight: stableTopo, Page: page}
		respAny, err := c.roundTrip(ctx, req, StepAssets)
		if err != nil {
			return err
		}
		ar, ok := respAny.(AssetsResponse)
		if !ok {
			return ErrProtocolMismatch
		}
		snap.Assets = append(snap.Assets, ar.Assets...)
		if ar.Page == nil {
			return nil
		}
		if err := advanceCursor(lastCursor, ar.Page); err != nil {
			return err
		}
		lastCursor = ar.Page
		page = ar.Page
	}
}

func (c *Client) syncKeys(ctx context.Context, commonTopo, stableTopo uint64, snap *Snapshot) error {
	var page, lastCursor *uint64
	for {
		req := KeysRequest{MinTopoheight: commonTopo, MaxTopoheight: stableTopo, Page: page}
		respAny, err := c.roundTrip(ctx, req, StepKeys)
		if err != nil {
			return err
		}
		kr, ok := respAny.(KeysResponse)
		if !ok {
			return ErrProtocolMismatch
		}
		snap.Accounts = append(snap.Accounts, kr.Accounts...)
		if kr.Page == nil {
			return nil
		}
		if err := advanceCursor(lastCursor, kr.Page); err != nil {
			return err
		}
		lastCursor = kr.Page
		page = kr.Page
	}
}

func (c *Client) syncBalances(ctx context.Context, stableTopo uint64, snap *Snapshot) error {
	for _, asset := range snap.Assets {
		for _, chunk := range chunkAccounts(snap.Accounts, int(c.cfg.MaxItemsPerPage)) {
			req := BalancesRequest{MaxTopoheight: stableTopo, Asset: asset.Hash, Accounts: chunk}
			respAny, err := c.roundTrip(ctx, req, StepBalances)
			if err != nil {
				return err
			}
			br, ok := respAny.(BalancesResponse)
			if !ok {
				return ErrProtocolMismatch
			}
			if len(br.Balances) != len(chunk) {
				return ErrAccountVectorLength
			}
			for i, bal := range br.Balances {
				if bal == nil {
					continue
				}
				snap.Balances[BalanceKey{Account: chunk[i], Asset: asset.Hash}] = *bal
			}
		}
	}
	return nil
}

func (c *Client) syncNonces(ctx context.Context, stableTopo uint64, snap *Snapshot) error {
	for _, chunk := range chunkAccounts(snap.Accounts, int(c.cfg.MaxItemsPerPage)) {
		req := NoncesRequest{MaxTopoheight: stableTopo, Accounts: chunk}
		respAny, err := c.roundTrip(ctx, req, StepNonces)
		if err != nil {
			return err
		}
		nr, ok := respAny.(NoncesResponse)
		if !ok {
			return ErrProtocolMismatch
		}
		if len(nr.Nonces) != len(chunk) {
			return ErrAccountVectorLength
		}
		for i, nonce := range nr.Nonces {
			snap.Nonces[chunk[i]] = nonce
		}
	}
	return nil
}

func (c *Client) syncBlocksMetadata(ctx context.Context, stableTopo uint64, snap *Snapshot) error {
	respAny, err := c.roundTrip(ctx, BlocksMetadataRequest{StartTopoheight: stableTopo}, StepBlocksMetadata)
	if err != nil {
		return err
	}
	bmr, ok := respAny.(BlocksMetadataResponse)
	if !ok {
		return ErrProtocolMismatch
	}
	if len(bmr.Metadata) > int(c.cfg.StableWindowSize) {
		return ErrStablePinContradicted
	}
	snap.Metadata = bmr.Metadata
	return nil
}
