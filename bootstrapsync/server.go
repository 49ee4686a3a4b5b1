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
	"sync"

	"github.com/xelis-project/bootstrapsync/chain"
	"github.com/xelis-project/bootstrapsync/muxer"
	"github.com/xelis-project/bootstrapsync/protocol"
	"github.com/xelis-project/bootstrapsync/wire"
)

// Server answers one peer's bootstrap sync requests from a read-only
// ChainView. It pins the view's stable anchor at the first ChainInfo
// request and reports that same anchor in every ChainInfo response of the
// session, even if new blocks arrive mid-session. Later steps are answered
// for the topoheights each request names; those are not checked against
// the pinned anchor.
type Server struct {
	cfg   Config
	view  ChainView
	proto *protocol.Protocol
	errCh chan error

	mu               sync.Mutex
	pinned           bool
	stableTopoheight uint64
	stableHeight     uint64
	stableHash       chain.Hash
	stableMerkleHash chain.Hash
	cursors          map[StepKind]uint64
}

// NewServer registers the bootstrap sync protocol on m and returns a
// responder backed by view.
func NewServer(m *muxer.Muxer, view ChainView, cfg Config) *Server {
	s := &Server{
		cfg:     cfg,
		view:    view,
		errCh:   make(chan error, 4),
		cursors: make(map[StepKind]uint64),
	}
	s.proto = protocol.New(protocol.ProtocolConfig{
		Name:                 ProtocolName,
		ProtocolId:           ProtocolId,
		Muxer:                m,
		ErrorChan:            s.errCh,
		Logger:               cfg.logger(),
		MessageHandlerFunc:   s.handleMessage,
		MessageFromBytesFunc: s.decodeMessage,
		StateMap:             StateMap(),
		MessageStateFunc:     messageState,
	})
	s.proto.Logger().Debug("bootstrap sync server ready", "states", len(StateMap()))
	return s
}

// Stop releases the underlying protocol registration.
func (s *Server) Stop() {
	s.proto.Stop()
}

// Errors surfaces decode and handler failures for the caller to log or
// use as a signal to drop the connection.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

func (s *Server) decodeMessage(b []byte) (protocol.Message, error) {
	req, err := DecodeStepRequest(wire.NewReader(b), s.cfg)
	if err != nil {
		return nil, err
	}
	return requestMessage{req}, nil
}

func (s *Server) handleMessage(msg protocol.Message) error {
	rm, ok := msg.(requestMessage)
	if !ok {
		return ErrProtocolMismatch
	}
	s.proto.SetState(uint(rm.req.Kind()))
	resp, err := s.Respond(rm.req)
	if err != nil {
		return err
	}
	return s.proto.SendMessage(responseMessage{resp}, true)
}

func (s *Server) ensurePinned() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinned {
		return
	}
	topo, height, hash, merkleHash := s.view.StableAnchor()
	s.stableTopoheight = topo
	s.stableHeight = height
	s.stableHash = hash
	s.stableMerkleHash = merkleHash
	s.pinned = true
}

// nextPage issues the next strictly-increasing cursor for kind, or nil
// when the caller reports no more data remains.
func (s *Server) nextPage(kind StepKind, hasMore bool) *uint64 {
	if !hasMore {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[kind]++
	v := s.cursors[kind]
	return &v
}

// Respond is the pure request-handling half of the protocol: given a
// decoded request, it answers from the chain view, applying the
// MAX_ITEMS_PER_PAGE cap implicitly via the ChainView implementation and
// the outgoing cursor discipline here.
func (s *Server) Respond(req StepRequest) (StepResponse, error) {
	switch r := req.(type) {
	case ChainInfoRequest:
		return s.respondChainInfo(r)
	case MerklesRequest:
		return s.respondMerkles(r)
	case AssetsRequest:
		return s.respondAssets(r)
	case KeysRequest:
		return s.respondKeys(r)
	case BalancesRequest:
		return s.respondBalances(r)
	case NoncesRequest:
		return s.respondNonces(r)
	case BlocksMetadataRequest:
		return s.respondBlocksMetadata(r)
	default:
		return nil, ErrProtocolMismatch
	}
}

func (s *Server) respondChainInfo(r ChainInfoRequest) (StepResponse, error) {
	s.ensurePinned()
	var commonPoint *chain.CommonPoint
	if cp, ok := s.view.FindCommonAncestor(r.BlockIds); ok {
		commonPoint = &cp
	}
	return ChainInfoResponse{
		CommonPoint:      commonPoint,
		StableTopoheight: s.stableTopoheight,
		StableHeight:     s.stableHeight,
		StableHash:       s.stableHash,
		StableMerkleHash: s.stableMerkleHash,
	}, nil
}

func (s *Server) respondMerkles(r MerklesRequest) (StepResponse, error) {
	rng := TopoheightRange{Min: r.CommonTopoheight, Max: r.TargetTopoheight}
	pairs, hasMore := s.view.BlockHashesIn(rng, r.Page, int(s.cfg.MaxItemsPerPage))
	return MerklesResponse{Pairs: pairs, Page: s.nextPage(StepBlockHashes, hasMore)}, nil
}

func (s *Server) respondAssets(r AssetsRequest) (StepResponse, error) {
	rng := TopoheightRange{Min: r.MinTopoheight, Max: r.MaxTopoheight}
	assets, hasMore := s.view.AssetsIn(rng, r.Page, int(s.cfg.MaxItemsPerPage))
	return AssetsResponse{Assets: assets, Page: s.nextPage(StepAssets, hasMore)}, nil
}

func (s *Server) respondKeys(r KeysRequest) (StepResponse, error) {
	rng := TopoheightRange{Min: r.MinTopoheight, Max: r.MaxTopoheight}
	accounts, hasMore := s.view.KeysIn(rng, r.Page, int(s.cfg.MaxItemsPerPage))
	return KeysResponse{Accounts: accounts, Page: s.nextPage(StepKeys, hasMore)}, nil
}

func (s *Server) respondBalances(r BalancesRequest) (StepResponse, error) {
	balances := make([]*chain.AccountBalance, len(r.Accounts))
	for i, account := range r.Accounts {
		if bal, ok := s.view.BalanceAt(account, r.Asset, r.MaxTopoheight); ok {
			balances[i] = &bal
		}
	}
	return BalancesResponse{Balances: balances}, nil
}

func (s *Server) respondNonces(r NoncesRequest) (StepResponse, error) {
	nonces := make([]uint64, len(r.Accounts))
	for i, account := range r.Accounts {
		nonces[i] = s.view.NonceAt(account, r.MaxTopoheight)
	}
	return NoncesResponse{Nonces: nonces}, nil
}

func (s *Server) respondBlocksMetadata(r BlocksMetadataRequest) (StepResponse, error) {
	metadata := s.view.TopKMetadata(r.StartTopoheight, int(s.cfg.StableWindowSize))
	return BlocksMetadataResponse{Metadata: metadata}, nil
}
