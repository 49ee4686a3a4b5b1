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

// Package bootstrapsync implements the mini-protocol that lets a joining
// node reconstruct a verifiable snapshot of the ledger from a serving peer
// without replaying full block history: a fixed sequence of phases
// (ChainInfo, BlockHashes, Assets, Keys, Balances, Nonces, BlocksMetadata),
// paginated where the underlying set may be large, anchored to a single
// stable topoheight pinned at the start of the session.
package bootstrapsync

import (
	"time"

	"github.com/xelis-project/bootstrapsync/protocol"
)

// StepKind enumerates the seven bootstrap sync phases in their fixed total
// order. The zero value is ChainInfo, always the first phase of a session.
type StepKind uint8

const (
	StepChainInfo StepKind = iota
	StepBlockHashes
	StepAssets
	StepKeys
	StepBalances
	StepNonces
	StepBlocksMetadata
)

func (k StepKind) String() string {
	switch k {
	case StepChainInfo:
		return "ChainInfo"
	case StepBlockHashes:
		return "BlockHashes"
	case StepAssets:
		return "Assets"
	case StepKeys:
		return "Keys"
	case StepBalances:
		return "Balances"
	case StepNonces:
		return "Nonces"
	case StepBlocksMetadata:
		return "BlocksMetadata"
	default:
		return "Unknown"
	}
}

// Next returns the following phase in the lattice. BlocksMetadata has no
// successor; ok is false once the lattice bottoms out.
func (k StepKind) Next() (StepKind, bool) {
	if k == StepBlocksMetadata {
		return k, false
	}
	return k + 1, true
}

func stateFor(k StepKind) protocol.State {
	return protocol.NewState(uint(k), k.String())
}

// stepStates lists every StepKind in lattice order, once, for callers that
// need to walk the whole sequence (StateMap construction, logging).
var stepStates = []StepKind{
	StepChainInfo, StepBlockHashes, StepAssets, StepKeys,
	StepBalances, StepNonces, StepBlocksMetadata,
}

// StateMap describes the session lattice in protocol.StateMap terms:
// client agency at every phase, since this protocol has no pipelining and
// the client always issues the next request. Client and Server keep their
// underlying protocol.Protocol's local state synchronized to the current
// StepKind via SetState as the session advances; this map is what a
// caller would consult to validate a transition rather than trusting
// StepKind.Next() alone.
func StateMap() protocol.StateMap {
	sm := make(protocol.StateMap, len(stepStates))
	for _, k := range stepStates {
		var transitions []protocol.StateTransition
		if next, ok := k.Next(); ok {
			transitions = []protocol.StateTransition{{NewState: stateFor(next)}}
		}
		if k == StepKeys {
			// A session with no assets never issues a Balances request, and
			// one with no accounts issues neither Balances nor Nonces (the
			// client chunks zero accounts into zero requests), so Keys can be
			// followed directly by Nonces or by BlocksMetadata instead of
			// only by Balances.
			transitions = append(transitions,
				protocol.StateTransition{NewState: stateFor(StepNonces)},
				protocol.StateTransition{NewState: stateFor(StepBlocksMetadata)},
			)
		}
		sm[stateFor(k)] = protocol.StateMapEntry{
			Agency:      protocol.AGENCY_CLIENT,
			Transitions: transitions,
			Timeout:     30 * time.Second,
		}
	}
	return sm
}
