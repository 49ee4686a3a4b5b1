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

	"github.com/stretchr/testify/require"

	"github.com/xelis-project/bootstrapsync/protocol"
)

func TestStepKindNextWalksTheFullLattice(t *testing.T) {
	k := StepChainInfo
	seen := []StepKind{k}
	for {
		next, ok := k.Next()
		if !ok {
			break
		}
		seen = append(seen, next)
		k = next
	}
	require.Equal(t, stepStates, seen)
}

func TestStepBlocksMetadataHasNoSuccessor(t *testing.T) {
	_, ok := StepBlocksMetadata.Next()
	require.False(t, ok)
}

func TestStateMapCoversEveryPhaseWithClientAgency(t *testing.T) {
	sm := StateMap()
	require.Len(t, sm, len(stepStates))
	for _, k := range stepStates {
		entry, ok := sm[stateFor(k)]
		require.True(t, ok, "missing state entry for %s", k)
		require.Equal(t, protocol.AGENCY_CLIENT, entry.Agency)
		if k == StepBlocksMetadata {
			require.Empty(t, entry.Transitions)
			continue
		}
		next, _ := k.Next()
		targets := make([]protocol.State, len(entry.Transitions))
		for i, tr := range entry.Transitions {
			targets[i] = tr.NewState
		}
		require.Contains(t, targets, stateFor(next))
	}
}

// TestStateMapAllowsSkippingEmptyAccountPhases covers StepKeys's extra
// transitions: a session with no assets never sends a Balances request, and
// one with no accounts sends neither Balances nor Nonces, so the lattice
// must let Keys be followed directly by Nonces or by BlocksMetadata.
func TestStateMapAllowsSkippingEmptyAccountPhases(t *testing.T) {
	sm := StateMap()
	entry := sm[stateFor(StepKeys)]

	targets := make([]protocol.State, len(entry.Transitions))
	for i, tr := range entry.Transitions {
		targets[i] = tr.NewState
	}
	require.Contains(t, targets, stateFor(StepBalances))
	require.Contains(t, targets, stateFor(StepNonces))
	require.Contains(t, targets, stateFor(StepBlocksMetadata))
}
