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

package chain

import "github.com/xelis-project/bootstrapsync/wire"

// Difficulty is a block's proof-of-work target, wide enough to outgrow a
// u64 on a long-lived chain. It rides the same minimal VarUint encoding as
// the rest of the codec rather than a fixed width.
type Difficulty struct {
	wire.VarUint
}

// NewDifficulty wraps a uint64 difficulty value.
func NewDifficulty(v uint64) Difficulty {
	return Difficulty{VarUint: wire.NewVarUint(v)}
}

// DecodeDifficulty reads a Difficulty.
func DecodeDifficulty(r *wire.Reader) (Difficulty, error) {
	v, err := wire.DecodeVarUint(r)
	if err != nil {
		return Difficulty{}, err
	}
	return Difficulty{VarUint: v}, nil
}

// CumulativeDifficulty is the running total of Difficulty across the chain.
type CumulativeDifficulty struct {
	wire.VarUint
}

// NewCumulativeDifficulty wraps a uint64 cumulative difficulty value.
func NewCumulativeDifficulty(v uint64) CumulativeDifficulty {
	return CumulativeDifficulty{VarUint: wire.NewVarUint(v)}
}

// DecodeCumulativeDifficulty reads a CumulativeDifficulty.
func DecodeCumulativeDifficulty(r *wire.Reader) (CumulativeDifficulty, error) {
	v, err := wire.DecodeVarUint(r)
	if err != nil {
		return CumulativeDifficulty{}, err
	}
	return CumulativeDifficulty{VarUint: v}, nil
}
