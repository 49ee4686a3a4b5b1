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

package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelis-project/bootstrapsync/bootstrapsync"
	"github.com/xelis-project/bootstrapsync/chain"
	"github.com/xelis-project/bootstrapsync/muxer"
	"github.com/xelis-project/bootstrapsync/utils"
)

type cliFlags struct {
	Flagset               *flag.FlagSet
	Address               string
	LocalStableTopoheight uint64
	LocalGenesisHash      string
	Timeout               time.Duration
}

func newCliFlags() *cliFlags {
	f := &cliFlags{
		Flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.Flagset.StringVar(
		&f.Address,
		"address",
		"",
		"TCP address of the bootstrap sync peer in address:port format",
	)
	f.Flagset.Uint64Var(
		&f.LocalStableTopoheight,
		"local-stable-topoheight",
		0,
		"this node's own stable topoheight, rejecting a peer reporting a lower one",
	)
	f.Flagset.StringVar(
		&f.LocalGenesisHash,
		"local-genesis-hash",
		"",
		"hex-encoded hash of the local chain's genesis block, offered as the sync window",
	)
	f.Flagset.DurationVar(
		&f.Timeout,
		"timeout",
		2*time.Minute,
		"overall deadline for the sync session",
	)
	return f
}

func (f *cliFlags) Parse() {
	if err := f.Flagset.Parse(os.Args[1:]); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	if f.Address == "" {
		fmt.Println("missing required -address flag")
		os.Exit(1)
	}
}

// genesisOnlySketch offers a single BlockId, the local genesis, as the
// entire ChainInfo sync window. A real node would offer a log-spaced
// window via bootstrapsync.LogSpacedBlockIDs instead; a fresh node with no
// history beyond genesis has nothing else to offer.
type genesisOnlySketch struct {
	id chain.BlockId
}

func (s genesisOnlySketch) RecentBlockIds(max int) []chain.BlockId {
	return []chain.BlockId{s.id}
}

func main() {
	f := newCliFlags()
	f.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	genesisHash, err := hex.DecodeString(f.LocalGenesisHash)
	if err != nil || len(genesisHash) != chain.HashSize {
		logger.Error("invalid -local-genesis-hash", "value", f.LocalGenesisHash)
		os.Exit(1)
	}
	var genesis chain.Hash
	copy(genesis[:], genesisHash)

	conn, err := net.Dial("tcp", f.Address)
	if err != nil {
		logger.Error("failed to connect to peer", "address", f.Address, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	done := utils.NewDoneSignal()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			done.Close()
		case <-done.GetCh():
		}
	}()

	m := muxer.New(conn)
	m.Start()

	cfg := bootstrapsync.NewConfig(bootstrapsync.WithLogger(logger))
	client := bootstrapsync.NewClient(f.Address, m, cfg)
	defer client.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
	defer cancel()
	go func() {
		select {
		case <-done.GetCh():
			cancel()
		case <-ctx.Done():
		}
	}()

	sketch := genesisOnlySketch{id: chain.BlockId{Topoheight: 0, Hash: genesis}}
	snapshot, err := client.DriveSync(ctx, sketch, f.LocalStableTopoheight)
	if err != nil {
		logger.Error("sync session failed", "error", err, "fatal", bootstrapsync.IsFatal(err))
		os.Exit(1)
	}

	fmt.Printf("Bootstrap sync complete\n\n")
	fmt.Printf("Stable topoheight: %d\n", snapshot.StableTopoheight)
	fmt.Printf("Stable height:     %d\n", snapshot.StableHeight)
	fmt.Printf("Stable hash:       %s\n", snapshot.StableHash)
	fmt.Printf("Merkle pairs:      %d\n", len(snapshot.MerklePairs))
	fmt.Printf("Assets:            %d\n", len(snapshot.Assets))
	fmt.Printf("Accounts:          %d\n", len(snapshot.Accounts))
	fmt.Printf("Balances:          %d\n", len(snapshot.Balances))
	fmt.Printf("Nonces:            %d\n", len(snapshot.Nonces))
	fmt.Printf("Block metadata:    %d\n", len(snapshot.Metadata))

	done.Close()
}
