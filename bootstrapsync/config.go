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
	"log/slog"
	"time"
)

// ProtocolName identifies this mini-protocol in logs and muxer registration.
const ProtocolName = "bootstrap-sync"

// ProtocolId is this mini-protocol's muxer segment protocol ID.
const ProtocolId uint16 = 10

const (
	// DefaultMaxItemsPerPage is the page-size cap a server must not exceed
	// on any response and a client must enforce as a bound when decoding.
	DefaultMaxItemsPerPage = 1024
	// DefaultChainSyncRequestMaxBlocks bounds the ChainInfo BlockId window;
	// must fit a u8.
	DefaultChainSyncRequestMaxBlocks = 64
	// DefaultStableWindowSize is how many of the topmost blocks'
	// BlocksMetadata a server returns.
	DefaultStableWindowSize = 50
	// DefaultRequestTimeout bounds how long the client waits for any
	// response once a request has been sent.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultChainInfoTimeout bounds the initial handshake round, kept
	// separate since peer selection may need a shorter budget than the
	// data-heavy phases that follow.
	DefaultChainInfoTimeout = 15 * time.Second
)

// Config holds the tunables of a bootstrap sync session, client or server
// side.
type Config struct {
	MaxItemsPerPage           uint32
	ChainSyncRequestMaxBlocks uint8
	StableWindowSize          uint32
	RequestTimeout            time.Duration
	ChainInfoTimeout          time.Duration
	Logger                    *slog.Logger
}

// ConfigOptionFunc mutates a Config under construction.
type ConfigOptionFunc func(*Config)

// NewConfig builds a Config from its defaults, applying any options in
// order.
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		MaxItemsPerPage:           DefaultMaxItemsPerPage,
		ChainSyncRequestMaxBlocks: DefaultChainSyncRequestMaxBlocks,
		StableWindowSize:          DefaultStableWindowSize,
		RequestTimeout:            DefaultRequestTimeout,
		ChainInfoTimeout:          DefaultChainInfoTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMaxItemsPerPage overrides the page-size cap.
func WithMaxItemsPerPage(v uint32) ConfigOptionFunc {
	return func(c *Config) { c.MaxItemsPerPage = v }
}

// WithChainSyncRequestMaxBlocks overrides the ChainInfo BlockId window cap.
func WithChainSyncRequestMaxBlocks(v uint8) ConfigOptionFunc {
	return func(c *Config) { c.ChainSyncRequestMaxBlocks = v }
}

// WithStableWindowSize overrides how many blocks of metadata a server
// serves.
func WithStableWindowSize(v uint32) ConfigOptionFunc {
	return func(c *Config) { c.StableWindowSize = v }
}

// WithRequestTimeout overrides the per-request response deadline.
func WithRequestTimeout(d time.Duration) ConfigOptionFunc {
	return func(c *Config) { c.RequestTimeout = d }
}

// WithChainInfoTimeout overrides the initial handshake deadline.
func WithChainInfoTimeout(d time.Duration) ConfigOptionFunc {
	return func(c *Config) { c.ChainInfoTimeout = d }
}

// WithLogger overrides the structured logger; nil falls back to
// slog.Default() at use sites.
func WithLogger(l *slog.Logger) ConfigOptionFunc {
	return func(c *Config) { c.Logger = l }
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
