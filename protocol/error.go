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

package protocol

import "errors"

var ErrProtocolShuttingDown = errors.New("protocol is shutting down")

// Protocol violation errors cause connection termination.
var (
	ErrProtocolViolationQueueExceeded = errors.New(
		"protocol violation: message queue limit exceeded",
	)
	ErrProtocolViolationPipelineExceeded = errors.New(
		"protocol violation: pipeline limit exceeded",
	)
	ErrProtocolViolationRequestExceeded = errors.New(
		"protocol violation: request count limit exceeded",
	)
	ErrProtocolViolationInvalidMessage = errors.New(
		"protocol violation: invalid message received",
	)
)

// The remaining sentinels group by the five error kinds a mini-protocol
// implementation can surface: malformed bytes before a message can even be
// identified (Framing), a well-formed message whose declared size violates
// a bound (Bounds), a message that arrives in a state that doesn't expect
// it (Protocol), a message that is well-formed and well-timed but whose
// content is inconsistent (Semantic), and failures of the underlying
// connection itself (Transport).
var (
	ErrFraming   = errors.New("framing error: malformed message bytes")
	ErrBounds    = errors.New("bounds error: value outside its allowed range")
	ErrProtocol  = errors.New("protocol error: message not valid in current state")
	ErrSemantic  = errors.New("semantic error: message content is inconsistent")
	ErrTransport = errors.New("transport error: connection failed")
)
