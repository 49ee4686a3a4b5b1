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
	"errors"
	"fmt"

	"github.com/xelis-project/bootstrapsync/protocol"
)

// Session-terminating errors specific to the bootstrap sync state machine.
// Each wraps one of the protocol package's five error-kind sentinels so
// callers can classify a failure with errors.Is(err, protocol.ErrSemantic)
// without caring which concrete scenario produced it.
var (
	ErrNoCommonAncestor = fmt.Errorf("%w: no common ancestor found", protocol.ErrSemantic)
	ErrPeerBehind       = fmt.Errorf("%w: peer's stable topoheight is behind local", protocol.ErrSemantic)

	ErrProtocolMismatch  = fmt.Errorf("%w: response kind does not match expected phase", protocol.ErrProtocol)
	ErrNonMonotoneCursor = fmt.Errorf("%w: page cursor did not advance", protocol.ErrProtocol)

	ErrStablePinContradicted = fmt.Errorf(
		"%w: response addressing contradicts the pinned stable topoheight", protocol.ErrProtocol,
	)
	ErrAccountVectorLength = fmt.Errorf(
		"%w: response vector length disagrees with requested account count", protocol.ErrProtocol,
	)
)

func boundsErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", protocol.ErrBounds, fmt.Sprintf(format, args...))
}

func framingErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", protocol.ErrFraming, fmt.Sprintf(format, args...))
}

// IsFatal reports whether err should terminate the sync session outright,
// as opposed to a transport error the caller may retry against a new peer.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, protocol.ErrTransport)
}
