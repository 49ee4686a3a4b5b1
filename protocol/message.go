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

// Message is satisfied by every request/response variant a mini-protocol
// exchanges. Encode returns the message's own wire encoding, tag byte
// included, ready to be length-prefixed and handed to the muxer.
type Message interface {
	MessageType() uint8
	Encode() []byte
}

// MessageBase carries the tag common to every message of a protocol so
// concrete message types only need to implement Encode.
type MessageBase struct {
	Kind uint8
}

// MessageType returns the message's tag byte.
func (m MessageBase) MessageType() uint8 {
	return m.Kind
}
