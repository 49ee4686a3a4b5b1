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

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xelis-project/bootstrapsync/muxer"
)

// MessageHandlerFunc is invoked with each decoded inbound message.
type MessageHandlerFunc func(Message) error

// MessageFromBytesFunc decodes a single framed message payload (tag byte
// plus body, length prefix already stripped) into a concrete Message.
type MessageFromBytesFunc func([]byte) (Message, error)

// MessageStateFunc derives the State a decoded message addresses, so
// drainBuffer can check it against StateMap before the handler runs. ok is
// false for messages that don't participate in the state lattice at all.
type MessageStateFunc func(Message) (State, bool)

// ProtocolConfig wires a mini-protocol instance to its muxer and callbacks.
// StateMap and MessageStateFunc are optional: when both are set, every
// inbound message is checked against the current local state before its
// handler runs, and every outbound non-response message is checked against
// the current state's Agency before it is sent.
type ProtocolConfig struct {
	Name                 string
	ProtocolId           uint16
	Muxer                *muxer.Muxer
	ErrorChan            chan error
	Logger               *slog.Logger
	MessageHandlerFunc   MessageHandlerFunc
	MessageFromBytesFunc MessageFromBytesFunc
	StateMap             StateMap
	MessageStateFunc     MessageStateFunc
}

// Protocol drives the muxer segment stream for one mini-protocol: framing
// outbound messages with a length prefix, reassembling inbound segments
// back into whole messages, and tracking the local protocol state.
type Protocol struct {
	config     ProtocolConfig
	state      uint
	stateMutex sync.Mutex
	sendChan   chan *muxer.Segment
	recvChan   chan *muxer.Segment
	recvBuffer []byte
	doneChan   chan struct{}
	doneOnce   sync.Once
}

// New registers the protocol with the muxer and starts its receive loop.
func New(cfg ProtocolConfig) *Protocol {
	sendChan, recvChan := cfg.Muxer.RegisterProtocol(cfg.ProtocolId)
	p := &Protocol{
		config:   cfg,
		sendChan: sendChan,
		recvChan: recvChan,
		doneChan: make(chan struct{}),
	}
	go p.recvLoop()
	return p
}

// Logger returns the configured logger, falling back to slog's default.
func (p *Protocol) Logger() *slog.Logger {
	if p.config.Logger == nil {
		return slog.Default()
	}
	return p.config.Logger
}

// DoneChan is closed when the protocol has been stopped.
func (p *Protocol) DoneChan() chan struct{} {
	return p.doneChan
}

// GetState returns the current local protocol state.
func (p *Protocol) GetState() uint {
	p.stateMutex.Lock()
	defer p.stateMutex.Unlock()
	return p.state
}

// SetState updates the local protocol state.
func (p *Protocol) SetState(state uint) {
	p.stateMutex.Lock()
	defer p.stateMutex.Unlock()
	p.state = state
}

// SendMessage frames msg with a u32 length prefix and hands it to the
// muxer. The custom wire codec has no generic self-describing length the
// way CBOR does, so the prefix is what lets the receive loop tell where
// one message ends and the next begins within a reassembled segment run.
// A non-response message is only sent when the current state's Agency is
// AGENCY_CLIENT: this protocol's states never grant agency to a responder
// acting on its own initiative.
func (p *Protocol) SendMessage(msg Message, isResponse bool) error {
	if !isResponse && p.config.StateMap != nil {
		if _, entry, ok := p.config.StateMap.ByID(p.GetState()); ok && entry.Agency != AGENCY_CLIENT {
			return fmt.Errorf("%w: current state has no agency to send a request", ErrProtocol)
		}
	}
	payload := msg.Encode()
	framed := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(framed, uint32(len(payload)))
	copy(framed[4:], payload)
	segment := muxer.NewSegment(p.config.ProtocolId, framed, isResponse)
	select {
	case p.sendChan <- segment:
		return nil
	case <-p.doneChan:
		return ErrProtocolShuttingDown
	}
}

// Stop halts the receive loop and releases anyone blocked on DoneChan.
func (p *Protocol) Stop() {
	p.doneOnce.Do(func() {
		close(p.doneChan)
	})
}

func (p *Protocol) recvLoop() {
	for {
		select {
		case <-p.doneChan:
			return
		case segment, ok := <-p.recvChan:
			if !ok {
				return
			}
			p.recvBuffer = append(p.recvBuffer, segment.Payload...)
			p.drainBuffer()
		}
	}
}

// drainBuffer pulls as many complete length-prefixed messages as are
// currently buffered, leaving any partial trailing message for the next
// segment.
func (p *Protocol) drainBuffer() {
	for {
		if len(p.recvBuffer) < 4 {
			return
		}
		length := binary.BigEndian.Uint32(p.recvBuffer[:4])
		if uint32(len(p.recvBuffer)-4) < length {
			return
		}
		payload := p.recvBuffer[4 : 4+length]
		p.recvBuffer = p.recvBuffer[4+length:]
		msg, err := p.config.MessageFromBytesFunc(payload)
		if err != nil {
			p.sendErr(fmt.Errorf("%s: decode error: %w", p.config.Name, err))
			continue
		}
		if err := p.checkTransition(msg); err != nil {
			p.sendErr(err)
			continue
		}
		if err := p.config.MessageHandlerFunc(msg); err != nil {
			p.sendErr(err)
		}
	}
}

// checkTransition rejects an inbound message that addresses a state
// unreachable from the current one. A message addressing the current
// state itself is always accepted, since a state may legitimately receive
// more than one message before the handler advances it.
func (p *Protocol) checkTransition(msg Message) error {
	if p.config.StateMap == nil || p.config.MessageStateFunc == nil {
		return nil
	}
	target, ok := p.config.MessageStateFunc(msg)
	if !ok {
		return nil
	}
	current, entry, ok := p.config.StateMap.ByID(p.GetState())
	if !ok {
		return nil
	}
	if target.Id == current.Id {
		return nil
	}
	for _, t := range entry.Transitions {
		if t.NewState.Id == target.Id {
			return nil
		}
	}
	return fmt.Errorf("%w: message addresses state %q, not reachable from %q", ErrProtocol, target.Name, current.Name)
}

func (p *Protocol) sendErr(err error) {
	select {
	case p.config.ErrorChan <- err:
	case <-p.doneChan:
	}
}
