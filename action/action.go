// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
)

var (
	// ErrNilAction indicates an envelope carrying no action
	ErrNilAction = errors.New("nil action")
	// ErrInvalidAmount indicates a negative or missing amount
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAddress indicates a missing or malformed address
	ErrAddress = errors.New("invalid address")
	// ErrInvalidSender indicates an envelope without caller
	ErrInvalidSender = errors.New("invalid sender")
)

type (
	// Action is the action can be Executed in protocols. The method is added to avoid mistakenly used empty interface as action.
	Action interface {
		SanityCheck() error
	}

	// hashable is implemented by every payload that can be carried in an envelope
	hashable interface {
		actionName() string
		rlpFields() []interface{}
	}

	// Envelope is an action submitted by a caller. Signature checking is done by the surrounding ledger.
	Envelope struct {
		caller  address.Address
		payload Action
	}
)

// NewEnvelope creates an envelope for the caller
func NewEnvelope(caller address.Address, payload Action) *Envelope {
	return &Envelope{
		caller:  caller,
		payload: payload,
	}
}

// Caller returns the caller of the envelope
func (elp *Envelope) Caller() address.Address { return elp.caller }

// Action returns the payload
func (elp *Envelope) Action() Action { return elp.payload }

// SanityCheck validates the envelope and its payload
func (elp *Envelope) SanityCheck() error {
	if elp.caller == nil {
		return ErrInvalidSender
	}
	if elp.payload == nil {
		return ErrNilAction
	}
	return elp.payload.SanityCheck()
}

// Hash returns the hash of the envelope, which is the blake2b hash of its rlp encoding
func (elp *Envelope) Hash() (hash.Hash256, error) {
	if elp.caller == nil {
		return hash.ZeroHash256, ErrInvalidSender
	}
	h, ok := elp.payload.(hashable)
	if !ok {
		return hash.ZeroHash256, errors.Errorf("action %T cannot be hashed", elp.payload)
	}
	b, err := rlp.EncodeToBytes([]interface{}{
		elp.caller.Bytes(),
		h.actionName(),
		h.rlpFields(),
	})
	if err != nil {
		return hash.ZeroHash256, errors.Wrap(err, "failed to encode envelope")
	}
	return hash.Hash256b(b), nil
}

// Name returns the name of the action type carried in the envelope
func Name(act Action) string {
	if h, ok := act.(hashable); ok {
		return h.actionName()
	}
	return "unknown"
}

func addrBytes(addr address.Address) []byte {
	if addr == nil {
		return []byte{}
	}
	return addr.Bytes()
}
