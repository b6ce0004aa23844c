// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
)

// Transfer moves balance from the caller to the recipient
type Transfer struct {
	recipient address.Address
	amount    *big.Int
}

// NewTransfer returns a Transfer instance
func NewTransfer(recipient address.Address, amount *big.Int) *Transfer {
	return &Transfer{
		recipient: recipient,
		amount:    amount,
	}
}

// Recipient returns the recipient address
func (tsf *Transfer) Recipient() address.Address { return tsf.recipient }

// Amount returns the amount
func (tsf *Transfer) Amount() *big.Int { return tsf.amount }

// SanityCheck validates the variables in the action
func (tsf *Transfer) SanityCheck() error {
	if tsf.recipient == nil {
		return ErrAddress
	}
	return checkAmount(tsf.amount)
}

func (tsf *Transfer) actionName() string { return "transfer" }

func (tsf *Transfer) rlpFields() []interface{} {
	return []interface{}{addrBytes(tsf.recipient), tsf.amount}
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}
