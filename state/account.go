// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// ErrNotEnoughBalance is the error that the balance is not enough
var ErrNotEnoughBalance = errors.New("not enough balance")

// Account is the canonical representation of an account.
type Account struct {
	Balance *big.Int
}

// EmptyAccount returns an empty account
func EmptyAccount() Account {
	return Account{
		Balance: big.NewInt(0),
	}
}

// Serialize serializes account state into bytes
func (st *Account) Serialize() ([]byte, error) {
	b, err := rlp.EncodeToBytes(st)
	if err != nil {
		return nil, errors.Wrap(ErrStateSerialization, err.Error())
	}
	return b, nil
}

// Deserialize deserializes bytes into account state
func (st *Account) Deserialize(buf []byte) error {
	if err := rlp.DecodeBytes(buf, st); err != nil {
		return errors.Wrap(ErrStateDeserialization, err.Error())
	}
	if st.Balance == nil {
		st.Balance = big.NewInt(0)
	}
	return nil
}

// AddBalance adds balance for account state
func (st *Account) AddBalance(amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("invalid amount %s", amount)
	}
	st.Balance = new(big.Int).Add(st.Balance, amount)
	return nil
}

// SubBalance subtracts balance for account state
func (st *Account) SubBalance(amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.Errorf("invalid amount %s", amount)
	}
	// make sure there's enough fund to spend
	if amount.Cmp(st.Balance) == 1 {
		return ErrNotEnoughBalance
	}
	st.Balance = new(big.Int).Sub(st.Balance, amount)
	return nil
}

// HasSufficientBalance returns true if balance is larger than amount
func (st *Account) HasSufficientBalance(amount *big.Int) bool {
	return amount.Cmp(st.Balance) <= 0
}
