// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package accountutil

import (
	"math/big"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/state"
)

// AccountNamespace is the namespace to store accounts
const AccountNamespace = "Account"

// LoadOrCreateAccount either loads an account state or creates an account state
func LoadOrCreateAccount(sm protocol.StateManager, addr address.Address) (*state.Account, error) {
	if addr == nil {
		return nil, errors.New("nil address")
	}
	account := state.EmptyAccount()
	_, err := sm.State(&account, protocol.NamespaceOption(AccountNamespace), protocol.KeyOption(addr.Bytes()))
	switch errors.Cause(err) {
	case nil:
		return &account, nil
	case state.ErrStateNotExist:
		if _, err := sm.PutState(&account, protocol.NamespaceOption(AccountNamespace), protocol.KeyOption(addr.Bytes())); err != nil {
			return nil, errors.Wrapf(err, "failed to put state for account %s", addr.String())
		}
		return &account, nil
	default:
		return nil, err
	}
}

// LoadAccount loads an account state, an absent account is returned as empty
func LoadAccount(sr protocol.StateReader, addr address.Address) (*state.Account, error) {
	if addr == nil {
		return nil, errors.New("nil address")
	}
	account := state.EmptyAccount()
	if _, err := sr.State(&account, protocol.NamespaceOption(AccountNamespace), protocol.KeyOption(addr.Bytes())); err != nil {
		if errors.Cause(err) == state.ErrStateNotExist {
			account = state.EmptyAccount()
			return &account, nil
		}
		return nil, err
	}
	return &account, nil
}

// StoreAccount puts updated account state to trie
func StoreAccount(sm protocol.StateManager, addr address.Address, account *state.Account) error {
	_, err := sm.PutState(account, protocol.NamespaceOption(AccountNamespace), protocol.KeyOption(addr.Bytes()))
	return err
}

// Debit subtracts amount from the balance of addr. It fails with state.ErrNotEnoughBalance without writing anything
// if the balance is short.
func Debit(sm protocol.StateManager, addr address.Address, amount *big.Int) error {
	account, err := LoadAccount(sm, addr)
	if err != nil {
		return errors.Wrapf(err, "failed to load the account of %s", addr.String())
	}
	if err := account.SubBalance(amount); err != nil {
		return errors.Wrapf(err, "account %s balance %s, required amount %s", addr.String(), account.Balance, amount)
	}
	return StoreAccount(sm, addr, account)
}

// Credit adds amount to the balance of addr
func Credit(sm protocol.StateManager, addr address.Address, amount *big.Int) error {
	account, err := LoadOrCreateAccount(sm, addr)
	if err != nil {
		return errors.Wrapf(err, "failed to load or create the account of %s", addr.String())
	}
	if err := account.AddBalance(amount); err != nil {
		return errors.Wrapf(err, "failed to add balance %s", amount)
	}
	return StoreAccount(sm, addr, account)
}
