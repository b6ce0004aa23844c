// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package state

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAccountSerialize(t *testing.T) {
	require := require.New(t)

	acct := &Account{Balance: big.NewInt(20000000)}
	ss, err := Serialize(acct)
	require.NoError(err)
	require.NotEmpty(ss)

	var decoded Account
	require.NoError(Deserialize(&decoded, ss))
	require.Equal(0, decoded.Balance.Cmp(big.NewInt(20000000)))

	require.True(errors.Is(decoded.Deserialize([]byte{0xff, 0x01}), ErrStateDeserialization))
	_, err = Serialize(struct{}{})
	require.True(errors.Is(err, ErrStateSerialization))
	require.True(errors.Is(Deserialize(&struct{}{}, ss), ErrStateDeserialization))
}

func TestAccountBalance(t *testing.T) {
	require := require.New(t)

	acct := EmptyAccount()
	require.NoError(acct.AddBalance(big.NewInt(20)))
	require.True(acct.HasSufficientBalance(big.NewInt(20)))
	require.False(acct.HasSufficientBalance(big.NewInt(21)))

	require.NoError(acct.SubBalance(big.NewInt(5)))
	require.Equal(0, acct.Balance.Cmp(big.NewInt(15)))
	require.Equal(ErrNotEnoughBalance, acct.SubBalance(big.NewInt(16)))
	require.Equal(0, acct.Balance.Cmp(big.NewInt(15)))

	require.Error(acct.AddBalance(big.NewInt(-1)))
	require.Error(acct.SubBalance(big.NewInt(-1)))
}
