// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/action/protocol/account"
	accountutil "github.com/iotexproject/iotex-bns/action/protocol/account/util"
	"github.com/iotexproject/iotex-bns/action/protocol/bns"
	"github.com/iotexproject/iotex-bns/blockchain/genesis"
	"github.com/iotexproject/iotex-bns/db"
	"github.com/iotexproject/iotex-bns/state"
	"github.com/iotexproject/iotex-bns/test/identityset"
)

func newRegistry(t *testing.T) *protocol.Registry {
	registry := protocol.NewRegistry()
	require.NoError(t, account.NewProtocol(genesis.Default.Account).Register(registry))
	p, err := bns.NewProtocol(genesis.Default.BNS)
	require.NoError(t, err)
	require.NoError(t, p.Register(registry))
	return registry
}

func newFactory(t *testing.T, opts ...Option) Factory {
	sf, err := NewFactory(append([]Option{RegistryOption(newRegistry(t))}, opts...)...)
	require.NoError(t, err)
	return sf
}

func balance(t *testing.T, sr protocol.StateReader, idx int) *big.Int {
	acct, err := accountutil.LoadAccount(sr, identityset.Address(idx))
	require.NoError(t, err)
	return acct.Balance
}

func TestNewFactory(t *testing.T) {
	_, err := NewFactory()
	require.Error(t, err)
	_, err = NewFactory(PrecreatedDBOption(nil))
	require.Error(t, err)
	_, err = NewFactory(RegistryOption(nil), InMemDBOption())
	require.Error(t, err)
	_, err = NewFactory(DefaultDBOption(db.Config{DBType: db.DBBolt}))
	require.Equal(t, db.ErrEmptyDBPath, errors.Cause(err))
}

func TestFactory_Genesis(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sf := newFactory(t, InMemDBOption())
	require.NoError(sf.Start(ctx))
	defer func() {
		require.NoError(sf.Stop(ctx))
	}()

	h, err := sf.Height()
	require.NoError(err)
	require.Zero(h)
	initBalance, ok := new(big.Int).SetString("100000000000000", 10)
	require.True(ok)
	for i := 0; i < identityset.Size(); i++ {
		require.Equal(initBalance, balance(t, sf, i))
	}
	out, err := sf.ReadState(ctx, account.ProtocolID(), []byte("Balance"), []byte(identityset.Address(0).String()))
	require.NoError(err)
	require.Equal("100000000000000", string(out))

	var acct state.Account
	_, err = sf.State(&acct, protocol.NamespaceOption(accountutil.AccountNamespace), protocol.KeyOption([]byte("nobody")))
	require.Equal(state.ErrStateNotExist, errors.Cause(err))
	_, err = sf.ReadState(ctx, "staking", []byte("Balance"))
	require.Equal(ErrProtocolNotFound, errors.Cause(err))
}

func TestFactory_ApplyBlock(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sf := newFactory(t, InMemDBOption())
	require.NoError(sf.Start(ctx))
	defer func() {
		require.NoError(sf.Stop(ctx))
	}()

	var (
		owner    = identityset.Address(identityset.NamespaceOwnerIdx)
		importer = identityset.Address(identityset.ImporterIdx)
		alice    = identityset.Address(identityset.AliceIdx)
		salt     = []byte("salt")
		h        = bns.NamespaceCommitment("id", salt)
		pf       = action.PriceFunction{Base: 4, Coeff: 250, NonAlphaDiscount: 10, NoVowelDiscount: 10}
	)
	for i := range pf.Buckets {
		pf.Buckets[i] = 1
	}
	before := balance(t, sf, identityset.AliceIdx)
	receipts, err := sf.ApplyBlock(ctx, 1, []*action.Envelope{
		action.NewEnvelope(alice, action.NewTransfer(owner, big.NewInt(5))),
		action.NewEnvelope(owner, action.NewNamespacePreorder(h[:], genesis.Default.BNS.NamespacePrice(2))),
		// invalid envelopes
		action.NewEnvelope(nil, action.NewNamespaceReady("id")),
		action.NewEnvelope(alice, action.NewTransfer(owner, big.NewInt(-1))),
		// rejected by the naming protocol
		action.NewEnvelope(alice, action.NewNamespaceReady("id")),
	})
	require.NoError(err)
	require.Len(receipts, 5)
	require.True(receipts[0].Succeeded())
	require.True(receipts[1].Succeeded())
	require.Equal(uint64(action.FailureReceiptStatus), receipts[2].Status)
	require.Equal(uint64(action.FailureReceiptStatus), receipts[3].Status)
	require.Equal(bns.ErrNamespaceNotFound.Code, receipts[4].Status)
	for _, r := range receipts {
		require.Equal(uint64(1), r.BlockHeight)
	}
	require.NotEqual(receipts[0].ActionHash, receipts[1].ActionHash)
	require.Equal(new(big.Int).Sub(before, big.NewInt(5)), balance(t, sf, identityset.AliceIdx))

	_, err = sf.ApplyBlock(ctx, 1, nil)
	require.Equal(ErrInvalidHeight, errors.Cause(err))

	receipts, err = sf.ApplyBlock(ctx, 3, []*action.Envelope{
		action.NewEnvelope(owner, action.NewNamespaceReveal("id", salt, pf, 0, importer)),
		action.NewEnvelope(importer, action.NewNameImport("id", "alice", alice, []byte("1111"))),
		action.NewEnvelope(owner, action.NewNamespaceReady("id")),
	})
	require.NoError(err)
	for _, r := range receipts {
		require.True(r.Succeeded(), r.Message)
	}
	height, err := sf.Height()
	require.NoError(err)
	require.Equal(uint64(3), height)

	out, err := sf.ReadState(ctx, bns.ProtocolID(), []byte("Resolve"), []byte("id"), []byte("alice"))
	require.NoError(err)
	require.Equal("1111", string(out))
}

func TestFactory_Persistence(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cfg := db.DefaultConfig
	cfg.DbPath = filepath.Join(t.TempDir(), "state.db")

	sf := newFactory(t, DefaultDBOption(cfg))
	require.NoError(sf.Start(ctx))
	_, err := sf.ApplyBlock(ctx, 5, []*action.Envelope{
		action.NewEnvelope(identityset.Address(0), action.NewTransfer(identityset.Address(1), big.NewInt(100))),
	})
	require.NoError(err)
	require.NoError(sf.Stop(ctx))

	// genesis states are not created again on restart
	sf = newFactory(t, DefaultDBOption(cfg))
	require.NoError(sf.Start(ctx))
	defer func() {
		require.NoError(sf.Stop(ctx))
	}()
	height, err := sf.Height()
	require.NoError(err)
	require.Equal(uint64(5), height)
	require.Equal("99999999999900", balance(t, sf, 0).String())
	require.Equal("100000000000100", balance(t, sf, 1).String())
}
