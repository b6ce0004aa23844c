// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	accountutil "github.com/iotexproject/iotex-bns/action/protocol/account/util"
	"github.com/iotexproject/iotex-bns/blockchain/genesis"
	"github.com/iotexproject/iotex-bns/db/batch"
	"github.com/iotexproject/iotex-bns/state"
	"github.com/iotexproject/iotex-bns/test/identityset"
	"github.com/iotexproject/iotex-bns/test/mock/mock_chainmanager"
)

var (
	_initBalance = big.NewInt(1000000000000)
	// the price function used by the reference scenario
	_testPriceFunction = action.PriceFunction{
		Buckets:          [action.PriceBuckets]uint64{7, 6, 5, 4, 3, 2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		Base:             4,
		Coeff:            250,
		NonAlphaDiscount: 10,
		NoVowelDiscount:  10,
	}
)

type testEnv struct {
	p      *Protocol
	sm     protocol.StateManager
	height uint64
}

func testProtocol(t *testing.T, test func(*testing.T, *testEnv), opts ...func(*genesis.BNS)) {
	ctrl := gomock.NewController(t)

	env := &testEnv{}
	sm := mock_chainmanager.NewMockStateManager(ctrl)
	cb := batch.NewCachedBatch()

	sm.EXPECT().State(gomock.Any(), gomock.Any()).DoAndReturn(
		func(s interface{}, opts ...protocol.StateOption) (uint64, error) {
			cfg, err := protocol.CreateStateConfig(opts...)
			if err != nil {
				return 0, err
			}
			val, err := cb.Get(cfg.Namespace, cfg.Key)
			if err != nil {
				return 0, state.ErrStateNotExist
			}
			return env.height, state.Deserialize(s, val)
		}).AnyTimes()
	sm.EXPECT().PutState(gomock.Any(), gomock.Any()).DoAndReturn(
		func(s interface{}, opts ...protocol.StateOption) (uint64, error) {
			cfg, err := protocol.CreateStateConfig(opts...)
			if err != nil {
				return 0, err
			}
			ss, err := state.Serialize(s)
			if err != nil {
				return 0, err
			}
			cb.Put(cfg.Namespace, cfg.Key, ss, "failed to put state")
			return env.height, nil
		}).AnyTimes()
	sm.EXPECT().Height().DoAndReturn(func() (uint64, error) { return env.height, nil }).AnyTimes()
	sm.EXPECT().Snapshot().DoAndReturn(cb.Snapshot).AnyTimes()
	sm.EXPECT().Revert(gomock.Any()).DoAndReturn(cb.RevertSnapshot).AnyTimes()

	cfg := genesis.Default.BNS
	for _, opt := range opts {
		opt(&cfg)
	}
	p, err := NewProtocol(cfg)
	require.NoError(t, err)
	env.p = p
	env.sm = sm
	for i := 0; i < identityset.Size(); i++ {
		require.NoError(t, accountutil.Credit(sm, identityset.Address(i), _initBalance))
	}
	test(t, env)
}

func (env *testEnv) ctx(caller address.Address) context.Context {
	ctx := protocol.WithBlockCtx(context.Background(), protocol.BlockCtx{BlockHeight: env.height})
	return protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     caller,
		ActionHash: hash.Hash256b([]byte(caller.String())),
	})
}

// run handles act at the current height and returns the receipt
func (env *testEnv) run(t *testing.T, caller int, act action.Action) *action.Receipt {
	require.NoError(t, act.SanityCheck())
	receipt, err := env.p.Handle(env.ctx(identityset.Address(caller)), act, env.sm)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.Equal(t, env.height, receipt.BlockHeight)
	return receipt
}

// mustSucceed handles act and requires it to succeed
func (env *testEnv) mustSucceed(t *testing.T, caller int, act action.Action) *action.Receipt {
	receipt := env.run(t, caller, act)
	require.True(t, receipt.Succeeded(), receipt.Message)
	return receipt
}

// mustFail handles act and requires it to fail with the error of code
func (env *testEnv) mustFail(t *testing.T, caller int, act action.Action, expected *Error) {
	receipt := env.run(t, caller, act)
	require.Equal(t, expected.Code, receipt.Status, receipt.Message)
	require.Empty(t, receipt.ReturnValue)
}

func (env *testEnv) balance(t *testing.T, idx int) *big.Int {
	acct, err := accountutil.LoadAccount(env.sm, identityset.Address(idx))
	require.NoError(t, err)
	return acct.Balance
}

func (env *testEnv) resolve(t *testing.T, ns, name string) string {
	zonefile, err := env.p.Resolve(env.sm, ns, name)
	require.NoError(t, err)
	return hexutil.Encode(zonefile)
}

// launch brings namespace ns through preorder, reveal and ready starting at the current height
func (env *testEnv) launch(t *testing.T, ns string, pf action.PriceFunction, lifetime uint64) {
	salt := []byte("salt")
	env.mustSucceed(t, identityset.NamespaceOwnerIdx, action.NewNamespacePreorder(
		nsCommitment(ns, salt), env.p.cfg.NamespacePrice(len(ns))))
	env.height++
	env.mustSucceed(t, identityset.NamespaceOwnerIdx, action.NewNamespaceReveal(
		ns, salt, pf, lifetime, identityset.Address(identityset.ImporterIdx)))
	env.height++
	env.mustSucceed(t, identityset.NamespaceOwnerIdx, action.NewNamespaceReady(ns))
}

// register brings name in namespace ns through preorder and register for caller, burning burn
func (env *testEnv) register(t *testing.T, caller int, ns, name string, burn *big.Int, zonefile string) {
	salt := []byte("pepper")
	env.mustSucceed(t, caller, action.NewNamePreorder(ns, nameCommitment(name, ns, salt), burn))
	env.height++
	env.mustSucceed(t, caller, action.NewNameRegister(ns, name, salt, []byte(zonefile)))
}

func nsCommitment(ns string, salt []byte) []byte {
	h := NamespaceCommitment(ns, salt)
	return h[:]
}

func nameCommitment(name, ns string, salt []byte) []byte {
	h := NameCommitment(name, ns, salt)
	return h[:]
}

func decodeUint64(t *testing.T, b []byte) uint64 {
	var v uint64
	require.NoError(t, rlp.DecodeBytes(b, &v))
	return v
}

func TestProtocol_Scenario(t *testing.T) {
	testProtocol(t, func(t *testing.T, env *testEnv) {
		require := require.New(t)
		var (
			owner    = identityset.NamespaceOwnerIdx
			importer = identityset.ImporterIdx
			alice    = identityset.AliceIdx
			bob      = identityset.BobIdx
			charlie  = identityset.CharlieIdx
			salt     = []byte("2222")
		)

		env.height = 2
		receipt := env.mustSucceed(t, owner, action.NewNamespacePreorder(
			nsCommitment("blockstack", salt), big.NewInt(640000000)))
		require.Equal(uint64(12), decodeUint64(t, receipt.ReturnValue))

		env.height = 3
		env.mustSucceed(t, owner, action.NewNamespaceReveal(
			"blockstack", salt, _testPriceFunction, 10000, identityset.Address(importer)))

		env.height = 4
		env.mustSucceed(t, importer, action.NewNameImport(
			"blockstack", "alice", identityset.Address(alice), []byte("4444")))
		require.Equal("0x34343434", env.resolve(t, "blockstack", "alice"))
		env.mustFail(t, alice, action.NewNameUpdate("blockstack", "alice", []byte("4444")), ErrNamespaceNotLaunched)
		env.mustFail(t, bob, action.NewNameImport("blockstack", "bob", nil, []byte("4444")), ErrNamespaceUnauthorizedImporter)

		env.height = 5
		env.mustSucceed(t, owner, action.NewNamespaceReady("blockstack"))

		env.height = 6
		bobSalt := []byte("3333")
		receipt = env.mustSucceed(t, bob, action.NewNamePreorder(
			"blockstack", nameCommitment("bob", "blockstack", bobSalt), big.NewInt(256000)))
		require.Equal(uint64(20), decodeUint64(t, receipt.ReturnValue))

		env.height = 7
		env.mustSucceed(t, bob, action.NewNameRegister("blockstack", "bob", bobSalt, []byte("1111")))
		require.Equal("0x31313131", env.resolve(t, "blockstack", "bob"))

		env.height = 8
		env.mustSucceed(t, bob, action.NewNameUpdate("blockstack", "bob", []byte("2222")))
		require.Equal("0x32323232", env.resolve(t, "blockstack", "bob"))

		env.height = 9
		env.mustFail(t, charlie, action.NewNameUpdate("blockstack", "bob", []byte("4444")), ErrNameOperationUnauthorized)
		require.Equal("0x32323232", env.resolve(t, "blockstack", "bob"))
	}, func(cfg *genesis.BNS) {
		// u20 is the expiry height of bob's preorder at 6, not the ttl
		cfg.NamePreorderTTL = 14
	})
}

func TestProtocol_HandleRevertsOnFailure(t *testing.T) {
	testProtocol(t, func(t *testing.T, env *testEnv) {
		require := require.New(t)
		env.height = 1
		env.launch(t, "id", _testPriceFunction, 0)

		// rejected preorders leave the balance untouched
		env.height = 10
		before := env.balance(t, identityset.BobIdx)
		h := nameCommitment("bob", "id", []byte("pepper"))
		env.mustSucceed(t, identityset.BobIdx, action.NewNamePreorder("id", h, big.NewInt(256000)))
		require.Equal(new(big.Int).Sub(before, big.NewInt(256000)), env.balance(t, identityset.BobIdx))
		env.mustFail(t, identityset.BobIdx, action.NewNamePreorder("id", h, big.NewInt(256000)), ErrNamePreorderAlreadyExists)
		require.Equal(new(big.Int).Sub(before, big.NewInt(256000)), env.balance(t, identityset.BobIdx))

		// insufficient funds
		h = nameCommitment("charlie", "id", []byte("pepper"))
		env.mustFail(t, identityset.CharlieIdx, action.NewNamePreorder("id", h, new(big.Int).Add(_initBalance, big.NewInt(1))), ErrInsufficientFunds)
		require.Equal(_initBalance, env.balance(t, identityset.CharlieIdx))
	})
}

func TestProtocol_HandleUnknownAction(t *testing.T) {
	testProtocol(t, func(t *testing.T, env *testEnv) {
		receipt, err := env.p.Handle(env.ctx(identityset.Address(0)), action.NewTransfer(identityset.Address(1), big.NewInt(1)), env.sm)
		require.NoError(t, err)
		require.Nil(t, receipt)
	})
}

func TestProtocol_HandleSystemError(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	sm := mock_chainmanager.NewMockStateManager(ctrl)
	errIO := errors.New("disk failure")
	sm.EXPECT().Snapshot().Return(1).Times(1)
	sm.EXPECT().Revert(1).Return(nil).Times(1)
	sm.EXPECT().State(gomock.Any(), gomock.Any()).Return(uint64(0), errIO).AnyTimes()

	p, err := NewProtocol(genesis.Default.BNS)
	require.NoError(err)
	ctx := protocol.WithBlockCtx(context.Background(), protocol.BlockCtx{BlockHeight: 1})
	ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{Caller: identityset.Address(0)})
	receipt, err := p.Handle(ctx, action.NewNamespaceReady("id"), sm)
	require.Nil(receipt)
	require.Equal(errIO, errors.Cause(err))
}

func TestNewProtocol(t *testing.T) {
	cfg := genesis.Default.BNS
	cfg.NamespacePriceStrs = []string{"1"}
	_, err := NewProtocol(cfg)
	require.Error(t, err)
}

func TestProtocol_ReadState(t *testing.T) {
	testProtocol(t, func(t *testing.T, env *testEnv) {
		require := require.New(t)
		ctx := context.Background()
		env.height = 1
		env.launch(t, "id", _testPriceFunction, 100)
		env.height = 10
		env.register(t, identityset.BobIdx, "id", "bob", big.NewInt(256000), "1111")

		out, err := env.p.ReadState(ctx, env.sm, []byte(_methodResolve), []byte("id"), []byte("bob"))
		require.NoError(err)
		require.Equal("1111", string(out))

		out, err = env.p.ReadState(ctx, env.sm, []byte(_methodNamePrice), []byte("id"), []byte("bob"))
		require.NoError(err)
		require.Equal("256000", string(out))

		out, err = env.p.ReadState(ctx, env.sm, []byte(_methodNamespacePrice), []byte("id"))
		require.NoError(err)
		require.Equal("64000000000", string(out))

		out, err = env.p.ReadState(ctx, env.sm, []byte(_methodCanNameBeRegistered), []byte("id"), []byte("bob"))
		require.NoError(err)
		require.Equal("false", string(out))
		out, err = env.p.ReadState(ctx, env.sm, []byte(_methodCanNameBeRegistered), []byte("id"), []byte("carl"))
		require.NoError(err)
		require.Equal("true", string(out))

		out, err = env.p.ReadState(ctx, env.sm, []byte(_methodNameProperties), []byte("id"), []byte("bob"))
		require.NoError(err)
		var n Name
		require.NoError(n.Deserialize(out))
		require.Equal(identityset.Address(identityset.BobIdx).String(), n.Owner.String())
		require.Equal(uint64(11), n.LeaseStartedAt)

		out, err = env.p.ReadState(ctx, env.sm, []byte(_methodNamespaceProperties), []byte("id"))
		require.NoError(err)
		var ns Namespace
		require.NoError(ns.Deserialize(out))
		require.True(ns.Launched)
		require.Equal(_testPriceFunction, ns.PriceFunction)

		_, err = env.p.ReadState(ctx, env.sm, []byte(_methodResolve), []byte("id"))
		require.Error(err)
		_, err = env.p.ReadState(ctx, env.sm, []byte("Unknown"))
		require.Error(err)
		_, err = env.p.ReadState(ctx, env.sm, []byte(_methodResolve), []byte("nope"), []byte("bob"))
		require.True(errors.Is(err, ErrNamespaceNotFound))
	})
}
