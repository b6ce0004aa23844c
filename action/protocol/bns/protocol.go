// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"context"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	accountutil "github.com/iotexproject/iotex-bns/action/protocol/account/util"
	"github.com/iotexproject/iotex-bns/blockchain/genesis"
	"github.com/iotexproject/iotex-bns/pkg/log"
)

// protocolID is the protocol ID
const protocolID = "bns"

var (
	_bnsActionMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iotex_bns_action",
			Help: "Naming actions by type and receipt status.",
		},
		[]string{"action", "status"},
	)
	_bnsBurnedMtc = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "iotex_bns_burned",
			Help: "Amount burned by preorders and renewals.",
		},
	)
)

func init() {
	prometheus.MustRegister(_bnsActionMtc)
	prometheus.MustRegister(_bnsBurnedMtc)
}

type actionRunner func(context.Context, protocol.StateManager) (interface{}, error)

// Protocol defines the protocol of the naming system. Namespaces are preordered, revealed, filled by their importer
// and launched; names are then preordered and registered in them, and managed by their owners.
type Protocol struct {
	cfg genesis.BNS
}

// NewProtocol instantiates the naming protocol
func NewProtocol(cfg genesis.BNS) (*Protocol, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid naming protocol config")
	}
	return &Protocol{cfg: cfg}, nil
}

// ProtocolID returns the protocol ID
func ProtocolID() string { return protocolID }

// Register registers the protocol with a unique ID
func (p *Protocol) Register(r *protocol.Registry) error {
	return r.Register(protocolID, p)
}

// Handle handles a naming action. A rejected action yields a receipt with the failure code as status and leaves the
// state untouched.
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	run := p.handler(act)
	if run == nil {
		return nil, nil
	}
	var (
		actionCtx = protocol.MustGetActionCtx(ctx)
		blkCtx    = protocol.MustGetBlockCtx(ctx)
		name      = action.Name(act)
		receipt   = &action.Receipt{
			Status:      action.SuccessReceiptStatus,
			BlockHeight: blkCtx.BlockHeight,
			ActionHash:  actionCtx.ActionHash,
		}
	)
	snapshot := sm.Snapshot()
	result, err := run(ctx, sm)
	if err != nil {
		if rerr := sm.Revert(snapshot); rerr != nil {
			return nil, errors.Wrapf(rerr, "failed to revert %s", name)
		}
		code, ok := CodeOf(err)
		if !ok {
			return nil, errors.Wrapf(err, "failed to handle %s", name)
		}
		receipt.Status = code
		receipt.Message = err.Error()
		_bnsActionMtc.WithLabelValues(name, strconv.FormatUint(code, 10)).Inc()
		log.L().Debug("Naming action rejected.",
			zap.String("action", name),
			zap.Uint64("height", blkCtx.BlockHeight),
			zap.String("caller", actionCtx.Caller.String()),
			zap.Error(err),
		)
		return receipt, nil
	}
	if receipt.ReturnValue, err = rlp.EncodeToBytes(result); err != nil {
		return nil, errors.Wrapf(err, "failed to encode result of %s", name)
	}
	_bnsActionMtc.WithLabelValues(name, "success").Inc()
	return receipt, nil
}

func (p *Protocol) handler(act action.Action) actionRunner {
	switch act := act.(type) {
	case *action.NamespacePreorder:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.namespacePreorder(ctx, sm, act)
		}
	case *action.NamespaceReveal:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.namespaceReveal(ctx, sm, act)
		}
	case *action.NameImport:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.nameImport(ctx, sm, act)
		}
	case *action.NamespaceReady:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.namespaceReady(ctx, sm, act)
		}
	case *action.NamespaceUpdatePrice:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.namespaceUpdatePrice(ctx, sm, act)
		}
	case *action.NamespaceRevokePriceEdition:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.namespaceRevokePriceEdition(ctx, sm, act)
		}
	case *action.NamePreorder:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.namePreorder(ctx, sm, act)
		}
	case *action.NameRegister:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.nameRegister(ctx, sm, act)
		}
	case *action.NameUpdate:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.nameUpdate(ctx, sm, act)
		}
	case *action.NameRenew:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.nameRenew(ctx, sm, act)
		}
	case *action.NameTransfer:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.nameTransfer(ctx, sm, act)
		}
	case *action.NameRevoke:
		return func(ctx context.Context, sm protocol.StateManager) (interface{}, error) {
			return p.nameRevoke(ctx, sm, act)
		}
	}
	return nil
}

// burn destroys amount from the balance of caller
func (p *Protocol) burn(sm protocol.StateManager, caller address.Address, amount *big.Int) error {
	acct, err := accountutil.LoadAccount(sm, caller)
	if err != nil {
		return errors.Wrapf(err, "failed to load the account of %s", caller.String())
	}
	if !acct.HasSufficientBalance(amount) {
		return ErrInsufficientFunds.wrapf("account %s balance %s, required amount %s", caller.String(), acct.Balance, amount)
	}
	if err := accountutil.Debit(sm, caller, amount); err != nil {
		return err
	}
	f, _ := new(big.Float).SetInt(amount).Float64()
	_bnsBurnedMtc.Add(f)
	return nil
}

func callerAndHeight(ctx context.Context) (address.Address, uint64) {
	return protocol.MustGetActionCtx(ctx).Caller, protocol.MustGetBlockCtx(ctx).BlockHeight
}
