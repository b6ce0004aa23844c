// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	accountutil "github.com/iotexproject/iotex-bns/action/protocol/account/util"
	"github.com/iotexproject/iotex-bns/blockchain/genesis"
	"github.com/iotexproject/iotex-bns/pkg/log"
)

// protocolID is the protocol ID
const protocolID = "account"

// Protocol defines the protocol of handling account
type Protocol struct {
	cfg genesis.Account
}

// NewProtocol instantiates the protocol of account
func NewProtocol(cfg genesis.Account) *Protocol {
	return &Protocol{cfg: cfg}
}

// ProtocolID returns the protocol ID
func ProtocolID() string { return protocolID }

// Handle handles an account
func (p *Protocol) Handle(ctx context.Context, act action.Action, sm protocol.StateManager) (*action.Receipt, error) {
	switch act := act.(type) {
	case *action.Transfer:
		return p.handleTransfer(ctx, act, sm)
	}
	return nil, nil
}

// ReadState read the state on blockchain via protocol
func (p *Protocol) ReadState(ctx context.Context, sr protocol.StateReader, method []byte, args ...[]byte) ([]byte, error) {
	switch string(method) {
	case "Balance":
		if len(args) != 1 {
			return nil, errors.Errorf("invalid number of arguments %d", len(args))
		}
		addr, err := address.FromString(string(args[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode address %s", args[0])
		}
		account, err := accountutil.LoadAccount(sr, addr)
		if err != nil {
			return nil, err
		}
		return []byte(account.Balance.String()), nil
	default:
		return nil, errors.Errorf("unknown method %s", method)
	}
}

// Register registers the protocol with a unique ID
func (p *Protocol) Register(r *protocol.Registry) error {
	return r.Register(protocolID, p)
}

// CreateGenesisStates initializes the balances of the genesis accounts
func (p *Protocol) CreateGenesisStates(ctx context.Context, sm protocol.StateManager) error {
	blkCtx := protocol.MustGetBlockCtx(ctx)
	if blkCtx.BlockHeight != 0 {
		return errors.Errorf("Cannot create genesis state for height %d", blkCtx.BlockHeight)
	}
	addrs, amounts := p.cfg.InitBalances()
	for i, addr := range addrs {
		if err := accountutil.Credit(sm, addr, amounts[i]); err != nil {
			return errors.Wrapf(err, "failed to set initial balance of %s", addr.String())
		}
	}
	log.L().Info("Created genesis accounts.", zap.Int("accounts", len(addrs)))
	return nil
}

// handleTransfer handles a transfer
func (p *Protocol) handleTransfer(ctx context.Context, tsf *action.Transfer, sm protocol.StateManager) (*action.Receipt, error) {
	actionCtx := protocol.MustGetActionCtx(ctx)
	blkCtx := protocol.MustGetBlockCtx(ctx)
	receipt := &action.Receipt{
		Status:      action.SuccessReceiptStatus,
		BlockHeight: blkCtx.BlockHeight,
		ActionHash:  actionCtx.ActionHash,
	}
	sender, err := accountutil.LoadAccount(sm, actionCtx.Caller)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load the account of sender %s", actionCtx.Caller.String())
	}
	if !sender.HasSufficientBalance(tsf.Amount()) {
		receipt.Status = action.FailureReceiptStatus
		receipt.Message = errors.Errorf(
			"sender %s balance %s, required amount %s",
			actionCtx.Caller.String(),
			sender.Balance,
			tsf.Amount(),
		).Error()
		return receipt, nil
	}
	if err := accountutil.Debit(sm, actionCtx.Caller, tsf.Amount()); err != nil {
		return nil, err
	}
	if err := accountutil.Credit(sm, tsf.Recipient(), tsf.Amount()); err != nil {
		return nil, err
	}
	log.L().Debug("Transferred.",
		zap.String("sender", actionCtx.Caller.String()),
		zap.String("recipient", tsf.Recipient().String()),
		zap.String("amount", tsf.Amount().String()),
	)
	return receipt, nil
}
