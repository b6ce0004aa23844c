// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/db"
	"github.com/iotexproject/iotex-bns/db/batch"
	"github.com/iotexproject/iotex-bns/pkg/log"
	"github.com/iotexproject/iotex-bns/pkg/util/byteutil"
	"github.com/iotexproject/iotex-bns/state"
)

var (
	_dbBatchSizeMtc = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "iotex_bns_db_batch_size",
			Help: "DB batch size of the last committed block",
		},
		[]string{},
	)
)

func init() {
	prometheus.MustRegister(_dbBatchSizeMtc)
}

// workingSet buffers the state changes of one block on top of the committed store
type workingSet struct {
	height uint64
	dao    db.KVStore
	cb     batch.CachedBatch
}

func newWorkingSet(height uint64, dao db.KVStore) *workingSet {
	return &workingSet{
		height: height,
		dao:    dao,
		cb:     batch.NewCachedBatch(),
	}
}

// Height returns the height of the block being built
func (ws *workingSet) Height() (uint64, error) {
	return ws.height, nil
}

// State reads a state, pending changes first
func (ws *workingSet) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	value, err := ws.cb.Get(cfg.Namespace, cfg.Key)
	switch errors.Cause(err) {
	case nil:
	case batch.ErrAlreadyDeleted:
		return ws.height, errors.Wrapf(state.ErrStateNotExist, "state of %s %x deleted", cfg.Namespace, cfg.Key)
	case batch.ErrNotExist:
		if value, err = readKV(ws.dao, cfg.Namespace, cfg.Key); err != nil {
			return ws.height, err
		}
	default:
		return 0, err
	}
	return ws.height, state.Deserialize(s, value)
}

// PutState puts a state into the pending changes
func (ws *workingSet) PutState(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	ss, err := state.Serialize(s)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to convert state %v to bytes", s)
	}
	ws.cb.Put(cfg.Namespace, cfg.Key, ss, "error when putting k = %x")
	return ws.height, nil
}

// DelState deletes a state
func (ws *workingSet) DelState(opts ...protocol.StateOption) (uint64, error) {
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	ws.cb.Delete(cfg.Namespace, cfg.Key, "error when deleting k = %x")
	return ws.height, nil
}

// Snapshot returns the index of a snapshot of pending changes
func (ws *workingSet) Snapshot() int {
	return ws.cb.Snapshot()
}

// Revert drops the pending changes made after the snapshot
func (ws *workingSet) Revert(snapshot int) error {
	return ws.cb.RevertSnapshot(snapshot)
}

// runAction hands the envelope to the registered protocols in order, the first receipt wins. Invalid envelopes and
// envelopes no protocol handles get a failure receipt, errors abort the block.
func (ws *workingSet) runAction(ctx context.Context, registry *protocol.Registry, elp *action.Envelope) (*action.Receipt, error) {
	fail := func(h hash.Hash256, msg string) *action.Receipt {
		return &action.Receipt{
			Status:      action.FailureReceiptStatus,
			BlockHeight: ws.height,
			ActionHash:  h,
			Message:     msg,
		}
	}
	if err := elp.SanityCheck(); err != nil {
		h, _ := elp.Hash()
		return fail(h, err.Error()), nil
	}
	h, err := elp.Hash()
	if err != nil {
		return fail(h, err.Error()), nil
	}
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{BlockHeight: ws.height})
	ctx = protocol.WithActionCtx(ctx, protocol.ActionCtx{
		Caller:     elp.Caller(),
		ActionHash: h,
	})
	for _, p := range registry.All() {
		receipt, err := p.Handle(ctx, elp.Action(), ws)
		if err != nil {
			return nil, errors.Wrapf(err, "error when action %x mutates states", h)
		}
		if receipt != nil {
			return receipt, nil
		}
	}
	log.L().Debug("Action not handled.", zap.String("action", action.Name(elp.Action())))
	return fail(h, "no protocol handles "+action.Name(elp.Action())), nil
}

// createGenesisStates runs the genesis state creators of the registered protocols
func (ws *workingSet) createGenesisStates(ctx context.Context, registry *protocol.Registry) error {
	ctx = protocol.WithBlockCtx(ctx, protocol.BlockCtx{BlockHeight: ws.height})
	for _, p := range registry.All() {
		if gsc, ok := p.(protocol.GenesisStateCreator); ok {
			if err := gsc.CreateGenesisStates(ctx, ws); err != nil {
				return errors.Wrap(err, "failed to create genesis states for protocol")
			}
		}
	}
	return nil
}

// commit writes the pending changes and the new height to the store
func (ws *workingSet) commit() error {
	ws.cb.Put(AccountKVNamespace, []byte(CurrentHeightKey), byteutil.Uint64ToBytesBigEndian(ws.height), "failed to store accounting height")
	_dbBatchSizeMtc.WithLabelValues().Set(float64(ws.cb.Size()))
	if err := ws.dao.WriteBatch(ws.cb); err != nil {
		return errors.Wrap(err, "failed to commit working set")
	}
	return nil
}

func readKV(kv db.KVStore, ns string, key []byte) ([]byte, error) {
	value, err := kv.Get(ns, key)
	if errors.Cause(err) == db.ErrNotExist {
		return nil, errors.Wrapf(state.ErrStateNotExist, "failed to get state of ns = %s and key = %x", ns, key)
	}
	return value, err
}
