// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package factory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action"
	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/db"
	"github.com/iotexproject/iotex-bns/pkg/lifecycle"
	"github.com/iotexproject/iotex-bns/pkg/log"
	"github.com/iotexproject/iotex-bns/pkg/util/byteutil"
	"github.com/iotexproject/iotex-bns/state"
)

const (
	// AccountKVNamespace is the namespace of the factory's own bookkeeping
	AccountKVNamespace = "AccountKV"
	// CurrentHeightKey indicates the key of current factory height in underlying DB
	CurrentHeightKey = "currentHeight"
)

var (
	// ErrInvalidHeight indicates a block that does not extend the tip
	ErrInvalidHeight = errors.New("invalid block height")
	// ErrProtocolNotFound indicates a read of an unregistered protocol
	ErrProtocolNotFound = errors.New("protocol not found")
)

type (
	// Factory defines an interface for managing states
	Factory interface {
		lifecycle.StartStopper
		protocol.StateReader
		// ApplyBlock runs the envelopes of a block at height and commits their state changes
		ApplyBlock(context.Context, uint64, []*action.Envelope) ([]*action.Receipt, error)
		// ReadState reads the state of a protocol at the tip
		ReadState(context.Context, string, []byte, ...[]byte) ([]byte, error)
	}

	// factory implements Factory, tracks state changes of blocks and batch-commits them to DB
	factory struct {
		lifecycle          lifecycle.Lifecycle
		mutex              sync.RWMutex
		currentChainHeight uint64
		registry           *protocol.Registry
		dao                db.KVStore
	}
)

// Option sets Factory construction parameter
type Option func(*factory) error

// RegistryOption sets the protocols the factory runs
func RegistryOption(reg *protocol.Registry) Option {
	return func(sf *factory) error {
		if reg == nil {
			return errors.New("invalid empty registry")
		}
		sf.registry = reg
		return nil
	}
}

// PrecreatedDBOption uses pre-created KV store for state factory
func PrecreatedDBOption(kv db.KVStore) Option {
	return func(sf *factory) error {
		if kv == nil {
			return errors.New("invalid empty db")
		}
		sf.dao = kv
		return nil
	}
}

// DefaultDBOption creates the KV store from config
func DefaultDBOption(cfg db.Config) Option {
	return func(sf *factory) error {
		kv, err := db.CreateKVStore(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to create db")
		}
		sf.dao = kv
		return nil
	}
}

// InMemDBOption creates an in-memory KV store for state factory
func InMemDBOption() Option {
	return func(sf *factory) error {
		sf.dao = db.NewMemKVStore()
		return nil
	}
}

// NewFactory creates a new state factory
func NewFactory(opts ...Option) (Factory, error) {
	sf := &factory{
		registry: protocol.NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(sf); err != nil {
			log.S().Errorf("Failed to execute state factory creation option %p: %v", opt, err)
			return nil, err
		}
	}
	if sf.dao == nil {
		return nil, errors.New("no db for state factory")
	}
	sf.lifecycle.Add(sf.dao)
	return sf, nil
}

func (sf *factory) Start(ctx context.Context) error {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	if err := sf.lifecycle.OnStart(ctx); err != nil {
		return err
	}
	h, err := sf.dao.Get(AccountKVNamespace, []byte(CurrentHeightKey))
	switch errors.Cause(err) {
	case nil:
		sf.currentChainHeight = byteutil.BytesToUint64BigEndian(h)
		log.L().Info("State factory resumed.", zap.Uint64("height", sf.currentChainHeight))
		return nil
	case db.ErrNotExist:
	default:
		return errors.Wrap(err, "failed to get factory's height from underlying DB")
	}
	// init the state factory
	ws := newWorkingSet(0, sf.dao)
	if err := ws.createGenesisStates(ctx, sf.registry); err != nil {
		return err
	}
	if err := ws.commit(); err != nil {
		return errors.Wrap(err, "failed to commit genesis states")
	}
	sf.currentChainHeight = 0
	return nil
}

func (sf *factory) Stop(ctx context.Context) error {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	return sf.lifecycle.OnStop(ctx)
}

// Height returns factory's height
func (sf *factory) Height() (uint64, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	return sf.currentChainHeight, nil
}

// State returns a committed state at the tip
func (sf *factory) State(s interface{}, opts ...protocol.StateOption) (uint64, error) {
	sf.mutex.RLock()
	defer sf.mutex.RUnlock()
	cfg, err := protocol.CreateStateConfig(opts...)
	if err != nil {
		return 0, err
	}
	value, err := readKV(sf.dao, cfg.Namespace, cfg.Key)
	if err != nil {
		return sf.currentChainHeight, err
	}
	return sf.currentChainHeight, state.Deserialize(s, value)
}

func (sf *factory) ApplyBlock(ctx context.Context, height uint64, elps []*action.Envelope) ([]*action.Receipt, error) {
	sf.mutex.Lock()
	defer sf.mutex.Unlock()
	if height <= sf.currentChainHeight {
		return nil, errors.Wrapf(ErrInvalidHeight, "block height %d, tip %d", height, sf.currentChainHeight)
	}
	ws := newWorkingSet(height, sf.dao)
	receipts := make([]*action.Receipt, 0, len(elps))
	for _, elp := range elps {
		receipt, err := ws.runAction(ctx, sf.registry, elp)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to apply block %d", height)
		}
		receipts = append(receipts, receipt)
	}
	if err := ws.commit(); err != nil {
		return nil, err
	}
	sf.currentChainHeight = height
	log.L().Debug("Block applied.", zap.Uint64("height", height), zap.Int("actions", len(elps)))
	return receipts, nil
}

func (sf *factory) ReadState(ctx context.Context, id string, method []byte, args ...[]byte) ([]byte, error) {
	p, ok := sf.registry.Find(id)
	if !ok {
		return nil, errors.Wrapf(ErrProtocolNotFound, "protocol %s", id)
	}
	return p.ReadState(ctx, sf, method, args...)
}
