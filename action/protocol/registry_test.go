// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-bns/action"
)

type dummyProtocol struct {
	id string
}

func (p *dummyProtocol) Handle(context.Context, action.Action, StateManager) (*action.Receipt, error) {
	return nil, nil
}

func (p *dummyProtocol) ReadState(context.Context, StateReader, []byte, ...[]byte) ([]byte, error) {
	return nil, ErrUnimplemented
}

func (p *dummyProtocol) Register(r *Registry) error {
	return r.Register(p.id, p)
}

func TestRegister(t *testing.T) {
	require := require.New(t)
	reg := NewRegistry()
	// Case I: Normal
	require.NoError((&dummyProtocol{"1"}).Register(reg))
	// Case II: Protocol with ID is already registered
	require.Error(reg.Register("1", &dummyProtocol{"1"}))
}

func TestFind(t *testing.T) {
	require := require.New(t)
	reg := NewRegistry()
	p := &dummyProtocol{"1"}
	require.NoError(reg.Register("1", p))
	// Case I: Normal
	found, ok := reg.Find("1")
	require.True(ok)
	require.Equal(p, found)
	// Case II: Not exist
	_, ok = reg.Find("0")
	require.False(ok)
}

func TestAll(t *testing.T) {
	require := require.New(t)
	reg := NewRegistry()
	p1, p2, p3 := &dummyProtocol{"b"}, &dummyProtocol{"a"}, &dummyProtocol{"c"}
	for _, p := range []*dummyProtocol{p1, p2, p3} {
		require.NoError(p.Register(reg))
	}
	all := reg.All()
	require.Equal(3, len(all))
	// registration order is kept
	require.Equal(p1, all[0])
	require.Equal(p2, all[1])
	require.Equal(p3, all[2])
}
