// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package bns

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-bns/test/identityset"
)

func TestCommitmentHash(t *testing.T) {
	require := require.New(t)
	require.Equal(NameCommitment("alice", "id", []byte("salt")), NameCommitment("alice", "id", []byte("salt")))
	require.NotEqual(NameCommitment("ab", "c", []byte("salt")), NameCommitment("a", "bc", []byte("salt")))
	require.NotEqual(NameCommitment("alice", "id", []byte("salt")), NameCommitment("alice", "id", []byte("pepper")))
	require.NotEqual(NamespaceCommitment("id", []byte("ab")), NamespaceCommitment("ida", []byte("b")))
	require.Equal(NamespaceCommitment("alice.id", nil), NameCommitment("alice", "id", []byte{}))
	require.Equal("alice.id", FullyQualifiedName("alice", "id"))
}

func TestCommitment_Serialize(t *testing.T) {
	require := require.New(t)
	c := &Commitment{
		Hash:      NameCommitment("alice", "id", []byte("salt")),
		Owner:     identityset.Address(identityset.AliceIdx),
		Namespace: "id",
		Burned:    big.NewInt(100),
		CreatedAt: 3,
		ExpiresAt: 23,
	}
	b, err := c.Serialize()
	require.NoError(err)
	var c2 Commitment
	require.NoError(c2.Deserialize(b))
	require.Equal(c.Hash, c2.Hash)
	require.Equal(c.Owner.String(), c2.Owner.String())
	require.Equal(c.Namespace, c2.Namespace)
	require.Equal(0, c.Burned.Cmp(c2.Burned))
	require.Equal(c.ExpiresAt, c2.ExpiresAt)
	require.False(c2.Claimed)

	require.True(c.Live(22))
	require.False(c.Live(23))
	c.Claimed = true
	require.False(c.Live(3))

	require.Error(c2.Deserialize([]byte{0x1}))
}

func TestCommitAndConsume(t *testing.T) {
	testProtocol(t, func(t *testing.T, env *testEnv) {
		require := require.New(t)
		var (
			alice = identityset.Address(identityset.AliceIdx)
			bob   = identityset.Address(identityset.BobIdx)
			h     = NameCommitment("alice", "id", []byte("salt"))
			burn  = big.NewInt(10)
		)

		_, err := consume(env.sm, nameCommits, h, alice, 1)
		require.True(errors.Is(err, ErrNamePreorderNotFound))
		require.Equal(ErrCommitmentNotFound, errors.Cause(errors.Unwrap(err)))

		expiry, err := commit(env.sm, nameCommits, h, alice, "id", burn, 1, 20)
		require.NoError(err)
		require.Equal(uint64(21), expiry)

		// a live commitment cannot be replaced, not even by its owner
		_, err = commit(env.sm, nameCommits, h, alice, "id", burn, 2, 20)
		require.True(errors.Is(err, ErrNamePreorderAlreadyExists))
		// namespace preorders live in their own keyspace
		_, err = commit(env.sm, namespaceCommits, h, bob, "", burn, 2, 20)
		require.NoError(err)
		_, err = commit(env.sm, namespaceCommits, h, bob, "", burn, 3, 20)
		require.True(errors.Is(err, ErrNamespacePreorderAlreadyExists))

		_, err = consume(env.sm, nameCommits, h, bob, 2)
		require.True(errors.Is(err, ErrNameOperationUnauthorized))

		_, err = consume(env.sm, nameCommits, h, alice, 21)
		require.True(errors.Is(err, ErrNamePreorderNotFound))
		require.Equal(ErrCommitmentExpired, errors.Cause(errors.Unwrap(err)))

		c, err := consume(env.sm, nameCommits, h, alice, 20)
		require.NoError(err)
		require.True(c.Claimed)
		require.Equal("id", c.Namespace)
		require.Equal(0, burn.Cmp(c.Burned))
		require.NoError(putCommitment(env.sm, nameCommits, c))

		_, err = consume(env.sm, nameCommits, h, alice, 20)
		require.True(errors.Is(err, ErrNamePreorderNotFound))
		require.Equal(ErrCommitmentClaimed, errors.Cause(errors.Unwrap(err)))

		// a claimed commitment frees its hash
		expiry, err = commit(env.sm, nameCommits, h, bob, "id", burn, 20, 20)
		require.NoError(err)
		require.Equal(uint64(40), expiry)
	})
}

func TestToHash160(t *testing.T) {
	require := require.New(t)
	h := NameCommitment("alice", "id", []byte("salt"))
	h2, err := toHash160(h[:], nameCommits)
	require.NoError(err)
	require.Equal(h, h2)
	_, err = toHash160(h[:19], nameCommits)
	require.True(errors.Is(err, ErrNameHashMalformed))
	_, err = toHash160(nil, namespaceCommits)
	require.True(errors.Is(err, ErrNamespaceHashMalformed))
}
