// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-bns/db/batch"
)

var (
	_bucket1 = "test_ns1"
	_bucket2 = "test_ns2"
	_testK1  = [3][]byte{[]byte("key_1"), []byte("key_2"), []byte("key_3")}
	_testV1  = [3][]byte{[]byte("value_1"), []byte("value_2"), []byte("value_3")}
	_testK2  = [3][]byte{[]byte("key_4"), []byte("key_5"), []byte("key_6")}
	_testV2  = [3][]byte{[]byte("value_4"), []byte("value_5"), []byte("value_6")}
)

func testKVStorePutGet(kvStore KVStore, t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	require.NoError(kvStore.Start(ctx))
	defer func() {
		require.NoError(kvStore.Stop(ctx))
	}()

	require.NoError(kvStore.Put(_bucket1, []byte("key"), []byte("value")))
	value, err := kvStore.Get(_bucket1, []byte("key"))
	require.NoError(err)
	require.Equal([]byte("value"), value)
	_, err = kvStore.Get("test_ns_1", []byte("key"))
	require.True(errors.Is(err, ErrNotExist))
	_, err = kvStore.Get(_bucket1, _testK1[0])
	require.True(errors.Is(err, ErrNotExist))

	require.NoError(kvStore.Delete(_bucket1, []byte("key")))
	_, err = kvStore.Get(_bucket1, []byte("key"))
	require.True(errors.Is(err, ErrNotExist))
	// deleting a missing key is fine
	require.NoError(kvStore.Delete(_bucket2, _testK2[0]))
}

func testKVStoreWriteBatch(kvStore KVStore, t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	require.NoError(kvStore.Start(ctx))
	defer func() {
		require.NoError(kvStore.Stop(ctx))
	}()

	b := batch.NewBatch()
	for i := 0; i < 3; i++ {
		b.Put(_bucket1, _testK1[i], _testV1[i], "failed to put")
		b.Put(_bucket2, _testK2[i], _testV2[i], "failed to put")
	}
	b.Delete(_bucket2, _testK2[1], "failed to delete")
	require.NoError(kvStore.WriteBatch(b))
	require.Equal(0, b.Size())

	for i := 0; i < 3; i++ {
		v, err := kvStore.Get(_bucket1, _testK1[i])
		require.NoError(err)
		require.Equal(_testV1[i], v)
	}
	_, err := kvStore.Get(_bucket2, _testK2[1])
	require.True(errors.Is(err, ErrNotExist))
	v, err := kvStore.Get(_bucket2, _testK2[2])
	require.NoError(err)
	require.Equal(_testV2[2], v)

	// a cached batch commits the same way
	cb := batch.NewCachedBatch()
	cb.Put(_bucket1, _testK1[0], _testV2[0], "failed to put")
	require.NoError(kvStore.WriteBatch(cb))
	v, err = kvStore.Get(_bucket1, _testK1[0])
	require.NoError(err)
	require.Equal(_testV2[0], v)
}

func TestMemKVStore(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		testKVStorePutGet(NewMemKVStore(), t)
	})
	t.Run("write batch", func(t *testing.T) {
		testKVStoreWriteBatch(NewMemKVStore(), t)
	})
}

func TestBoltDB(t *testing.T) {
	cfg := DefaultConfig
	t.Run("put and get", func(t *testing.T) {
		cfg.DbPath = filepath.Join(t.TempDir(), "bolt.db")
		testKVStorePutGet(NewBoltDB(cfg), t)
	})
	t.Run("write batch", func(t *testing.T) {
		cfg.DbPath = filepath.Join(t.TempDir(), "bolt.db")
		testKVStoreWriteBatch(NewBoltDB(cfg), t)
	})
}

func TestPebbleDB(t *testing.T) {
	cfg := DefaultConfig
	cfg.DBType = DBPebble
	t.Run("put and get", func(t *testing.T) {
		cfg.DbPath = filepath.Join(t.TempDir(), "pebble")
		testKVStorePutGet(NewPebbleDB(cfg), t)
	})
	t.Run("write batch", func(t *testing.T) {
		cfg.DbPath = filepath.Join(t.TempDir(), "pebble")
		testKVStoreWriteBatch(NewPebbleDB(cfg), t)
	})
}

func TestDBNotStarted(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	cfg.DbPath = filepath.Join(t.TempDir(), "bolt.db")
	kv := NewBoltDB(cfg)
	_, err := kv.Get(_bucket1, _testK1[0])
	require.Equal(ErrDBNotStarted, err)
	require.Equal(ErrDBNotStarted, kv.Put(_bucket1, _testK1[0], _testV1[0]))
}

func TestCreateKVStore(t *testing.T) {
	require := require.New(t)

	cfg := DefaultConfig
	cfg.DbPath = ""
	_, err := CreateKVStore(cfg)
	require.Equal(ErrEmptyDBPath, err)

	cfg.DBType = DBMemory
	kv, err := CreateKVStore(cfg)
	require.NoError(err)
	require.IsType(&memKVStore{}, kv)

	cfg.DbPath = filepath.Join(t.TempDir(), "x.db")
	for dbType, expected := range map[string]interface{}{
		DBBolt:   &BoltDB{},
		DBPebble: &PebbleDB{},
	} {
		cfg.DBType = dbType
		kv, err := CreateKVStore(cfg)
		require.NoError(err)
		require.IsType(expected, kv)
	}
	cfg.DBType = "rocksdb"
	_, err = CreateKVStore(cfg)
	require.Error(err)
}
