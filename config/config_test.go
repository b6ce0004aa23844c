// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-bns/db"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	require := require.New(t)
	cfg, err := New(nil)
	require.NoError(err)
	require.Equal(db.DBBolt, cfg.Chain.StateDB.DBType)
	require.Equal(Default.Genesis.BNS, cfg.Genesis.BNS)
}

func TestNewConfigWithWrongConfigPath(t *testing.T) {
	_, err := New([]string{"wrong_path"})
	require.Error(t, err)
}

func TestNewConfigWithOverride(t *testing.T) {
	require := require.New(t)
	t.Setenv("BNS_STATE_DB", "/tmp/bns-state.db")
	path := writeConfig(t, `
chain:
    stateDB:
        dbPath: ${BNS_STATE_DB}
        dbType: pebbledb
genesis:
    bns:
        namePreorderTTL: 14
        nameGracePeriod: 7
log:
    stdLogRedirect: true
`)
	cfg, err := New([]string{path})
	require.NoError(err)
	require.Equal("/tmp/bns-state.db", cfg.Chain.StateDB.DbPath)
	require.Equal(db.DBPebble, cfg.Chain.StateDB.DBType)
	require.Equal(uint64(14), cfg.Genesis.BNS.NamePreorderTTL)
	require.Equal(uint64(7), cfg.Genesis.BNS.NameGracePeriod)
	require.Equal(Default.Genesis.BNS.NamespacePreorderTTL, cfg.Genesis.BNS.NamespacePreorderTTL)
	require.True(cfg.Log.RedirectStdLog)
}

func TestNewConfigInvalid(t *testing.T) {
	path := writeConfig(t, `
genesis:
    bns:
        namespacePrices: ["1", "2"]
`)
	_, err := New([]string{path})
	require.Equal(t, ErrInvalidCfg, errors.Cause(err))

	cfg, err := New([]string{path}, DoNotValidate)
	require.NoError(t, err)
	require.Len(t, cfg.Genesis.BNS.NamespacePriceStrs, 2)
}

func TestValidateChain(t *testing.T) {
	require := require.New(t)
	cfg := Default
	require.NoError(ValidateChain(cfg))

	cfg.Chain.StateDB.DbPath = ""
	require.Equal(ErrInvalidCfg, errors.Cause(ValidateChain(cfg)))
	cfg.Chain.StateDB.DBType = db.DBMemory
	require.NoError(ValidateChain(cfg))
	cfg.Chain.StateDB.DBType = "leveldb"
	require.Equal(ErrInvalidCfg, errors.Cause(ValidateChain(cfg)))
}

func TestValidateGenesis(t *testing.T) {
	require := require.New(t)
	cfg := Default
	require.NoError(ValidateGenesis(cfg))
	cfg.Genesis.BNS.NamePreorderTTL = 0
	require.Equal(ErrInvalidCfg, errors.Cause(ValidateGenesis(cfg)))
}
