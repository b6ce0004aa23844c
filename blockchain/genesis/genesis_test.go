// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	// construct a config without overriding
	cfg, err := New("")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.NamespacePreorderTTL)
	assert.Equal(t, uint64(20), cfg.NamePreorderTTL)
	assert.Equal(t, uint64(52595), cfg.NamespaceLaunchabilityTTL)
	assert.Equal(t, uint64(5000), cfg.NameGracePeriod)
	assert.Equal(t, uint64(1), cfg.MinNamePrice)
	assert.Equal(t, uint64(15), cfg.MaxPriceExponent)
	assert.Len(t, cfg.NamespacePriceStrs, NumPriceBuckets)
	assert.NoError(t, Default.BNS.Validate())
}

func TestNew(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(os.WriteFile(path, []byte(`
account:
  initBalances:
    io1mflp9m6hcgm2qcghchsdqj3z3eccrnekx9p0ms: "100"
bns:
  namePreorderTTL: 14
`), 0600))
	cfg, err := New(path)
	require.NoError(err)
	require.Equal(uint64(14), cfg.NamePreorderTTL)
	require.Equal(uint64(10), cfg.NamespacePreorderTTL)
	require.Equal("100", cfg.InitBalanceMap["io1mflp9m6hcgm2qcghchsdqj3z3eccrnekx9p0ms"])

	require.NoError(os.WriteFile(path, []byte(`
bns:
  namespacePrices: ["1", "2"]
`), 0600))
	_, err = New(path)
	require.Error(err)
}

func TestHash(t *testing.T) {
	require := require.New(t)
	cfg, err := New("")
	require.NoError(err)
	cfg2, err := New("")
	require.NoError(err)
	require.Equal(cfg.Hash(), cfg2.Hash())
	cfg2.NamePreorderTTL++
	require.NotEqual(cfg.Hash(), cfg2.Hash())
}

func TestAccount_InitBalances(t *testing.T) {
	require := require.New(t)
	InitBalanceMap := make(map[string]string, 0)
	InitBalanceMap["io1emxf8zzqckhgjde6dqd97ts0y3q496gm3fdrl6"] = "1"
	InitBalanceMap["io1mflp9m6hcgm2qcghchsdqj3z3eccrnekx9p0ms"] = "2"
	acc := Account{InitBalanceMap: InitBalanceMap}
	adds, balances := acc.InitBalances()
	require.Equal("io1emxf8zzqckhgjde6dqd97ts0y3q496gm3fdrl6", adds[0].String())
	require.Equal("io1mflp9m6hcgm2qcghchsdqj3z3eccrnekx9p0ms", adds[1].String())
	require.Equal(InitBalanceMap["io1emxf8zzqckhgjde6dqd97ts0y3q496gm3fdrl6"], balances[0].Text(10))
	require.Equal(InitBalanceMap["io1mflp9m6hcgm2qcghchsdqj3z3eccrnekx9p0ms"], balances[1].Text(10))
}

func TestNamespacePrice(t *testing.T) {
	require := require.New(t)
	b := Default.BNS
	require.Equal(big.NewInt(640000000000), b.NamespacePrice(1))
	require.Equal(big.NewInt(64000000000), b.NamespacePrice(2))
	require.Equal(big.NewInt(64000000000), b.NamespacePrice(3))
	require.Equal(big.NewInt(6400000000), b.NamespacePrice(7))
	require.Equal(big.NewInt(640000000), b.NamespacePrice(8))
	require.Equal(big.NewInt(640000000), b.NamespacePrice(10))
	require.Equal(big.NewInt(640000000), b.NamespacePrice(100))
}
