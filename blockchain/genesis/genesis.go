// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package genesis

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/config"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/pkg/log"
	"github.com/iotexproject/iotex-bns/test/identityset"
)

// NumPriceBuckets is the number of length buckets of a price table
const NumPriceBuckets = 16

// Default contains the default genesis config
var Default = defaultConfig()

func init() {
	initTestDefaultConfig()
}

func defaultConfig() Genesis {
	return Genesis{
		Account: Account{
			InitBalanceMap: make(map[string]string),
		},
		BNS: BNS{
			NamespacePreorderTTL:      10,
			NamePreorderTTL:           20,
			NamespaceLaunchabilityTTL: 52595,
			NameGracePeriod:           5000,
			MinNamePrice:              1,
			MaxPriceExponent:          15,
			NamespacePriceStrs: []string{
				"640000000000",
				"64000000000", "64000000000",
				"6400000000", "6400000000", "6400000000", "6400000000",
				"640000000", "640000000", "640000000", "640000000", "640000000",
				"640000000", "640000000", "640000000", "640000000",
			},
			MaxNameLength:      48,
			MaxNamespaceLength: 19,
			MinSaltLength:      1,
		},
	}
}

func initTestDefaultConfig() {
	Default = defaultConfig()
	for i := 0; i < identityset.Size(); i++ {
		addr := identityset.Address(i).String()
		Default.InitBalanceMap[addr] = "100000000000000"
	}
}

type (
	// Genesis is the root level of genesis config. Genesis config is the network-wide config. All the nodes
	// replaying the same ledger should use EXACTLY SAME genesis config.
	Genesis struct {
		Account `yaml:"account"`
		BNS     `yaml:"bns"`
	}
	// Account contains the configs for account protocol
	Account struct {
		// InitBalanceMap is the address and initial balance mapping before the first block.
		InitBalanceMap map[string]string `yaml:"initBalances"`
	}
	// BNS contains the configs for the naming protocol
	BNS struct {
		// NamespacePreorderTTL is the number of blocks a namespace preorder stays valid
		NamespacePreorderTTL uint64 `yaml:"namespacePreorderTTL"`
		// NamePreorderTTL is the number of blocks a name preorder stays valid
		NamePreorderTTL uint64 `yaml:"namePreorderTTL"`
		// NamespaceLaunchabilityTTL is the number of blocks after reveal during which a namespace can import names and be launched
		NamespaceLaunchabilityTTL uint64 `yaml:"namespaceLaunchabilityTTL"`
		// NameGracePeriod is the number of blocks after expiry during which only the owner can renew
		NameGracePeriod uint64 `yaml:"nameGracePeriod"`
		// MinNamePrice is the floor of any name price
		MinNamePrice uint64 `yaml:"minNamePrice"`
		// MaxPriceExponent is the upper bound of a price bucket exponent
		MaxPriceExponent uint64 `yaml:"maxPriceExponent"`
		// NamespacePriceStrs is the namespace price indexed by length, in decimal strings
		NamespacePriceStrs []string `yaml:"namespacePrices"`
		MaxNameLength      int      `yaml:"maxNameLength"`
		MaxNamespaceLength int      `yaml:"maxNamespaceLength"`
		MinSaltLength      int      `yaml:"minSaltLength"`
	}
)

// New constructs a genesis config. It loads the default values, and could be overwritten by values defined in the yaml
// config files
func New(genesisPath string) (Genesis, error) {
	def := defaultConfig()

	opts := make([]config.YAMLOption, 0)
	opts = append(opts, config.Static(def))
	if genesisPath != "" {
		opts = append(opts, config.File(genesisPath))
	}
	yaml, err := config.NewYAML(opts...)
	if err != nil {
		return Genesis{}, errors.Wrap(err, "error when constructing a genesis in yaml")
	}

	var genesis Genesis
	if err := yaml.Get(config.Root).Populate(&genesis); err != nil {
		return Genesis{}, errors.Wrap(err, "failed to unmarshal yaml genesis to struct")
	}
	if err := genesis.BNS.Validate(); err != nil {
		return Genesis{}, err
	}
	return genesis, nil
}

// Hash is the hash of genesis config
func (g *Genesis) Hash() hash.Hash256 {
	addrs, amounts := g.InitBalances()
	balances := make([][]byte, 0, len(addrs))
	for i := range addrs {
		balances = append(balances, append(addrs[i].Bytes(), amounts[i].Bytes()...))
	}
	b, err := rlp.EncodeToBytes([]interface{}{
		balances,
		g.NamespacePreorderTTL,
		g.NamePreorderTTL,
		g.NamespaceLaunchabilityTTL,
		g.NameGracePeriod,
		g.MinNamePrice,
		g.MaxPriceExponent,
		g.NamespacePriceStrs,
		uint64(g.MaxNameLength),
		uint64(g.MaxNamespaceLength),
		uint64(g.MinSaltLength),
	})
	if err != nil {
		log.L().Panic("Error when encoding genesis.", zap.Error(err))
	}
	return hash.Hash256b(b)
}

// InitBalances returns the address that have initial balances and the corresponding amounts. The i-th amount is the
// i-th address' balance.
func (a *Account) InitBalances() ([]address.Address, []*big.Int) {
	// Make the list always be ordered
	addrStrs := make([]string, 0)
	for addrStr := range a.InitBalanceMap {
		addrStrs = append(addrStrs, addrStr)
	}
	sort.Strings(addrStrs)
	addrs := make([]address.Address, 0)
	amounts := make([]*big.Int, 0)
	for _, addrStr := range addrStrs {
		addr, err := address.FromString(addrStr)
		if err != nil {
			log.L().Panic("Error when decoding the account protocol init balance address from string.", zap.Error(err))
		}
		addrs = append(addrs, addr)
		amount, ok := big.NewInt(0).SetString(a.InitBalanceMap[addrStr], 10)
		if !ok {
			log.S().Panicf("Error when casting init balance string %s into big int", a.InitBalanceMap[addrStr])
		}
		amounts = append(amounts, amount)
	}
	return addrs, amounts
}

// Validate checks the naming protocol parameters
func (b *BNS) Validate() error {
	if b.NamespacePreorderTTL == 0 || b.NamePreorderTTL == 0 {
		return errors.New("preorder ttl must be positive")
	}
	if b.NamespaceLaunchabilityTTL == 0 {
		return errors.New("namespace launchability ttl must be positive")
	}
	if b.MinNamePrice == 0 {
		return errors.New("min name price must be positive")
	}
	if b.MaxNameLength <= 0 || b.MaxNamespaceLength <= 0 {
		return errors.New("max identifier length must be positive")
	}
	if b.MinSaltLength < 0 {
		return errors.New("min salt length cannot be negative")
	}
	if len(b.NamespacePriceStrs) != NumPriceBuckets {
		return errors.Errorf("expect %d namespace prices, got %d", NumPriceBuckets, len(b.NamespacePriceStrs))
	}
	for _, s := range b.NamespacePriceStrs {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok || v.Sign() <= 0 {
			return errors.Errorf("invalid namespace price %s", s)
		}
	}
	return nil
}

// NamespacePrice returns the price of a namespace with the given length
func (b *BNS) NamespacePrice(length int) *big.Int {
	idx := length - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(b.NamespacePriceStrs) {
		idx = len(b.NamespacePriceStrs) - 1
	}
	v, ok := new(big.Int).SetString(b.NamespacePriceStrs[idx], 10)
	if !ok {
		log.S().Panicf("Error when casting namespace price string %s into big int", b.NamespacePriceStrs[idx])
	}
	return v
}
