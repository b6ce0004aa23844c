// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-bns/blockchain/genesis"
	"github.com/iotexproject/iotex-bns/db"
	"github.com/iotexproject/iotex-bns/pkg/log"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

var (
	// Default is the default config
	Default = Config{
		Chain: Chain{
			StateDB: db.DefaultConfig,
		},
		Genesis: genesis.Default,
		SubLogs: make(map[string]log.GlobalConfig),
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateChain,
		ValidateGenesis,
	}
)

type (
	// Chain is the config struct for the state of the ledger
	Chain struct {
		StateDB db.Config `yaml:"stateDB"`
	}

	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		Chain   Chain                       `yaml:"chain"`
		Genesis genesis.Genesis             `yaml:"genesis"`
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// ValidateChain validates the state db config
func ValidateChain(cfg Config) error {
	switch cfg.Chain.StateDB.DBType {
	case db.DBMemory:
		return nil
	case db.DBBolt, db.DBPebble:
		if cfg.Chain.StateDB.DbPath == "" {
			return errors.Wrap(ErrInvalidCfg, "state db path is empty")
		}
		return nil
	default:
		return errors.Wrapf(ErrInvalidCfg, "unknown db type %s", cfg.Chain.StateDB.DBType)
	}
}

// ValidateGenesis validates the naming parameters of the genesis
func ValidateGenesis(cfg Config) error {
	if err := cfg.Genesis.BNS.Validate(); err != nil {
		return errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
