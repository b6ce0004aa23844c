// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-bns/action/protocol"
	"github.com/iotexproject/iotex-bns/action/protocol/account"
	"github.com/iotexproject/iotex-bns/action/protocol/bns"
	"github.com/iotexproject/iotex-bns/config"
	"github.com/iotexproject/iotex-bns/db"
	"github.com/iotexproject/iotex-bns/pkg/log"
	"github.com/iotexproject/iotex-bns/state/factory"
)

var (
	_configPaths []string
	_inMemory    bool
)

var rootCmd = &cobra.Command{
	Use:          "bnsctl [command] [flags]",
	Short:        "Command-line interface for the naming ledger",
	Long:         "bnsctl replays blocks of naming actions into a state db, and reads names and namespaces from it.",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.L().Error("Command failed.", zap.Error(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&_configPaths, "config", "c", nil, "config files, later ones override earlier ones")
	rootCmd.PersistentFlags().BoolVar(&_inMemory, "in-memory", false, "use an in-memory state db")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.New(_configPaths)
	if err != nil {
		return config.Config{}, err
	}
	if _inMemory {
		cfg.Chain.StateDB.DBType = db.DBMemory
	}
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return config.Config{}, errors.Wrap(err, "failed to init loggers")
	}
	return cfg, nil
}

// startFactory builds the protocols from the genesis and starts the state factory on top of them
func startFactory(ctx context.Context, cfg config.Config) (factory.Factory, error) {
	registry := protocol.NewRegistry()
	if err := account.NewProtocol(cfg.Genesis.Account).Register(registry); err != nil {
		return nil, err
	}
	p, err := bns.NewProtocol(cfg.Genesis.BNS)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create naming protocol")
	}
	if err := p.Register(registry); err != nil {
		return nil, err
	}
	sf, err := factory.NewFactory(
		factory.RegistryOption(registry),
		factory.DefaultDBOption(cfg.Chain.StateDB),
	)
	if err != nil {
		return nil, err
	}
	if err := sf.Start(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to start state factory")
	}
	return sf, nil
}

// withFactory runs f on a started state factory and stops it afterwards
func withFactory(f func(context.Context, factory.Factory) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	sf, err := startFactory(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := sf.Stop(ctx); err != nil {
			log.L().Error("Failed to stop state factory.", zap.Error(err))
		}
	}()
	return f(ctx, sf)
}
