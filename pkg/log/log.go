// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package log wraps the zap global logger with named sub loggers.
package log

import (
	"log"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap            *zap.Config `json:"zap" yaml:"zap"`
	RedirectStdLog bool        `json:"stdLogRedirect" yaml:"stdLogRedirect"`
}

var (
	_logMu            sync.RWMutex
	_subLoggers       map[string]*zap.Logger
	_globalLoggerName = "global"
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.DisableStacktrace = true
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		log.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	_logMu.Lock()
	_subLoggers = make(map[string]*zap.Logger)
	_logMu.Unlock()
	zap.ReplaceGlobals(l)
}

// L is alias of zap.L().
func L() *zap.Logger { return zap.L() }

// S is alias of zap.S().
func S() *zap.SugaredLogger { return zap.S() }

// Logger returns logger of the given name, or the global logger if no such sub logger exists
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	defer _logMu.RUnlock()
	logger, ok := _subLoggers[name]
	if !ok {
		return L()
	}
	return logger
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig, subCfgs map[string]GlobalConfig, opts ...zap.Option) error {
	if _, exists := subCfgs[_globalLoggerName]; exists {
		return errors.New("'" + _globalLoggerName + "' is a reserved name for global logger")
	}
	loggers := make(map[string]*zap.Logger, len(subCfgs))
	for name, cfg := range subCfgs {
		logger, err := newLogger(cfg, opts...)
		if err != nil {
			return errors.Wrapf(err, "failed to build sub logger %s", name)
		}
		loggers[name] = logger
	}
	global, err := newLogger(globalCfg, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to build global logger")
	}
	if globalCfg.RedirectStdLog {
		zap.RedirectStdLog(global)
	}

	_logMu.Lock()
	_subLoggers = loggers
	_logMu.Unlock()
	zap.ReplaceGlobals(global)
	return nil
}

func newLogger(cfg GlobalConfig, opts ...zap.Option) (*zap.Logger, error) {
	if cfg.Zap == nil {
		zapCfg := zap.NewProductionConfig()
		cfg.Zap = &zapCfg
	}
	return cfg.Zap.Build(opts...)
}
