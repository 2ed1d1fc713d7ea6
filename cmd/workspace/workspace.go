/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package workspace loads the configured token files into a store for the
// CLI commands.
package workspace

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"bennypowers.dev/tokenstore/config"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/load"
	"bennypowers.dev/tokenstore/resolver"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/validator"
)

// Viper keys bound to the root command's persistent flags.
const (
	KeyConfigDir  = "config-dir"
	KeyScope      = "scope"
	KeyValidate   = "validate"
	KeyIDStrategy = "id-strategy"
	KeyLogLevel   = "log-level"
)

// Settings are command-line and environment overrides of the config file.
// Zero values leave the file's setting alone.
type Settings struct {
	Root       string
	Scope      string
	Validate   bool
	IDStrategy string
	LogLevel   string
}

// SettingsFromViper reads the bound flags and TOKENSTORE_* variables.
func SettingsFromViper() Settings {
	return Settings{
		Root:       viper.GetString(KeyConfigDir),
		Scope:      viper.GetString(KeyScope),
		Validate:   viper.GetBool(KeyValidate),
		IDStrategy: viper.GetString(KeyIDStrategy),
		LogLevel:   viper.GetString(KeyLogLevel),
	}
}

// Workspace is a loaded store and a resolver over it.
type Workspace struct {
	Config   *config.Config
	Store    *store.Store
	Resolver *resolver.Resolver
	Load     *load.Result
}

// Open reads the config under settings.Root, applies settings on top and
// loads every configured token file.
func Open(ctx context.Context, filesystem fs.FileSystem, settings Settings) (*Workspace, error) {
	root := settings.Root
	if root == "" {
		root = "."
	}

	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if settings.Scope != "" {
		cfg.Scope = settings.Scope
	}
	if settings.IDStrategy != "" {
		cfg.IDStrategy = settings.IDStrategy
	}
	if settings.LogLevel != "" {
		cfg.LogLevel = settings.LogLevel
	}
	cfg.Validate = cfg.Validate || settings.Validate
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" {
		level, _ := logger.ParseLevel(cfg.LogLevel)
		logger.SetLevel(level)
	}

	ids, err := cfg.IDGenerator()
	if err != nil {
		return nil, err
	}
	opts := []store.Option{store.WithIDGenerator(ids)}
	if cfg.Validate {
		opts = append(opts, store.WithValidator(validator.New()))
	}
	s := store.New(opts...)

	res, err := load.Load(ctx, s, load.Options{Root: root, FS: filesystem, Config: cfg})
	if err != nil {
		return nil, fmt.Errorf("loading tokens: %w", err)
	}

	return &Workspace{
		Config:   cfg,
		Store:    s,
		Resolver: resolver.New(s),
		Load:     res,
	}, nil
}

// Scopes returns the scope a command should act on: the explicit one if
// set, otherwise every scope in the store.
func (w *Workspace) Scopes(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	return w.Store.Scopes()
}
