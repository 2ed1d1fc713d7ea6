/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tokenstore.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenstore/cmd/cycles"
	"bennypowers.dev/tokenstore/cmd/list"
	"bennypowers.dev/tokenstore/cmd/resolve"
	"bennypowers.dev/tokenstore/cmd/stats"
	"bennypowers.dev/tokenstore/cmd/validate"
	"bennypowers.dev/tokenstore/cmd/version"
	"bennypowers.dev/tokenstore/cmd/workspace"
	"bennypowers.dev/tokenstore/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tokenstore",
	Short: "Query and resolve design tokens",
	Long: `tokenstore loads design token files into an in-memory store, then queries
tokens and resolves references and aliases within each scope.

Files are read from .config/design-tokens.{yaml,yml,json} under --config-dir.
Every persistent flag can also be set with a TOKENSTORE_ environment variable,
e.g. TOKENSTORE_SCOPE=acme.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(cmd.ErrOrStderr())
		name := viper.GetString(workspace.KeyLogLevel)
		if name == "" {
			return nil
		}
		level, err := logger.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(workspace.KeyConfigDir, ".", "Directory holding .config/design-tokens.*")
	flags.StringP(workspace.KeyScope, "s", "", "Scope to act on (default: config scope, or all scopes)")
	flags.Bool(workspace.KeyValidate, false, "Validate tokens as they are added")
	flags.String(workspace.KeyIDStrategy, "", "Token id strategy: hash or uuid")
	flags.String(workspace.KeyLogLevel, "", "Log level: debug, info, warn, error (default: config logLevel, or info)")

	for _, key := range []string{
		workspace.KeyConfigDir,
		workspace.KeyScope,
		workspace.KeyValidate,
		workspace.KeyIDStrategy,
		workspace.KeyLogLevel,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			fmt.Fprintf(os.Stderr, "binding --%s: %v\n", key, err)
		}
	}
	viper.SetEnvPrefix("TOKENSTORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(resolve.Cmd)
	rootCmd.AddCommand(cycles.Cmd)
	rootCmd.AddCommand(stats.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
