/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for tokenstore.
package validate

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenstore/cmd/workspace"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/token"
	"bennypowers.dev/tokenstore/validator"
)

// ErrValidationFailed is returned when any token has problems.
var ErrValidationFailed = errors.New("validation failed")

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configured token files",
	Long: `Load every configured token file and check each token's path, type,
value and alias. Unlinked references and alias cycles are reported too.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("quiet", false, "Only output errors")
}

func run(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	settings := workspace.SettingsFromViper()
	// Tokens are checked below, not drafted on Add.
	settings.Validate = false
	ws, err := workspace.Open(cmd.Context(), fs.NewOSFileSystem(), settings)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	v := validator.New()
	problems := 0
	for _, scope := range ws.Scopes(viper.GetString(workspace.KeyScope)) {
		tokens := ws.Store.GetByScope(scope)
		n := Check(w, v, tokens)
		for _, c := range ws.Resolver.DetectCircularReferences(scope) {
			fmt.Fprintf(w, "%s: circular reference %v\n", scope, c.Paths)
			n++
		}
		if !quiet {
			fmt.Fprintf(w, "%s: %d tokens, %d problems\n", scope, len(tokens), n)
		}
		problems += n
	}

	if problems > 0 {
		return fmt.Errorf("%w: %d problems", ErrValidationFailed, problems)
	}
	if !quiet {
		fmt.Fprintln(w, "All tokens valid.")
	}
	return nil
}

// Check validates tokens, writes one line per problem and returns the
// number of problems.
func Check(w io.Writer, v *validator.Validator, tokens []*token.Token) int {
	n := 0
	for _, t := range tokens {
		for _, e := range v.Validate(t) {
			fmt.Fprintf(w, "%s: %s\n", t.Scope, e.Error())
			n++
		}
	}
	return n
}
