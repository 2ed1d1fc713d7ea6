/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolve provides the resolve command for tokenstore.
package resolve

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenstore/cmd/workspace"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/resolver"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/token"
)

// ErrUnresolved is returned when a reference matches no token.
var ErrUnresolved = errors.New("unresolved reference")

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// Cmd is the resolve cobra command.
var Cmd = &cobra.Command{
	Use:   "resolve [reference]",
	Short: "Resolve a token reference or every alias in a scope",
	Long: `Resolve a reference such as {color.primary} within a scope.

References are matched exactly, then case- and separator-insensitively, then
by suffix, substring and last segment. With --all, every token in the scope
is resolved through its alias chain.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("all", false, "Resolve every token in the scope")
	Cmd.Flags().Bool("stats", false, "Print resolver statistics afterwards")
}

func run(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	showStats, _ := cmd.Flags().GetBool("stats")
	if all == (len(args) == 1) {
		return fmt.Errorf("pass either a reference or --all")
	}

	ws, err := workspace.Open(cmd.Context(), fs.NewOSFileSystem(), workspace.SettingsFromViper())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if all {
		for _, scope := range ws.Scopes(viper.GetString(workspace.KeyScope)) {
			if err := resolveAll(w, ws.Store, ws.Resolver, scope); err != nil {
				return err
			}
		}
	} else {
		scope := viper.GetString(workspace.KeyScope)
		if scope == "" {
			scope = ws.Config.Scope
		}
		if err := resolveOne(w, ws.Store, ws.Resolver, args[0], scope); err != nil {
			return err
		}
	}

	if showStats {
		st := ws.Resolver.Stats()
		fmt.Fprintf(w, "\nresolutions: %d, hits: %d, misses: %d, hit rate: %.0f%%, unresolved: %d, circular: %d\n",
			st.TotalResolutions, st.CacheHits, st.CacheMisses, st.HitRate()*100,
			st.UnresolvedReferences, st.CircularReferences)
	}
	return nil
}

func resolveOne(w io.Writer, s *store.Store, r *resolver.Resolver, ref, scope string) error {
	tok, ok := r.ResolveReference(ref, scope)
	if !ok {
		msg := fmt.Sprintf("%s in scope %q", ref, scope)
		if sugg := suggestions(s, ref, scope); len(sugg) > 0 {
			msg += fmt.Sprintf("; did you mean %v?", sugg)
		}
		return fmt.Errorf("%w: %s", ErrUnresolved, msg)
	}

	value := tok.Value
	if tok.IsAlias() {
		resolved, err := r.ResolveAllTokens(scope)
		if err != nil {
			return err
		}
		value = resolved[tok.ID]
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", tok.QualifiedName(), tok.ID, render(value))
	return err
}

func resolveAll(w io.Writer, s *store.Store, r *resolver.Resolver, scope string) error {
	resolved, err := r.ResolveAllTokens(scope)
	if err != nil {
		return err
	}
	for _, tok := range s.GetByScope(scope) {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", scope, tok.QualifiedName(), render(resolved[tok.ID])); err != nil {
			return err
		}
	}
	return nil
}

// suggestions ranks the qualified names in scope by fuzzy distance to ref.
func suggestions(s *store.Store, ref, scope string) []string {
	tokens := s.GetByScope(scope)
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		names = append(names, t.QualifiedName())
	}

	ranks := fuzzy.RankFindNormalizedFold(token.LastSegment(token.NormalizeReference(token.CleanReference(ref))), names)
	sort.Stable(ranks)

	out := make([]string, 0, maxSuggestions)
	for _, rank := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}

func render(v token.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
