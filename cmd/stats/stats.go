/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package stats provides the stats command for tokenstore.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/tokenstore/cmd/workspace"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/resolver"
	"bennypowers.dev/tokenstore/store"
)

// Cmd is the stats cobra command.
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Print store and resolver statistics",
	Long: `Print token counts by scope, type and collection, then resolve every
scope and print the resolver's cache and reference counters.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "text", "Output format: text, json")
}

// Summary is the combined output of stats.
type Summary struct {
	Store    store.Stats    `json:"store"`
	Resolver resolver.Stats `json:"resolver"`
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	ws, err := workspace.Open(cmd.Context(), fs.NewOSFileSystem(), workspace.SettingsFromViper())
	if err != nil {
		return err
	}

	for _, scope := range ws.Scopes(viper.GetString(workspace.KeyScope)) {
		if _, err := ws.Resolver.ResolveAllTokens(scope); err != nil {
			return err
		}
	}
	summary := Summary{Store: ws.Store.Stats(), Resolver: ws.Resolver.Stats()}

	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	case "text":
		return Print(cmd.OutOrStdout(), summary)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Print writes summary as aligned text sections.
func Print(w io.Writer, summary Summary) error {
	caser := cases.Title(language.English)
	st := summary.Store

	fmt.Fprintf(w, "Tokens: %d (%d aliases)\n", st.Total, st.Aliases)
	section(w, "Scopes", st.ByScope, func(k string) string { return k })

	byType := make(map[string]int, len(st.ByType))
	for t, n := range st.ByType {
		byType[string(t)] = n
	}
	section(w, "Types", byType, caser.String)
	section(w, "Collections", st.ByCollection, func(k string) string {
		if k == "" {
			return "(none)"
		}
		return k
	})

	rs := summary.Resolver
	_, err := fmt.Fprintf(w, "Resolver:\n"+
		"  %-24s %d\n  %-24s %d\n  %-24s %d\n  %-24s %.1f%%\n"+
		"  %-24s %d\n  %-24s %d\n  %-24s %d/%d/%d\n",
		"Resolutions", rs.TotalResolutions,
		"Cache hits", rs.CacheHits,
		"Cache misses", rs.CacheMisses,
		"Hit rate", rs.HitRate()*100,
		"Unresolved references", rs.UnresolvedReferences,
		"Circular references", rs.CircularReferences,
		"Cache sizes (tiers 1/2/3)", rs.ExactCacheSize, rs.NormalizedCacheSize, rs.FuzzyCacheSize,
	)
	return err
}

func section(w io.Writer, title string, counts map[string]int, label func(string) string) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "  %-24s %d\n", label(k), counts[k])
	}
}
