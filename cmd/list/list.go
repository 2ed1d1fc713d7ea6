/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package list provides the list command for tokenstore.
package list

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenstore/cmd/workspace"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/token"
)

// Cmd is the list cobra command.
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List tokens in the store",
	Long: `List tokens with optional filtering.

Index filters (--type, --collection, ...) are combined with AND. --where takes
an expression evaluated against each remaining token, with the fields
id, name, path, type, value, scope, collection, theme, brand, tags, status,
alias, aliasTo and description.

Examples:
  tokenstore list --type color --theme dark
  tokenstore list --where 'alias && name startsWith "color."'
  tokenstore list --where '"brand" in tags' --format json`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	addFlags(Cmd.Flags())
}

func addFlags(flags *pflag.FlagSet) {
	flags.StringSlice("type", nil, "Filter by token type (repeatable)")
	flags.String("collection", "", "Filter by collection")
	flags.String("theme", "", "Filter by theme")
	flags.String("brand", "", "Filter by brand")
	flags.StringSlice("tag", nil, "Filter by tag (any of)")
	flags.String("status", "", "Filter by status")
	flags.String("group", "", "Filter by path prefix, e.g. color.brand")
	flags.Bool("aliases", false, "Only aliases")
	flags.Bool("literals", false, "Only literal tokens")
	flags.String("where", "", "Filter expression")
	flags.Bool("resolved", false, "Resolve aliases and show resolved values")
	flags.StringP("format", "f", "table", "Output format: table, json")
}

func run(cmd *cobra.Command, args []string) error {
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	where, _ := cmd.Flags().GetString("where")
	resolved, _ := cmd.Flags().GetBool("resolved")
	format, _ := cmd.Flags().GetString("format")

	ws, err := workspace.Open(cmd.Context(), fs.NewOSFileSystem(), workspace.SettingsFromViper())
	if err != nil {
		return err
	}
	filter.Scope = viper.GetString(workspace.KeyScope)

	if resolved {
		for _, scope := range ws.Scopes(filter.Scope) {
			if _, err := ws.Resolver.ResolveAllTokens(scope); err != nil {
				return err
			}
		}
	}

	tokens, err := query(ws.Store, filter, where)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return outputJSON(cmd.OutOrStdout(), tokens, resolved)
	case "table":
		return outputTable(cmd.OutOrStdout(), tokens, resolved)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func filterFromFlags(cmd *cobra.Command) (store.Filter, error) {
	var f store.Filter
	types, _ := cmd.Flags().GetStringSlice("type")
	for _, t := range types {
		f.Types = append(f.Types, token.ParseType(t))
	}
	f.Collection, _ = cmd.Flags().GetString("collection")
	f.Theme, _ = cmd.Flags().GetString("theme")
	f.Brand, _ = cmd.Flags().GetString("brand")
	f.Tags, _ = cmd.Flags().GetStringSlice("tag")

	status, _ := cmd.Flags().GetString("status")
	if status != "" {
		f.Status = token.Status(status)
		if !f.Status.Valid() {
			return f, fmt.Errorf("unknown status %q", status)
		}
	}

	if group, _ := cmd.Flags().GetString("group"); group != "" {
		f.PathPrefix = strings.Split(token.CleanReference(group), ".")
	}

	aliases, _ := cmd.Flags().GetBool("aliases")
	literals, _ := cmd.Flags().GetBool("literals")
	switch {
	case aliases && literals:
		return f, fmt.Errorf("--aliases and --literals are mutually exclusive")
	case aliases, literals:
		f.IsAlias = &aliases
	}
	return f, nil
}

// query runs filter against s and keeps the tokens matching where.
func query(s *store.Store, filter store.Filter, where string) ([]*token.Token, error) {
	tokens := s.Query(filter)
	if where == "" {
		return tokens, nil
	}

	pred, err := compileWhere(where)
	if err != nil {
		return nil, err
	}
	out := make([]*token.Token, 0, len(tokens))
	for _, t := range tokens {
		ok, err := pred.match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func displayValue(t *token.Token, resolved bool) string {
	v := t.Value
	if resolved && t.ResolvedValue != nil {
		v = t.ResolvedValue
	}
	if v == nil {
		return ""
	}
	return v.String()
}

func outputTable(w io.Writer, tokens []*token.Token, resolved bool) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%-12s %-40s %-12s %s\n",
			t.Scope, t.QualifiedName(), t.Type, displayValue(t, resolved)); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, tokens []*token.Token, resolved bool) error {
	type tokenOutput struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Scope       string   `json:"scope"`
		Type        string   `json:"type"`
		Value       string   `json:"value"`
		AliasTo     string   `json:"aliasTo,omitempty"`
		Tags        []string `json:"tags,omitempty"`
		Status      string   `json:"status,omitempty"`
		Description string   `json:"description,omitempty"`
	}

	output := make([]tokenOutput, 0, len(tokens))
	for _, t := range tokens {
		output = append(output, tokenOutput{
			ID:          t.ID,
			Name:        t.QualifiedName(),
			Scope:       t.Scope,
			Type:        string(t.Type),
			Value:       displayValue(t, resolved),
			AliasTo:     t.AliasTo,
			Tags:        t.Tags,
			Status:      string(t.Status),
			Description: t.Description,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
