/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cycles provides the cycles command for tokenstore.
package cycles

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenstore/cmd/workspace"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/resolver"
)

// ErrProblemsFound is returned with --strict when any report is non-empty.
var ErrProblemsFound = errors.New("reference problems found")

// Cmd is the cycles cobra command.
var Cmd = &cobra.Command{
	Use:   "cycles",
	Short: "Report circular, cross-scope and dangling aliases",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Exit with an error if anything is reported")
}

// Report is what cycles prints for one scope.
type Report struct {
	Scope      string
	Circular   []resolver.Cycle
	CrossScope []resolver.CrossScopeReference
	Dangling   []string
}

// Empty reports whether nothing was found.
func (r Report) Empty() bool {
	return len(r.Circular) == 0 && len(r.CrossScope) == 0 && len(r.Dangling) == 0
}

func run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	ws, err := workspace.Open(cmd.Context(), fs.NewOSFileSystem(), workspace.SettingsFromViper())
	if err != nil {
		return err
	}

	found := false
	for _, scope := range ws.Scopes(viper.GetString(workspace.KeyScope)) {
		report := Detect(ws.Resolver, scope)
		found = found || !report.Empty()
		if err := Print(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	}

	if strict && found {
		return ErrProblemsFound
	}
	return nil
}

// Detect builds the report for scope.
func Detect(r *resolver.Resolver, scope string) Report {
	report := Report{
		Scope:      scope,
		Circular:   r.DetectCircularReferences(scope),
		CrossScope: r.DetectCrossScopeReferences(scope),
	}
	for _, t := range r.DetectDanglingReferences(scope) {
		report.Dangling = append(report.Dangling, t.QualifiedName()+" -> "+t.AliasTo)
	}
	return report
}

// Print writes report in a line-oriented format.
func Print(w io.Writer, report Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", report.Scope)
	if report.Empty() {
		b.WriteString("  no problems\n")
	}
	for _, c := range report.Circular {
		fmt.Fprintf(&b, "  circular: %s -> %s\n", strings.Join(c.Paths, " -> "), c.Paths[0])
	}
	for _, x := range report.CrossScope {
		fmt.Fprintf(&b, "  cross-scope: %s -> %s (%s)\n",
			x.Token.QualifiedName(), x.Target.QualifiedName(), x.Target.Scope)
	}
	for _, d := range report.Dangling {
		fmt.Fprintf(&b, "  dangling: %s\n", d)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
