/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package list

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"bennypowers.dev/tokenstore/token"
)

// env is what a --where expression sees for each token.
type env struct {
	ID          string   `expr:"id"`
	Name        string   `expr:"name"`
	Path        []string `expr:"path"`
	Type        string   `expr:"type"`
	Value       string   `expr:"value"`
	Scope       string   `expr:"scope"`
	Collection  string   `expr:"collection"`
	Theme       string   `expr:"theme"`
	Brand       string   `expr:"brand"`
	Tags        []string `expr:"tags"`
	Status      string   `expr:"status"`
	Alias       bool     `expr:"alias"`
	AliasTo     string   `expr:"aliasTo"`
	Description string   `expr:"description"`
}

func envFor(t *token.Token) env {
	e := env{
		ID:          t.ID,
		Name:        t.QualifiedName(),
		Path:        t.Path,
		Type:        string(t.Type),
		Scope:       t.Scope,
		Collection:  t.Collection,
		Theme:       t.Theme,
		Brand:       t.Brand,
		Tags:        t.Tags,
		Status:      string(t.Status),
		Alias:       t.IsAlias(),
		AliasTo:     t.AliasTo,
		Description: t.Description,
	}
	if t.Value != nil {
		e.Value = t.Value.String()
	}
	return e
}

// predicate is a compiled --where expression.
type predicate struct {
	program *vm.Program
}

func compileWhere(where string) (*predicate, error) {
	program, err := expr.Compile(where, expr.Env(env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --where expression: %w", err)
	}
	return &predicate{program: program}, nil
}

func (p *predicate) match(t *token.Token) (bool, error) {
	out, err := expr.Run(p.program, envFor(t))
	if err != nil {
		return false, fmt.Errorf("evaluating --where for %s: %w", t.QualifiedName(), err)
	}
	return out.(bool), nil
}
