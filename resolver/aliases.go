/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"

	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/token"
)

// Cycle is a set of tokens whose aliases form a closed loop.
type Cycle struct {
	IDs   []string `json:"ids" yaml:"ids"`
	Paths []string `json:"paths" yaml:"paths"`
}

// CrossScopeReference is an alias whose target lives in another scope.
type CrossScopeReference struct {
	Token  *token.Token `json:"token" yaml:"token"`
	Target *token.Token `json:"target" yaml:"target"`
}

func (g *DependencyGraph) cycles(nodes [][]int) []Cycle {
	out := make([]Cycle, 0, len(nodes))
	for _, c := range nodes {
		cycle := Cycle{IDs: make([]string, len(c)), Paths: make([]string, len(c))}
		for k, v := range c {
			cycle.IDs[k] = g.tokens[v].ID
			cycle.Paths[k] = g.tokens[v].QualifiedName()
		}
		out = append(out, cycle)
	}
	return out
}

// ResolveAllTokens resolves every token in scope and returns a map from
// token id to resolved value. Aliases are stamped with their ResolvedValue
// in the source.
//
// A literal resolves to its own value. An alias resolves to its target's
// resolved value. An alias whose target is missing or in another scope
// resolves to its own raw value. Cycles are reported and broken rather
// than treated as errors. Unexpected failures are returned as an error
// wrapping ErrResolutionFailed.
func (r *Resolver) ResolveAllTokens(scope string) (resolved map[string]token.Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resolved = nil
			err = fmt.Errorf("%w: scope %q: %v", ErrResolutionFailed, scope, rec)
		}
	}()

	g := BuildDependencyGraph(r.src, scope)

	cycleNodes := g.FindCycles()
	for _, c := range g.cycles(cycleNodes) {
		r.circularReferences.Add(1)
		logger.Warn("circular reference in scope %q: %v", scope, c.Paths)
	}

	resolved = make(map[string]token.Value, g.Len())
	for _, v := range g.TopologicalOrder(cycleNodes) {
		tok := g.tokens[v]
		if !tok.IsAlias() {
			resolved[tok.ID] = tok.Value
			continue
		}

		if len(g.deps[v]) == 0 {
			r.unresolvedReferences.Add(1)
			logger.Warn("unresolved alias %s -> %s in scope %q; using its own value",
				tok.QualifiedName(), tok.AliasTo, scope)
			resolved[tok.ID] = tok.Value
			continue
		}

		target := g.tokens[g.deps[v][0]]
		value, ok := resolved[target.ID]
		if !ok {
			value = target.Value
		}
		resolved[tok.ID] = value
		r.src.SetResolvedValue(tok.ID, value)
	}

	return resolved, nil
}

// DetectCircularReferences reports the alias cycles in scope.
func (r *Resolver) DetectCircularReferences(scope string) []Cycle {
	g := BuildDependencyGraph(r.src, scope)
	return g.cycles(g.FindCycles())
}

// DetectCrossScopeReferences reports aliases in scope whose target exists
// in a different scope.
func (r *Resolver) DetectCrossScopeReferences(scope string) []CrossScopeReference {
	var refs []CrossScopeReference
	for _, tok := range r.src.GetByScope(scope) {
		if !tok.IsAlias() {
			continue
		}
		target, ok := r.src.Get(tok.AliasTo)
		if ok && target.Scope != scope {
			refs = append(refs, CrossScopeReference{Token: tok, Target: target})
		}
	}
	return refs
}

// DetectDanglingReferences reports aliases in scope whose target id is
// not in the store.
func (r *Resolver) DetectDanglingReferences(scope string) []*token.Token {
	var dangling []*token.Token
	for _, tok := range r.src.GetByScope(scope) {
		if !tok.IsAlias() {
			continue
		}
		if _, ok := r.src.Get(tok.AliasTo); !ok {
			dangling = append(dangling, tok)
		}
	}
	return dangling
}
