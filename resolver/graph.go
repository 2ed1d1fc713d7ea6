/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"slices"

	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/token"
)

// DependencyGraph is the alias graph of one scope. Nodes are indices into
// an arena of tokens in store insertion order; an edge a -> b means a is
// an alias of b.
type DependencyGraph struct {
	scope      string
	tokens     []*token.Token
	index      map[string]int
	deps       [][]int
	dependents [][]int
}

// BuildDependencyGraph snapshots the tokens of scope from src. An alias
// whose target is missing or lives in another scope gets no edge, so
// cross-scope chains never look like cycles.
func BuildDependencyGraph(src Source, scope string) *DependencyGraph {
	tokens := src.GetByScope(scope)
	g := &DependencyGraph{
		scope:      scope,
		tokens:     tokens,
		index:      make(map[string]int, len(tokens)),
		deps:       make([][]int, len(tokens)),
		dependents: make([][]int, len(tokens)),
	}
	for i, tok := range tokens {
		g.index[tok.ID] = i
	}

	for i, tok := range tokens {
		if !tok.IsAlias() {
			continue
		}
		target, ok := src.Get(tok.AliasTo)
		if !ok {
			logger.Debug("omitting alias %s -> %s: target not found", tok.QualifiedName(), tok.AliasTo)
			continue
		}
		if target.Scope != scope {
			logger.Debug("omitting alias %s -> %s: target is in scope %q", tok.QualifiedName(), target.QualifiedName(), target.Scope)
			continue
		}
		j, ok := g.index[target.ID]
		if !ok {
			continue
		}
		g.deps[i] = append(g.deps[i], j)
		g.dependents[j] = append(g.dependents[j], i)
	}

	return g
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.tokens)
}

// Token returns the token at node i.
func (g *DependencyGraph) Token(i int) *token.Token {
	return g.tokens[i]
}

// Dependencies returns the ids that the token with id depends on.
func (g *DependencyGraph) Dependencies(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return []string{}
	}
	return g.idsOf(g.deps[i])
}

// Dependents returns the ids of tokens that depend on the token with id.
func (g *DependencyGraph) Dependents(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return []string{}
	}
	return g.idsOf(g.dependents[i])
}

func (g *DependencyGraph) idsOf(nodes []int) []string {
	out := make([]string, len(nodes))
	for k, n := range nodes {
		out[k] = g.tokens[n].ID
	}
	return out
}

// FindCycles returns every cycle reachable by depth-first search from each
// unvisited node in order. Each cycle lists its nodes from the first
// revisited node to the top of the recursion stack.
func (g *DependencyGraph) FindCycles() [][]int {
	n := len(g.tokens)
	visited := make([]bool, n)
	onStack := make([]bool, n)
	stack := make([]int, 0, n)
	var cycles [][]int

	var visit func(v int)
	visit = func(v int) {
		visited[v] = true
		onStack[v] = true
		stack = append(stack, v)

		for _, w := range g.deps[v] {
			if onStack[w] {
				start := slices.Index(stack, w)
				cycles = append(cycles, slices.Clone(stack[start:]))
				continue
			}
			if !visited[w] {
				visit(w)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[v] = false
	}

	for v := range n {
		if !visited[v] {
			visit(v)
		}
	}
	return cycles
}

// HasCycle returns true if the graph contains a circular dependency.
func (g *DependencyGraph) HasCycle() bool {
	return len(g.FindCycles()) > 0
}

// TopologicalOrder returns every node exactly once with dependencies
// before dependents. Edges between two members of the given cycles are not
// followed, which keeps the walk finite when cycles exist.
func (g *DependencyGraph) TopologicalOrder(cycles [][]int) []int {
	n := len(g.tokens)
	inCycle := make([]bool, n)
	for _, c := range cycles {
		for _, v := range c {
			inCycle[v] = true
		}
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)

	var visit func(v int)
	visit = func(v int) {
		visited[v] = true
		for _, w := range g.deps[v] {
			if inCycle[v] && inCycle[w] {
				continue
			}
			if !visited[w] {
				visit(w)
			}
		}
		order = append(order, v)
	}

	for v := range n {
		if !visited[v] {
			visit(v)
		}
	}
	return order
}
