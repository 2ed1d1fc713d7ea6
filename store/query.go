/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package store

import (
	"slices"

	"bennypowers.dev/tokenstore/token"
)

// Filter selects tokens in Query. Zero-valued fields match everything;
// set fields are combined with AND.
type Filter struct {
	// IDs restricts the result to these ids, in the given order.
	IDs []string

	Scope string

	// Types matches any of the listed types.
	Types []token.Type

	Collection string
	Theme      string
	Brand      string

	QualifiedName string

	// PathPrefix matches tokens whose path starts with these segments.
	PathPrefix []string

	// Tags matches tokens carrying at least one of the listed tags.
	Tags []string

	Status token.Status

	// IsAlias, when set, matches aliases (true) or literals (false).
	IsAlias *bool
}

// Query returns the tokens matching f. The candidate set comes from the
// most selective indexed field (ids, then scope, then type) and is then
// narrowed by the remaining predicates.
func (s *Store) Query(f Filter) []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []string
	switch {
	case len(f.IDs) > 0:
		seen := make(map[string]bool, len(f.IDs))
		for _, id := range f.IDs {
			if !seen[id] {
				seen[id] = true
				candidates = append(candidates, id)
			}
		}
	case f.Scope != "":
		candidates = s.byScope.members(f.Scope)
	case len(f.Types) == 1:
		candidates = s.byType.members(string(f.Types[0]))
	case len(f.Types) > 1:
		seen := make(map[token.Type]bool, len(f.Types))
		for _, t := range f.Types {
			if !seen[t] {
				seen[t] = true
				candidates = append(candidates, s.byType.members(string(t))...)
			}
		}
	default:
		candidates = s.order.members()
	}

	out := make([]*token.Token, 0, len(candidates))
	for _, id := range candidates {
		tok, ok := s.tokens[id]
		if ok && f.matches(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func (f *Filter) matches(t *token.Token) bool {
	if f.Scope != "" && t.Scope != f.Scope {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, t.Type) {
		return false
	}
	if f.Collection != "" && t.Collection != f.Collection {
		return false
	}
	if f.Theme != "" && t.Theme != f.Theme {
		return false
	}
	if f.Brand != "" && t.Brand != f.Brand {
		return false
	}
	if f.QualifiedName != "" && t.QualifiedName() != f.QualifiedName {
		return false
	}
	if len(f.PathPrefix) > 0 {
		if len(t.Path) < len(f.PathPrefix) || !slices.Equal(t.Path[:len(f.PathPrefix)], f.PathPrefix) {
			return false
		}
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, t.HasTag) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.IsAlias != nil && t.IsAlias() != *f.IsAlias {
		return false
	}
	return true
}
