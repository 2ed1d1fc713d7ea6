/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver provides scoped token reference resolution over a store.
//
// Resolver caches are never invalidated by store mutations. Callers that
// add, update or remove tokens must call ClearCache (or ClearScopeCache)
// before relying on ResolveReference again.
package resolver

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/token"
)

// ErrResolutionFailed wraps unexpected failures inside batch resolution.
var ErrResolutionFailed = errors.New("token resolution failed")

// Source is the read path the resolver needs from a token store, plus the
// single write-back used to stamp resolved values.
// *store.Store satisfies it.
type Source interface {
	Get(id string) (*token.Token, bool)
	GetByQualifiedName(scope, qualifiedName string) (*token.Token, bool)
	GetByScope(scope string) []*token.Token
	SetResolvedValue(id string, v token.Value)
}

type cacheKey struct {
	scope string
	ref   string
}

// Resolver resolves alias references within a scope. Every instance owns
// its caches and counters.
type Resolver struct {
	src Source

	mu         sync.Mutex
	exact      map[cacheKey]*token.Token
	normalized map[cacheKey]*token.Token
	// fuzzy records nil for references that matched nothing.
	fuzzy map[cacheKey]*token.Token

	totalResolutions     atomic.Uint64
	cacheHits            atomic.Uint64
	cacheMisses          atomic.Uint64
	unresolvedReferences atomic.Uint64
	circularReferences   atomic.Uint64
}

// New creates a Resolver over src. It panics if src is nil.
func New(src Source) *Resolver {
	if src == nil {
		panic("resolver: New called with a nil Source")
	}
	return &Resolver{
		src:        src,
		exact:      make(map[cacheKey]*token.Token),
		normalized: make(map[cacheKey]*token.Token),
		fuzzy:      make(map[cacheKey]*token.Token),
	}
}

// ResolveReference finds the token a reference such as "{color.base}",
// "color/base" or "Color.Base" points at within scope.
//
// Lookups go exact cache, exact store lookup, normalized cache, normalized
// store lookup, fuzzy cache, and finally a fuzzy scan of the scope. Fuzzy
// results, including misses, are cached.
func (r *Resolver) ResolveReference(ref, scope string) (*token.Token, bool) {
	r.totalResolutions.Add(1)

	cleaned := token.CleanReference(ref)
	if cleaned == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exactKey := cacheKey{scope, cleaned}
	if tok, ok := r.exact[exactKey]; ok {
		r.cacheHits.Add(1)
		return tok, true
	}
	if tok, ok := r.src.GetByQualifiedName(scope, cleaned); ok {
		r.cacheMisses.Add(1)
		r.exact[exactKey] = tok
		return tok, true
	}

	normalized := token.NormalizeReference(cleaned)
	normKey := cacheKey{scope, normalized}
	if tok, ok := r.normalized[normKey]; ok {
		r.cacheHits.Add(1)
		r.exact[exactKey] = tok
		return tok, true
	}
	if tok, ok := r.src.GetByQualifiedName(scope, normalized); ok {
		r.cacheMisses.Add(1)
		r.exact[exactKey] = tok
		r.normalized[normKey] = tok
		return tok, true
	}

	if tok, ok := r.fuzzy[normKey]; ok {
		r.cacheHits.Add(1)
		return tok, tok != nil
	}

	r.cacheMisses.Add(1)
	tok := r.fuzzyMatch(scope, normalized)
	r.fuzzy[normKey] = tok
	if tok == nil {
		r.unresolvedReferences.Add(1)
		logger.Debug("unresolved reference %q in scope %q", ref, scope)
		return nil, false
	}
	r.exact[exactKey] = tok
	return tok, true
}

// fuzzyMatch scans scope in insertion order and returns the first token
// whose lowercased qualified name ends with ref; failing that, the first
// that contains ref; failing that, the first whose last segment equals
// ref's last segment.
func (r *Resolver) fuzzyMatch(scope, ref string) *token.Token {
	tokens := r.src.GetByScope(scope)
	names := make([]string, len(tokens))
	for i, t := range tokens {
		names[i] = strings.ToLower(t.QualifiedName())
	}

	for i, name := range names {
		if strings.HasSuffix(name, ref) {
			return tokens[i]
		}
	}
	for i, name := range names {
		if strings.Contains(name, ref) {
			return tokens[i]
		}
	}
	last := token.LastSegment(ref)
	for _, t := range tokens {
		if strings.ToLower(t.Name()) == last {
			return t
		}
	}
	return nil
}

// ClearCache empties all three cache tiers.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.exact)
	clear(r.normalized)
	clear(r.fuzzy)
}

// ClearScopeCache drops cached lookups for one scope.
func (r *Resolver) ClearScopeCache(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range []map[cacheKey]*token.Token{r.exact, r.normalized, r.fuzzy} {
		for k := range m {
			if k.scope == scope {
				delete(m, k)
			}
		}
	}
}

// Stats are the resolver's counters and cache sizes.
type Stats struct {
	TotalResolutions     uint64 `json:"totalResolutions" yaml:"totalResolutions"`
	CacheHits            uint64 `json:"cacheHits" yaml:"cacheHits"`
	CacheMisses          uint64 `json:"cacheMisses" yaml:"cacheMisses"`
	UnresolvedReferences uint64 `json:"unresolvedReferences" yaml:"unresolvedReferences"`
	CircularReferences   uint64 `json:"circularReferences" yaml:"circularReferences"`

	ExactCacheSize      int `json:"exactCacheSize" yaml:"exactCacheSize"`
	NormalizedCacheSize int `json:"normalizedCacheSize" yaml:"normalizedCacheSize"`
	FuzzyCacheSize      int `json:"fuzzyCacheSize" yaml:"fuzzyCacheSize"`
}

// HitRate returns CacheHits / (CacheHits + CacheMisses), or 0.
func (s Stats) HitRate() float64 {
	n := s.CacheHits + s.CacheMisses
	if n == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(n)
}

// Stats returns a snapshot of the counters.
func (r *Resolver) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		TotalResolutions:     r.totalResolutions.Load(),
		CacheHits:            r.cacheHits.Load(),
		CacheMisses:          r.cacheMisses.Load(),
		UnresolvedReferences: r.unresolvedReferences.Load(),
		CircularReferences:   r.circularReferences.Load(),
		ExactCacheSize:       len(r.exact),
		NormalizedCacheSize:  len(r.normalized),
		FuzzyCacheSize:       len(r.fuzzy),
	}
}

// ResetStats zeroes the counters. Caches are kept.
func (r *Resolver) ResetStats() {
	r.totalResolutions.Store(0)
	r.cacheHits.Store(0)
	r.cacheMisses.Store(0)
	r.unresolvedReferences.Store(0)
	r.circularReferences.Store(0)
}
