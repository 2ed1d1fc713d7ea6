/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package store provides the authoritative in-memory token collection with
// synchronized secondary indexes.
//
// Tokens returned by the store are shared, immutable snapshots: the store
// replaces its copy on every write instead of mutating it. Callers must not
// modify returned tokens; use Update instead.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/token"
	"bennypowers.dev/tokenstore/validator"
)

// Sentinel errors for store operations.
var (
	// ErrTokenNotFound indicates Update was called with an unknown id.
	ErrTokenNotFound = errors.New("token not found")

	// ErrInvalidToken indicates an update would leave a token without
	// an id, a scope or a path.
	ErrInvalidToken = errors.New("invalid token")
)

// Validator checks a token before it is stored. Tokens with problems are
// kept but demoted to draft.
type Validator interface {
	Validate(t *token.Token) []validator.ValidationError
}

// Store holds tokens keyed by id and indexed by scope, type, collection,
// qualified name, alias target and tag. A single mutex guards every map so
// the indexes never disagree with the primary map.
type Store struct {
	mu sync.RWMutex

	tokens map[string]*token.Token
	order  *idSet

	byScope      index
	byType       index
	byCollection index
	byAlias      index
	byTag        index
	byName       map[string]string

	validator Validator
	ids       token.IDGenerator
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithValidator enables validation on Add.
func WithValidator(v Validator) Option {
	return func(s *Store) {
		s.validator = v
	}
}

// WithIDGenerator sets the strategy used by GenerateID.
func WithIDGenerator(g token.IDGenerator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithClock sets the time source for Created and LastModified.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tokens:       make(map[string]*token.Token),
		order:        newIDSet(),
		byScope:      make(index),
		byType:       make(index),
		byCollection: make(index),
		byAlias:      make(index),
		byTag:        make(index),
		byName:       make(map[string]string),
		ids:          token.DefaultIDGenerator,
		now:          time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// GenerateID derives the id for a token at path in scope.
func (s *Store) GenerateID(scope string, path []string) string {
	return s.ids.GenerateID(scope, path)
}

func nameKey(scope, qualifiedName string) string {
	return scope + "\x00" + qualifiedName
}

// Add upserts tokens and returns how many were stored. Tokens without an
// id, a scope or a non-empty path are skipped. Inputs are copied; later
// changes to them do not affect the store.
func (s *Store) Add(tokens ...*token.Token) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stored := 0
	for _, in := range tokens {
		if !in.Valid() {
			if in != nil {
				logger.Debug("skipping malformed token %q in scope %q", in.ID, in.Scope)
			}
			continue
		}
		tok := in.Clone()

		if s.validator != nil {
			if errs := s.validator.Validate(tok); len(errs) > 0 {
				tok.Status = token.StatusDraft
				if tok.Metadata == nil {
					tok.Metadata = make(map[string]any, 1)
				}
				tok.Metadata[token.MetadataValidationErrors] = errs
			}
		}

		old, exists := s.tokens[tok.ID]
		if exists && !old.Created.IsZero() {
			tok.Created = old.Created
		}
		if tok.Created.IsZero() {
			tok.Created = now
		}
		tok.LastModified = now

		s.tokens[tok.ID] = tok
		if !exists {
			s.order.add(tok.ID)
		}
		s.reindex(old, tok)
		stored++
	}
	return stored
}

// reindex moves a token's index entries from old's keys to cur's keys.
// Either side may be nil, for inserts and removals.
func (s *Store) reindex(old, cur *token.Token) {
	id := ""
	if old != nil {
		id = old.ID
	} else if cur != nil {
		id = cur.ID
	}

	s.byScope.move(id, scopeKeys(old), scopeKeys(cur))
	s.byType.move(id, typeKeys(old), typeKeys(cur))
	s.byCollection.move(id, collectionKeys(old), collectionKeys(cur))
	s.byAlias.move(id, aliasKeys(old), aliasKeys(cur))
	s.byTag.move(id, tagKeys(old), tagKeys(cur))

	if old != nil {
		k := nameKey(old.Scope, old.QualifiedName())
		if cur == nil || nameKey(cur.Scope, cur.QualifiedName()) != k {
			if s.byName[k] == id {
				delete(s.byName, k)
			}
		}
	}
	if cur != nil {
		s.byName[nameKey(cur.Scope, cur.QualifiedName())] = id
	}
}

func scopeKeys(t *token.Token) []string {
	if t == nil {
		return nil
	}
	return []string{t.Scope}
}

func typeKeys(t *token.Token) []string {
	if t == nil {
		return nil
	}
	return []string{string(t.Type)}
}

func collectionKeys(t *token.Token) []string {
	if t == nil || t.Collection == "" {
		return nil
	}
	return []string{t.Collection}
}

func aliasKeys(t *token.Token) []string {
	if t == nil || t.AliasTo == "" {
		return nil
	}
	return []string{t.AliasTo}
}

func tagKeys(t *token.Token) []string {
	if t == nil {
		return nil
	}
	return t.Tags
}

// Get returns the token with id.
func (s *Store) Get(id string) (*token.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[id]
	return tok, ok
}

// GetByQualifiedName returns the token named qualifiedName in scope.
func (s *Store) GetByQualifiedName(scope, qualifiedName string) (*token.Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getByName(scope, qualifiedName)
}

func (s *Store) getByName(scope, qualifiedName string) (*token.Token, bool) {
	id, ok := s.byName[nameKey(scope, qualifiedName)]
	if !ok {
		return nil, false
	}
	tok, ok := s.tokens[id]
	return tok, ok
}

// GetByPath returns the token at path in scope.
func (s *Store) GetByPath(scope string, path []string) (*token.Token, bool) {
	return s.GetByQualifiedName(scope, (&token.Token{Path: path}).QualifiedName())
}

// GetByScope returns the tokens in scope in insertion order.
func (s *Store) GetByScope(scope string) []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byScope.members(scope))
}

// GetByType returns the tokens of type t in insertion order.
func (s *Store) GetByType(t token.Type) []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byType.members(string(t)))
}

// GetByCollection returns the tokens in collection.
func (s *Store) GetByCollection(collection string) []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byCollection.members(collection))
}

// GetByTag returns the tokens carrying tag.
func (s *Store) GetByTag(tag string) []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byTag.members(tag))
}

// GetReferencingTokens returns the tokens whose AliasTo is targetID.
func (s *Store) GetReferencingTokens(targetID string) []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.byAlias.members(targetID))
}

// All returns every token in insertion order.
func (s *Store) All() []*token.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolve(s.order.members())
}

// Count returns the number of stored tokens.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

// Scopes returns the scopes that hold at least one token, sorted.
func (s *Store) Scopes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scopes := make([]string, 0, len(s.byScope))
	for scope := range s.byScope {
		scopes = append(scopes, scope)
	}
	slices.Sort(scopes)
	return scopes
}

func (s *Store) resolve(ids []string) []*token.Token {
	out := make([]*token.Token, 0, len(ids))
	for _, id := range ids {
		if tok, ok := s.tokens[id]; ok {
			out = append(out, tok)
		}
	}
	return out
}

// Update applies patch to a copy of the token with id and stores the copy.
// The id and Created timestamp are always preserved and LastModified is
// refreshed; only the indexes whose keys changed are touched.
func (s *Store) Update(id string, patch func(*token.Token)) (*token.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.tokens[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, id)
	}

	next := old.Clone()
	if patch != nil {
		patch(next)
	}
	next.ID = old.ID
	next.Created = old.Created
	next.LastModified = s.now()
	if !next.Valid() {
		return nil, fmt.Errorf("%w: update of %s leaves it without scope or path", ErrInvalidToken, id)
	}

	s.tokens[id] = next
	s.reindex(old, next)
	return next, nil
}

// SetResolvedValue records the resolver's result for id without touching
// LastModified. Unknown ids are ignored.
func (s *Store) SetResolvedValue(id string, v token.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.tokens[id]
	if !ok {
		return
	}
	next := old.Clone()
	next.ResolvedValue = v
	s.tokens[id] = next
}

// Remove deletes tokens by id and returns how many existed.
func (s *Store) Remove(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(ids)
}

// RemoveProject deletes every token in scope.
func (s *Store) RemoveProject(scope string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove(s.byScope.members(scope))
}

func (s *Store) remove(ids []string) int {
	removed := 0
	for _, id := range ids {
		old, ok := s.tokens[id]
		if !ok {
			continue
		}
		s.reindex(old, nil)
		s.order.remove(id)
		delete(s.tokens, id)
		removed++
	}
	return removed
}
