/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load_test

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenstore/config"
	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/load"
	"bennypowers.dev/tokenstore/resolver"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/testutil"
	"bennypowers.dev/tokenstore/token"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestLoad_Project(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	s := store.New()

	res, err := load.Load(t.Context(), s, load.Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/project/tokens/base.json",
		"/project/tokens/dark.yaml",
		"/project/tokens/other.json",
	}, res.Files)
	assert.Equal(t, 4, res.Added)
	assert.Equal(t, []string{"acme", "other"}, s.Scopes())

	base, ok := s.GetByQualifiedName("acme", "color.base")
	require.True(t, ok)
	primary, ok := s.GetByQualifiedName("acme", "color.primary")
	require.True(t, ok)
	assert.Equal(t, base.ID, primary.AliasTo)

	bg, ok := s.GetByQualifiedName("acme", "surface.background")
	require.True(t, ok)
	assert.Equal(t, primary.ID, bg.AliasTo, "normalized names link across files")
	assert.Equal(t, "dark", bg.Theme)
	assert.Equal(t, "semantic", bg.Collection)

	require.Len(t, res.Unlinked, 1, "references never cross scopes")
	assert.Equal(t, "accent", res.Unlinked[0].QualifiedName())
	assert.Equal(t, "other", res.Unlinked[0].Scope)

	r := resolver.New(s)
	resolved, err := r.ResolveAllTokens("acme")
	require.NoError(t, err)
	assert.Equal(t, base.Value, resolved[bg.ID])
}

func TestLoad_ConfigOverride(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	s := store.New(store.WithIDGenerator(token.UUIDGenerator{}))

	res, err := load.Load(t.Context(), s, load.Options{
		Root: "/project",
		FS:   mfs,
		Config: &config.Config{
			Scope: "custom",
			Files: []config.FileSpec{{Path: "tokens/base.json"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Empty(t, res.Unlinked)

	base, ok := s.GetByQualifiedName("custom", "color.base")
	require.True(t, ok)
	assert.Equal(t, token.UUIDGenerator{}.GenerateID("custom", []string{"color", "base"}), base.ID)
}

func TestLoad_LinksAgainstStore(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "project", "/project")
	s := store.New()

	_, err := load.Load(t.Context(), s, load.Options{
		Root:   "/project",
		FS:     mfs,
		Config: &config.Config{Scope: "acme", Files: []config.FileSpec{{Path: "tokens/base.json"}}},
	})
	require.NoError(t, err)

	res, err := load.Load(t.Context(), s, load.Options{
		Root:   "/project",
		FS:     mfs,
		Config: &config.Config{Scope: "acme", Files: []config.FileSpec{{Path: "tokens/dark.yaml"}}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Unlinked)

	primary, _ := s.GetByQualifiedName("acme", "color.primary")
	bg, _ := s.GetByQualifiedName("acme", "surface.background")
	assert.Equal(t, primary.ID, bg.AliasTo)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "empty-config", "/project")
		_, err := load.Load(t.Context(), store.New(), load.Options{Root: "/project", FS: mfs})
		assert.ErrorIs(t, err, load.ErrNoFiles)
	})

	t.Run("missing file", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "project", "/project")
		_, err := load.Load(t.Context(), store.New(), load.Options{
			Root:   "/project",
			FS:     mfs,
			Config: &config.Config{Files: []config.FileSpec{{Path: "tokens/nope.json"}}},
		})
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		mfs := testutil.NewFixtureFS(t, "project", "/project")
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		s := store.New()
		_, err := load.Load(ctx, s, load.Options{Root: "/project", FS: mfs})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, s.Count())
	})
}

func TestLinkAliases(t *testing.T) {
	mk := func(scope, name string, v token.Value) *token.Token {
		path := []string{name}
		return &token.Token{ID: token.GenerateID(scope, path), Path: path, Scope: scope, Value: v}
	}
	target := mk("p1", "base", token.String("x"))
	alias := mk("p1", "alias", token.Reference("{BASE}"))
	self := mk("p1", "self", token.Reference("{self}"))
	foreign := mk("p2", "foreign", token.Reference("{base}"))
	literal := mk("p1", "literal", token.String("{not a whole ref"))

	unlinked := load.LinkAliases([]*token.Token{target, alias, self, foreign, literal}, nil)

	assert.Equal(t, target.ID, alias.AliasTo)
	assert.Empty(t, self.AliasTo)
	assert.Empty(t, foreign.AliasTo)
	assert.Empty(t, literal.AliasTo)
	assert.Equal(t, []*token.Token{self, foreign}, unlinked)
}
