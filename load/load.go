/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load reads the token files named by a config into a store.
package load

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"bennypowers.dev/tokenstore/config"
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/parser"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/token"
)

// ErrNoFiles is returned when the config names no token files.
var ErrNoFiles = errors.New("no token files configured")

// Options configures how tokens are loaded.
type Options struct {
	// Root is the directory config and relative file paths resolve against.
	Root string

	// FS is the filesystem to use. Defaults to the OS filesystem.
	FS fs.FileSystem

	// Config overrides the config found under Root.
	Config *config.Config
}

// Result summarizes a load.
type Result struct {
	// Files lists the files read, in load order.
	Files []string

	// Added counts tokens accepted by the store.
	Added int

	// Unlinked lists tokens whose reference matched no token in their scope.
	Unlinked []*token.Token
}

// Load parses every file the config names, links aliases within each scope,
// and adds the tokens to s in file order. Tokens are stored as parsed:
// references that cannot be linked keep their Reference value and no
// AliasTo.
func Load(ctx context.Context, s *store.Store, opts Options) (*Result, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = abs
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.LoadOrDefault(filesystem, root)
	}
	if len(cfg.Files) == 0 {
		return nil, ErrNoFiles
	}

	files, err := cfg.ExpandFiles(filesystem, root)
	if err != nil {
		return nil, err
	}

	p := parser.NewJSONParser()
	result := &Result{}
	var tokens []*token.Token
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed, err := p.ParseFile(filesystem, f.Path, parser.Options{
			Scope:      f.Scope,
			Collection: f.Spec.Collection,
			Theme:      f.Spec.Theme,
			Brand:      f.Spec.Brand,
			IDs:        s,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("parsed %d tokens from %s into scope %q", len(parsed), f.Path, f.Scope)
		result.Files = append(result.Files, f.Path)
		tokens = append(tokens, parsed...)
	}

	result.Unlinked = LinkAliases(tokens, s.GetByQualifiedName)
	for _, t := range result.Unlinked {
		logger.Warn("unlinked reference %s in %s (scope %q)", t.Value, t.QualifiedName(), t.Scope)
	}
	result.Added = s.Add(tokens...)
	return result, nil
}

// LinkAliases sets AliasTo on every token whose value is a Reference,
// looking first in tokens and then through lookup. Targets are only
// searched in the referencing token's scope: by exact qualified name
// first, then by normalized name. It returns the tokens left unlinked.
func LinkAliases(tokens []*token.Token, lookup func(scope, qualifiedName string) (*token.Token, bool)) []*token.Token {
	type key struct{ scope, name string }
	exact := make(map[key]*token.Token, len(tokens))
	normalized := make(map[key]*token.Token, len(tokens))
	for _, t := range tokens {
		qn := t.QualifiedName()
		if _, dup := exact[key{t.Scope, qn}]; !dup {
			exact[key{t.Scope, qn}] = t
		}
		nk := key{t.Scope, token.NormalizeReference(qn)}
		if _, dup := normalized[nk]; !dup {
			normalized[nk] = t
		}
	}

	var unlinked []*token.Token
	for _, t := range tokens {
		ref, ok := t.Value.(token.Reference)
		if !ok {
			continue
		}
		name := ref.Path()
		norm := token.NormalizeReference(name)

		target := exact[key{t.Scope, name}]
		if target == nil && lookup != nil {
			target, _ = lookup(t.Scope, name)
		}
		if target == nil {
			target = normalized[key{t.Scope, norm}]
		}
		if target == nil && lookup != nil && norm != name {
			target, _ = lookup(t.Scope, norm)
		}
		if target == nil || target.ID == t.ID {
			unlinked = append(unlinked, t)
			continue
		}
		t.AliasTo = target.ID
	}
	return unlinked
}
