/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser turns DTCG token files into store tokens.
package parser

import (
	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/token"
)

// Options configures token parsing.
type Options struct {
	// Scope is stamped on every parsed token. Required.
	Scope string

	// Collection, Theme and Brand are stamped on every parsed token.
	Collection string
	Theme      string
	Brand      string

	// IDs assigns token ids. Defaults to token.DefaultIDGenerator.
	IDs token.IDGenerator

	// SkipSort keeps map iteration order instead of sorting keys.
	SkipSort bool
}

// Parser parses design token files.
type Parser interface {
	// Parse parses token data and returns tokens.
	Parse(data []byte, opts Options) ([]*token.Token, error)

	// ParseFile parses a token file and returns tokens.
	ParseFile(filesystem fs.FileSystem, path string, opts Options) ([]*token.Token, error)
}
