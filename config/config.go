/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for the token store tooling.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/token"
)

// DefaultScope is the scope given to tokens from files that name none.
const DefaultScope = "default"

// ErrInvalidConfig is returned by Check for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the token store configuration.
type Config struct {
	// Scope is the default scope for loaded files.
	Scope string `yaml:"scope" json:"scope"`

	// Files specifies token files to load (paths, globs or objects).
	Files []FileSpec `yaml:"files" json:"files"`

	// Validate enables schema validation when tokens are added.
	Validate bool `yaml:"validate" json:"validate"`

	// IDStrategy selects the id generator: "hash" (default) or "uuid".
	IDStrategy string `yaml:"idStrategy" json:"idStrategy"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel" json:"logLevel"`
}

// FileSpec represents a token file specification.
// It can be written as a plain path or as an object with overrides.
type FileSpec struct {
	// Path is the file path, optionally a doublestar glob.
	Path string `yaml:"path" json:"path"`

	// Scope overrides the default scope for this file.
	Scope string `yaml:"scope" json:"scope"`

	// Collection, Theme and Brand are stamped on every token in the file.
	Collection string `yaml:"collection" json:"collection"`
	Theme      string `yaml:"theme" json:"theme"`
	Brand      string `yaml:"brand" json:"brand"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Scope:      DefaultScope,
		IDStrategy: "hash",
		LogLevel:   "info",
	}
}

// ScopeFor returns the scope tokens from spec belong to.
func (c *Config) ScopeFor(spec FileSpec) string {
	switch {
	case spec.Scope != "":
		return spec.Scope
	case c.Scope != "":
		return c.Scope
	default:
		return DefaultScope
	}
}

// IDGenerator returns the generator selected by IDStrategy.
func (c *Config) IDGenerator() (token.IDGenerator, error) {
	g, err := token.IDGeneratorFor(c.IDStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return g, nil
}

// Check reports the first unusable setting.
func (c *Config) Check() error {
	if _, err := c.IDGenerator(); err != nil {
		return err
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: logLevel: %w", ErrInvalidConfig, err)
		}
	}
	for i, spec := range c.Files {
		if spec.Path == "" {
			return fmt.Errorf("%w: files[%d] has no path", ErrInvalidConfig, i)
		}
	}
	return nil
}
