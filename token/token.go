/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package token provides the design token entity and its value types.
package token

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// MetadataValidationErrors is the metadata key under which validation
// failures are attached to a token that was demoted to draft.
const MetadataValidationErrors = "validationErrors"

// Type tags which Value variant a token carries.
type Type string

const (
	TypeColor      Type = "color"
	TypeDimension  Type = "dimension"
	TypeTypography Type = "typography"
	TypeShadow     Type = "shadow"
	TypeNumber     Type = "number"
	TypeString     Type = "string"
	TypeBoolean    Type = "boolean"
	TypeOther      Type = "other"
)

// ParseType maps a type name to a Type. Unknown names map to TypeOther.
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeColor, TypeDimension, TypeTypography, TypeShadow,
		TypeNumber, TypeString, TypeBoolean:
		return t
	default:
		return TypeOther
	}
}

// Status is the lifecycle state of a token.
type Status string

const (
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
	StatusDraft      Status = "draft"
	StatusArchived   Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDeprecated, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Token is a named design value with a hierarchical path, unique within its scope.
type Token struct {
	// ID is derived from (Scope, Path) so re-imports keep the same id.
	ID string `json:"id" yaml:"id"`

	// Path holds the name segments, e.g. ["color", "primary"].
	Path []string `json:"path" yaml:"path"`

	// Type selects the Value variant.
	Type Type `json:"type" yaml:"type"`

	// Value is the literal value, or a Reference for aliases.
	Value Value `json:"-" yaml:"-"`

	// AliasTo is the id of the token this one is defined in terms of.
	AliasTo string `json:"aliasTo,omitempty" yaml:"aliasTo,omitempty"`

	// ResolvedValue is stamped by the resolver for aliases.
	ResolvedValue Value `json:"-" yaml:"-"`

	// Scope is the isolation boundary (a "project").
	Scope string `json:"scope" yaml:"scope"`

	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Theme      string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Brand      string `json:"brand,omitempty" yaml:"brand,omitempty"`

	// Tags are free-form labels with set semantics.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	Status Status `json:"status" yaml:"status"`

	// Description is optional documentation for the token.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Metadata holds consumer-supplied data such as provenance.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Created      time.Time `json:"created" yaml:"created"`
	LastModified time.Time `json:"lastModified" yaml:"lastModified"`
}

// QualifiedName returns the dot-joined path.
func (t *Token) QualifiedName() string {
	return strings.Join(t.Path, ".")
}

// Name returns the last path segment.
func (t *Token) Name() string {
	if len(t.Path) == 0 {
		return ""
	}
	return t.Path[len(t.Path)-1]
}

// IsAlias reports whether the token is defined in terms of another token.
func (t *Token) IsAlias() bool {
	return t.AliasTo != ""
}

// HasTag reports whether the token carries tag.
func (t *Token) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Clone returns a copy that shares no slices or maps with t.
// Values are immutable and are shared.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	c := *t
	c.Path = slices.Clone(t.Path)
	c.Tags = slices.Clone(t.Tags)
	if t.Metadata != nil {
		c.Metadata = maps.Clone(t.Metadata)
	}
	return &c
}

// Valid reports whether the token has the fields the store requires:
// an id, a scope, and at least one path segment, none of them empty.
func (t *Token) Valid() bool {
	if t == nil || t.ID == "" || t.Scope == "" || len(t.Path) == 0 {
		return false
	}
	for _, seg := range t.Path {
		if seg == "" {
			return false
		}
	}
	return true
}
