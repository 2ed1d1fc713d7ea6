/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator provides optional schema validation for token entities.
package validator

import (
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/tokenstore/token"
)

// ValidationError describes one problem with a token.
type ValidationError struct {
	// TokenID is the id of the offending token.
	TokenID string `json:"tokenId,omitempty" yaml:"tokenId,omitempty"`
	// Path is the qualified name of the offending token.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Field names the token field at fault.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	// Message describes what's wrong.
	Message string `json:"message" yaml:"message"`
	// Suggestion provides an actionable fix.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// DefaultUnits are the dimension units accepted when no list is configured.
var DefaultUnits = []string{"px", "rem", "em", "%", "vw", "vh", "pt", "ch", "ms", "s"}

// Validator checks tokens against the value model.
type Validator struct {
	// Units lists the dimension units that are accepted. Unitless
	// dimensions are always accepted.
	Units []string
}

// New returns a Validator with DefaultUnits.
func New() *Validator {
	return &Validator{Units: DefaultUnits}
}

// Validate returns every problem found with t. An empty result means t is valid.
func (v *Validator) Validate(t *token.Token) []ValidationError {
	var errs []ValidationError
	add := func(field, msg, suggestion string) {
		errs = append(errs, ValidationError{
			TokenID:    t.ID,
			Path:       t.QualifiedName(),
			Field:      field,
			Message:    msg,
			Suggestion: suggestion,
		})
	}

	for _, seg := range t.Path {
		if strings.ContainsAny(seg, ".{}") {
			add("path", fmt.Sprintf("segment %q contains a reserved character", seg),
				"remove '.', '{' and '}' from token names")
		}
		if strings.HasPrefix(seg, "$") {
			add("path", fmt.Sprintf("segment %q starts with '$'", seg),
				"names starting with '$' are reserved for token properties")
		}
	}

	if t.Type == "" {
		add("type", "missing type", "set a type such as color or dimension")
	} else if token.ParseType(string(t.Type)) != t.Type {
		add("type", fmt.Sprintf("unknown type %q", t.Type), "use other for custom value kinds")
	}

	if t.Status != "" && !t.Status.Valid() {
		add("status", fmt.Sprintf("unknown status %q", t.Status), "use active, deprecated, draft or archived")
	}

	if t.AliasTo != "" && t.AliasTo == t.ID {
		add("aliasTo", "token aliases itself", "point aliasTo at a different token")
	}

	switch val := t.Value.(type) {
	case nil:
		if !t.IsAlias() {
			add("value", "missing value", "set a literal value or an aliasTo target")
		}
	case token.Reference:
		if !t.IsAlias() {
			add("value", fmt.Sprintf("reference %s is not linked to a token", val),
				"set aliasTo to the id of the referenced token")
		}
	case token.Dimension:
		v.checkKind(t, &errs)
		if val.Unit != "" && !slices.Contains(v.Units, val.Unit) {
			add("value", fmt.Sprintf("unsupported unit %q", val.Unit),
				"use one of "+strings.Join(v.Units, ", "))
		}
	case token.Color:
		v.checkKind(t, &errs)
		if val.Alpha < 0 || val.Alpha > 1 {
			add("value", fmt.Sprintf("alpha %v out of range", val.Alpha), "alpha must be between 0 and 1")
		}
	case token.Typography:
		v.checkKind(t, &errs)
		if val.FontFamily == "" {
			add("value", "typography has no font family", "set fontFamily")
		}
	case token.Shadow, token.Number, token.String, token.Boolean:
		v.checkKind(t, &errs)
	case token.Other:
		// Other fits any type.
	default:
		add("value", fmt.Sprintf("unsupported value %T", val), "")
	}

	return errs
}

func (v *Validator) checkKind(t *token.Token, errs *[]ValidationError) {
	if t.Type == "" || t.Type == token.TypeOther {
		return
	}
	if kind := token.KindOf(t.Value); kind != t.Type {
		*errs = append(*errs, ValidationError{
			TokenID:    t.ID,
			Path:       t.QualifiedName(),
			Field:      "value",
			Message:    fmt.Sprintf("%s value on %s token", kind, t.Type),
			Suggestion: fmt.Sprintf("change the type to %s or supply a %s value", kind, t.Type),
		})
	}
}
