/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token_test

import (
	"errors"
	"strings"
	"testing"

	"bennypowers.dev/tokenstore/token"
)

func TestToken_QualifiedName(t *testing.T) {
	tests := []struct {
		name     string
		path     []string
		expected string
		last     string
	}{
		{name: "single segment", path: []string{"color"}, expected: "color", last: "color"},
		{name: "nested", path: []string{"color", "brand", "primary"}, expected: "color.brand.primary", last: "primary"},
		{name: "empty", path: nil, expected: "", last: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := token.Token{Path: tt.path}
			if got := tok.QualifiedName(); got != tt.expected {
				t.Errorf("QualifiedName() = %q, want %q", got, tt.expected)
			}
			if got := tok.Name(); got != tt.last {
				t.Errorf("Name() = %q, want %q", got, tt.last)
			}
		})
	}
}

func TestToken_Valid(t *testing.T) {
	tests := []struct {
		name  string
		token *token.Token
		want  bool
	}{
		{name: "nil", token: nil, want: false},
		{name: "complete", token: &token.Token{ID: "a", Scope: "p1", Path: []string{"x"}}, want: true},
		{name: "missing id", token: &token.Token{Scope: "p1", Path: []string{"x"}}, want: false},
		{name: "missing scope", token: &token.Token{ID: "a", Path: []string{"x"}}, want: false},
		{name: "empty path", token: &token.Token{ID: "a", Scope: "p1"}, want: false},
		{name: "empty segment", token: &token.Token{ID: "a", Scope: "p1", Path: []string{"x", ""}}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToken_Clone(t *testing.T) {
	orig := &token.Token{
		ID:       "a",
		Path:     []string{"color", "base"},
		Tags:     []string{"brand"},
		Metadata: map[string]any{"source": "figma"},
	}
	c := orig.Clone()
	c.Path[0] = "changed"
	c.Tags[0] = "changed"
	c.Metadata["source"] = "changed"

	if orig.Path[0] != "color" {
		t.Errorf("clone shares Path with original")
	}
	if orig.Tags[0] != "brand" {
		t.Errorf("clone shares Tags with original")
	}
	if orig.Metadata["source"] != "figma" {
		t.Errorf("clone shares Metadata with original")
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]token.Type{
		"color":      token.TypeColor,
		"Dimension":  token.TypeDimension,
		" shadow ":   token.TypeShadow,
		"fontFamily": token.TypeOther,
		"":           token.TypeOther,
	}
	for in, want := range tests {
		if got := token.ParseType(in); got != want {
			t.Errorf("ParseType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []token.Status{token.StatusActive, token.StatusDeprecated, token.StatusDraft, token.StatusArchived} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if token.Status("retired").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestGenerateID(t *testing.T) {
	a := token.GenerateID("p1", []string{"color", "base"})
	b := token.GenerateID("p1", []string{"color", "base"})
	if a != b {
		t.Fatalf("GenerateID is not deterministic: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "tok_") {
		t.Errorf("GenerateID() = %q, want tok_ prefix", a)
	}
	if other := token.GenerateID("p2", []string{"color", "base"}); other == a {
		t.Errorf("ids for different scopes collide: %q", a)
	}
	if other := token.GenerateID("p1", []string{"color", "primary"}); other == a {
		t.Errorf("ids for different paths collide: %q", a)
	}
}

func TestUUIDGenerator(t *testing.T) {
	gen := token.UUIDGenerator{}
	a := gen.GenerateID("p1", []string{"color", "base"})
	if a != gen.GenerateID("p1", []string{"color", "base"}) {
		t.Fatal("UUIDGenerator is not deterministic")
	}
	if len(a) != 36 {
		t.Errorf("expected a canonical UUID, got %q", a)
	}
	if a == gen.GenerateID("p2", []string{"color", "base"}) {
		t.Error("ids for different scopes collide")
	}
}

func TestIDGeneratorFor(t *testing.T) {
	if g, err := token.IDGeneratorFor("hash"); err != nil || g == nil {
		t.Errorf("hash strategy: %v", err)
	}
	if g, err := token.IDGeneratorFor("UUID"); err != nil {
		t.Errorf("uuid strategy: %v", err)
	} else if _, ok := g.(token.UUIDGenerator); !ok {
		t.Errorf("expected UUIDGenerator, got %T", g)
	}
	if _, err := token.IDGeneratorFor("sha256"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestCleanReference(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{color.base}", "color.base"},
		{"  {color.base}  ", "color.base"},
		{"color.base", "color.base"},
		{"{{nested}}", "{nested}"},
		{"{}", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := token.CleanReference(tt.in); got != tt.want {
			t.Errorf("CleanReference(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeReference(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Color.Base", "color.base"},
		{"color/base", "color.base"},
		{`color\base`, "color.base"},
	}
	for _, tt := range tests {
		if got := token.NormalizeReference(tt.in); got != tt.want {
			t.Errorf("NormalizeReference(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractAllRefs(t *testing.T) {
	refs := token.ExtractAllRefs("{space.sm} {space.md} solid")
	if len(refs) != 2 || refs[0] != "space.sm" || refs[1] != "space.md" {
		t.Errorf("ExtractAllRefs() = %v", refs)
	}
	if token.IsWholeReference("{space.sm} {space.md}") {
		t.Error("composite string is not a whole reference")
	}
	if !token.IsWholeReference(" {space.sm} ") {
		t.Error("expected whole reference")
	}
}

func TestValueFromAny(t *testing.T) {
	tests := []struct {
		name    string
		typ     token.Type
		raw     any
		want    string
		kind    token.Type
		wantErr error
	}{
		{name: "hex color", typ: token.TypeColor, raw: "#1e40af", want: "#1e40af", kind: token.TypeColor},
		{name: "named color", typ: token.TypeColor, raw: "rebeccapurple", want: "rebeccapurple", kind: token.TypeColor},
		{name: "bad color", typ: token.TypeColor, raw: "not-a-color", wantErr: token.ErrInvalidColor},
		{name: "dimension", typ: token.TypeDimension, raw: "1.5rem", want: "1.5rem", kind: token.TypeDimension},
		{name: "structured dimension", typ: token.TypeDimension, raw: map[string]any{"value": 4.0, "unit": "px"}, want: "4px", kind: token.TypeDimension},
		{name: "bad dimension", typ: token.TypeDimension, raw: "wide", wantErr: token.ErrInvalidDimension},
		{name: "number", typ: token.TypeNumber, raw: 1.25, want: "1.25", kind: token.TypeNumber},
		{name: "boolean", typ: token.TypeBoolean, raw: true, want: "true", kind: token.TypeBoolean},
		{name: "string", typ: token.TypeString, raw: "hello", want: "hello", kind: token.TypeString},
		{name: "reference", typ: token.TypeColor, raw: "{color.base}", want: "{color.base}", kind: token.TypeOther},
		{name: "other", typ: token.TypeOther, raw: "cubic-bezier(0,0,1,1)", want: "cubic-bezier(0,0,1,1)", kind: token.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := token.ValueFromAny(tt.typ, tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.String() != tt.want {
				t.Errorf("String() = %q, want %q", v.String(), tt.want)
			}
			if got := token.KindOf(v); got != tt.kind {
				t.Errorf("KindOf() = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestReference_Path(t *testing.T) {
	if got := token.Reference("{color.base}").Path(); got != "color.base" {
		t.Errorf("Path() = %q", got)
	}
}

func TestTypography_String(t *testing.T) {
	v, err := token.ValueFromAny(token.TypeTypography, map[string]any{
		"fontFamily": []any{"Inter", "sans-serif"},
		"fontSize":   map[string]any{"value": 16.0, "unit": "px"},
		"fontWeight": 600.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.String(); got != "600 16px Inter, sans-serif" {
		t.Errorf("String() = %q", got)
	}
}
