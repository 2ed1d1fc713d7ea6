/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolve

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/resolver"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/token"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func fixture() (*store.Store, *resolver.Resolver) {
	mk := func(name string, v token.Value) *token.Token {
		path := strings.Split(name, ".")
		return &token.Token{ID: token.GenerateID("acme", path), Path: path, Type: token.TypeColor, Value: v, Scope: "acme"}
	}
	base := mk("color.base", token.String("#1e40af"))
	primary := mk("color.primary", token.Reference("{color.base}"))
	primary.AliasTo = base.ID
	border := mk("border.subtle", token.String("#ccc"))

	s := store.New()
	s.Add(base, primary, border)
	return s, resolver.New(s)
}

func TestResolveOne(t *testing.T) {
	s, r := fixture()

	var buf bytes.Buffer
	if err := resolveOne(&buf, s, r, "{Color.Primary}", "acme"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fields := strings.Split(strings.TrimSpace(buf.String()), "\t")
	if len(fields) != 3 || fields[0] != "color.primary" || fields[2] != "#1e40af" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestResolveOne_Suggestions(t *testing.T) {
	s, r := fixture()

	err := resolveOne(io.Discard, s, r, "{colr.bse}", "acme")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if !strings.Contains(err.Error(), "color.base") {
		t.Errorf("expected a color.base suggestion in %q", err)
	}

	err = resolveOne(io.Discard, s, r, "{color.base}", "other")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("scopes are isolated, got %v", err)
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("no suggestions expected for an empty scope: %q", err)
	}
}

func TestResolveAll(t *testing.T) {
	s, r := fixture()

	var buf bytes.Buffer
	if err := resolveAll(&buf, s, r, "acme"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "acme\tcolor.base\t#1e40af\nacme\tcolor.primary\t#1e40af\nacme\tborder.subtle\t#ccc\n"
	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestSuggestions_Limit(t *testing.T) {
	s := store.New()
	for _, name := range []string{"a.text", "b.text", "c.text", "d.text"} {
		path := strings.Split(name, ".")
		s.Add(&token.Token{ID: token.GenerateID("p", path), Path: path, Scope: "p", Type: token.TypeString, Value: token.String("x")})
	}
	got := suggestions(s, "txt", "p")
	if len(got) != maxSuggestions {
		t.Errorf("expected %d suggestions, got %v", maxSuggestions, got)
	}
}
