/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cycles

import (
	"bytes"
	"io"
	"os"
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

func tok(id, scope, name, aliasTo string) *token.Token {
	return &token.Token{ID: id, Scope: scope, Path: []string{name}, Type: token.TypeString, Value: token.String(name), AliasTo: aliasTo}
}

func TestDetectAndPrint(t *testing.T) {
	s := store.New()
	s.Add(
		tok("a", "p1", "a", "b"),
		tok("b", "p1", "b", "a"),
		tok("x", "p1", "x", "y"),
		tok("y", "p2", "y", ""),
		tok("d", "p1", "d", "gone"),
		tok("ok", "p2", "ok", "y"),
	)
	r := resolver.New(s)

	report := Detect(r, "p1")
	if len(report.Circular) != 1 || len(report.CrossScope) != 1 || len(report.Dangling) != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	var buf bytes.Buffer
	if err := Print(&buf, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "p1:\n" +
		"  circular: a -> b -> a\n" +
		"  cross-scope: x -> y (p2)\n" +
		"  dangling: d -> gone\n"
	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}

	clean := Detect(r, "p2")
	if !clean.Empty() {
		t.Errorf("expected p2 to be clean, got %+v", clean)
	}
	buf.Reset()
	_ = Print(&buf, clean)
	if buf.String() != "p2:\n  no problems\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
