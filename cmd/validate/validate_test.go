/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validate

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/tokenstore/token"
	"bennypowers.dev/tokenstore/validator"
)

func TestCheck(t *testing.T) {
	good := &token.Token{
		ID: "good", Scope: "acme", Path: []string{"color", "base"},
		Type: token.TypeDimension, Value: token.Dimension{Value: 4, Unit: "px"}, Status: token.StatusActive,
	}
	bad := &token.Token{
		ID: "bad", Scope: "acme", Path: []string{"spacing", "huge"},
		Type: token.TypeDimension, Value: token.Dimension{Value: 4, Unit: "furlong"}, Status: token.StatusActive,
	}

	var buf bytes.Buffer
	n := Check(&buf, validator.New(), []*token.Token{good, bad})
	if n != 1 {
		t.Fatalf("expected 1 problem, got %d:\n%s", n, buf.String())
	}
	if !strings.HasPrefix(buf.String(), "acme: spacing.huge: ") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
