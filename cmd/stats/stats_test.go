/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stats

import (
	"bytes"
	"strings"
	"testing"

	"bennypowers.dev/tokenstore/resolver"
	"bennypowers.dev/tokenstore/store"
	"bennypowers.dev/tokenstore/token"
)

func TestPrint(t *testing.T) {
	summary := Summary{
		Store: store.Stats{
			Total:        3,
			Aliases:      1,
			ByScope:      map[string]int{"acme": 2, "beta": 1},
			ByType:       map[token.Type]int{token.TypeColor: 2, token.TypeDimension: 1},
			ByCollection: map[string]int{"": 3},
		},
		Resolver: resolver.Stats{TotalResolutions: 4, CacheHits: 1, CacheMisses: 3},
	}

	var buf bytes.Buffer
	if err := Print(&buf, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Tokens: 3 (1 aliases)",
		"Scopes:\n  acme",
		"  beta                     1",
		"Types:\n  Color                    2\n  Dimension                1",
		"  (none)                   3",
		"Hit rate                 25.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
