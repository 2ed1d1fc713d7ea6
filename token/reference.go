/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"regexp"
	"strings"
)

var (
	// curlyBracePattern matches {token.path} references.
	curlyBracePattern = regexp.MustCompile(`\{([^{}]+)\}`)

	// wholeReferencePattern matches a value that is exactly one reference.
	wholeReferencePattern = regexp.MustCompile(`^\s*\{[^{}]+\}\s*$`)

	separatorReplacer = strings.NewReplacer("/", ".", `\`, ".")
)

// ParseCurlyBraceRef extracts the token path from a curly brace reference.
// Returns the path and true if valid, empty string and false otherwise.
func ParseCurlyBraceRef(value string) (string, bool) {
	matches := curlyBracePattern.FindStringSubmatch(value)
	if len(matches) != 2 {
		return "", false
	}
	return matches[1], true
}

// IsWholeReference reports whether value is a single reference and nothing else.
func IsWholeReference(value string) bool {
	return wholeReferencePattern.MatchString(value)
}

// ExtractAllRefs extracts all curly brace references from a string.
func ExtractAllRefs(value string) []string {
	matches := curlyBracePattern.FindAllStringSubmatch(value, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) >= 2 {
			refs = append(refs, m[1])
		}
	}
	return refs
}

// CleanReference trims ref and strips one layer of surrounding braces.
//
//	CleanReference(" {color.base} ") == "color.base"
//	CleanReference("{{a}}") == "{a}"
func CleanReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if len(ref) >= 2 && ref[0] == '{' && ref[len(ref)-1] == '}' {
		ref = strings.TrimSpace(ref[1 : len(ref)-1])
	}
	return ref
}

// NormalizeReference lowercases ref and unifies "/" and "\" separators to ".".
func NormalizeReference(ref string) string {
	return strings.ToLower(separatorReplacer.Replace(ref))
}

// LastSegment returns the part of a normalized reference after the final dot.
func LastSegment(ref string) string {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
