/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator derives a stable token id from a scope and a path.
// Implementations must be pure: the same input always yields the same id.
type IDGenerator interface {
	GenerateID(scope string, path []string) string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func(scope string, path []string) string

// GenerateID calls f.
func (f IDGeneratorFunc) GenerateID(scope string, path []string) string {
	return f(scope, path)
}

// idKey is the string every generator hashes.
func idKey(scope string, path []string) string {
	return scope + ":" + strings.Join(path, ".")
}

// HashIDGenerator is the default strategy: a 31-multiplier string hash of
// "scope:qualified.name" truncated to 32 bits, rendered as "tok_<base36>".
type HashIDGenerator struct{}

// GenerateID implements IDGenerator.
func (HashIDGenerator) GenerateID(scope string, path []string) string {
	var h int32
	for _, r := range idKey(scope, path) {
		h = 31*h + int32(r)
	}
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return "tok_" + strconv.FormatInt(n, 36)
}

// idNamespace is the UUID namespace for name-based token ids.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://bennypowers.dev/tokenstore/token"))

// UUIDGenerator derives a SHA-1 name-based UUID (version 5) from the same key
// the hash strategy uses. Switching strategies changes every id.
type UUIDGenerator struct{}

// GenerateID implements IDGenerator.
func (UUIDGenerator) GenerateID(scope string, path []string) string {
	return uuid.NewSHA1(idNamespace, []byte(idKey(scope, path))).String()
}

// DefaultIDGenerator is used by GenerateID and by stores built without an
// explicit generator.
var DefaultIDGenerator IDGenerator = HashIDGenerator{}

// GenerateID derives an id with DefaultIDGenerator.
func GenerateID(scope string, path []string) string {
	return DefaultIDGenerator.GenerateID(scope, path)
}

// IDGeneratorFor returns the generator named by strategy ("hash" or "uuid").
func IDGeneratorFor(strategy string) (IDGenerator, error) {
	switch strings.ToLower(strategy) {
	case "", "hash":
		return HashIDGenerator{}, nil
	case "uuid":
		return UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
