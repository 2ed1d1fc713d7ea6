/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/tokenstore/fs"
	"bennypowers.dev/tokenstore/internal/logger"
	"bennypowers.dev/tokenstore/token"
)

// ErrInvalidFile is returned for token files that cannot be decoded.
var ErrInvalidFile = errors.New("invalid token file")

// Metadata keys written by the parser.
const (
	MetadataFile               = "file"
	MetadataExtensions         = "extensions"
	MetadataDeprecationMessage = "deprecationMessage"
)

// extensionKey is the $extensions namespace read for tags and status.
const extensionKey = "dev.tokenstore"

// JSONParser parses DTCG token files written as JSON (comments allowed)
// or YAML.
type JSONParser struct{}

// NewJSONParser creates a new token parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse decodes data and returns one token per $value or $ref entry.
func (p *JSONParser) Parse(data []byte, opts Options) ([]*token.Token, error) {
	if opts.Scope == "" {
		return nil, fmt.Errorf("%w: scope is required", ErrInvalidFile)
	}
	if opts.IDs == nil {
		opts.IDs = token.DefaultIDGenerator
	}

	var raw map[string]any
	if isLikelyJSON(data) {
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
	} else {
		var yamlRaw any
		if err := yaml.Unmarshal(data, &yamlRaw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
		if yamlRaw == nil {
			return []*token.Token{}, nil
		}
		var ok bool
		raw, ok = normalizeMap(yamlRaw).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: root must be an object", ErrInvalidFile)
		}
	}

	result := []*token.Token{}
	p.extractTokens(raw, nil, "", opts, &result)
	return result, nil
}

// ParseFile parses the token file at path and records it in each token's
// metadata.
func (p *JSONParser) ParseFile(filesystem fs.FileSystem, path string, opts Options) ([]*token.Token, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tokens, err := p.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}

	for _, t := range tokens {
		if t.Metadata == nil {
			t.Metadata = make(map[string]any, 1)
		}
		t.Metadata[MetadataFile] = path
	}
	return tokens, nil
}

// isLikelyJSON checks whether data starts with '{' after whitespace or a BOM.
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r', 0xEF, 0xBB, 0xBF:
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// normalizeMap converts the map[any]any that YAML produces for numeric keys.
func normalizeMap(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeMap(val)
		}
		return x
	case map[any]any:
		result := make(map[string]any, len(x))
		for k, val := range x {
			result[fmt.Sprintf("%v", k)] = normalizeMap(val)
		}
		return result
	case []any:
		for i, val := range x {
			x[i] = normalizeMap(val)
		}
		return x
	default:
		return v
	}
}

// extractTokens walks a group. inheritedType is the nearest ancestor $type.
func (p *JSONParser) extractTokens(data map[string]any, path []string, inheritedType string, opts Options, result *[]*token.Token) {
	currentType := inheritedType
	if groupType, ok := data["$type"].(string); ok {
		currentType = groupType
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		// $root is the one $-key that names a token.
		if strings.HasPrefix(k, "$") && k != "$root" {
			continue
		}
		keys = append(keys, k)
	}
	if !opts.SkipSort {
		sort.Strings(keys)
	}

	for _, key := range keys {
		valueMap, ok := data[key].(map[string]any)
		if !ok {
			continue
		}

		// $root tokens take the path of their group.
		tokenPath := path
		if key != "$root" {
			tokenPath = append(slices.Clip(path), key)
		}

		_, hasValue := valueMap["$value"]
		_, hasRef := valueMap["$ref"]
		if (hasValue || hasRef) && len(tokenPath) > 0 {
			if t := p.createToken(valueMap, tokenPath, currentType, opts); t != nil {
				*result = append(*result, t)
			}
			continue
		}

		if key != "$root" {
			p.extractTokens(valueMap, tokenPath, currentType, opts, result)
		}
	}
}

func (p *JSONParser) createToken(valueMap map[string]any, path []string, inheritedType string, opts Options) *token.Token {
	typeName := inheritedType
	if typeStr, ok := valueMap["$type"].(string); ok {
		typeName = typeStr
	}

	raw, hasValue := valueMap["$value"]
	if !hasValue {
		if ref, ok := valueMap["$ref"].(string); ok {
			raw = "{" + jsonPointerToPath(ref) + "}"
		}
	}

	typ := token.ParseType(typeName)
	if typeName == "" {
		typ = inferType(raw)
	}

	qn := strings.Join(path, ".")
	value, err := token.ValueFromAny(typ, raw)
	if err != nil {
		logger.Warn("skipping %s in scope %q: %v", qn, opts.Scope, err)
		return nil
	}

	t := &token.Token{
		ID:         opts.IDs.GenerateID(opts.Scope, path),
		Path:       slices.Clone(path),
		Type:       typ,
		Value:      value,
		Scope:      opts.Scope,
		Collection: opts.Collection,
		Theme:      opts.Theme,
		Brand:      opts.Brand,
		Status:     token.StatusActive,
	}

	if desc, ok := valueMap["$description"].(string); ok {
		t.Description = desc
	}
	switch dep := valueMap["$deprecated"].(type) {
	case bool:
		if dep {
			t.Status = token.StatusDeprecated
		}
	case string:
		t.Status = token.StatusDeprecated
		t.Metadata = map[string]any{MetadataDeprecationMessage: dep}
	}
	if ext, ok := valueMap["$extensions"].(map[string]any); ok {
		if t.Metadata == nil {
			t.Metadata = make(map[string]any, 1)
		}
		t.Metadata[MetadataExtensions] = ext
		applyExtensions(t, ext)
	}

	return t
}

// applyExtensions reads tags and status from the dev.tokenstore extension.
func applyExtensions(t *token.Token, ext map[string]any) {
	own, ok := ext[extensionKey].(map[string]any)
	if !ok {
		return
	}
	if tags, ok := own["tags"].([]any); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok && !slices.Contains(t.Tags, s) {
				t.Tags = append(t.Tags, s)
			}
		}
	}
	if status, ok := own["status"].(string); ok && token.Status(status).Valid() {
		t.Status = token.Status(status)
	}
}

// inferType picks a type for tokens with no $type in scope.
func inferType(raw any) token.Type {
	switch raw.(type) {
	case string:
		return token.TypeString
	case float64, int:
		return token.TypeNumber
	case bool:
		return token.TypeBoolean
	default:
		return token.TypeOther
	}
}

// jsonPointerToPath converts "#/color/brand" to "color.brand".
func jsonPointerToPath(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "#/")
	return strings.ReplaceAll(pointer, "/", ".")
}
