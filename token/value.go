/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package token

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Sentinel errors for value construction.
var (
	// ErrInvalidValue indicates a raw value does not fit the token type.
	ErrInvalidValue = errors.New("invalid token value")

	// ErrInvalidColor indicates a color string could not be parsed.
	ErrInvalidColor = errors.New("invalid color")

	// ErrInvalidDimension indicates a dimension string could not be parsed.
	ErrInvalidDimension = errors.New("invalid dimension")
)

// Value is a token payload. The set of implementations is closed:
// Color, Dimension, Typography, Shadow, Number, String, Boolean,
// Reference and Other.
type Value interface {
	// String renders the value the way it would appear in a token file.
	String() string
	isValue()
}

// Color is a validated color. Raw keeps the author's spelling.
type Color struct {
	Color colorful.Color
	Alpha float64
	Raw   string
}

// Dimension is a number with a unit. No unit conversion is performed.
type Dimension struct {
	Value float64
	Unit  string
}

// Typography is a composite font value.
type Typography struct {
	FontFamily    string
	FontSize      string
	FontWeight    string
	LineHeight    string
	LetterSpacing string
}

// Shadow is a composite shadow value.
type Shadow struct {
	Color   string
	OffsetX string
	OffsetY string
	Blur    string
	Spread  string
	Inset   bool
}

// Number is a unitless number.
type Number float64

// String is a free-form string value.
type String string

// Boolean is a boolean value.
type Boolean bool

// Reference is an alias reference such as "{color.base}".
type Reference string

// Other carries a value whose type has no dedicated payload.
type Other struct {
	Raw any
}

func (Color) isValue()      {}
func (Dimension) isValue()  {}
func (Typography) isValue() {}
func (Shadow) isValue()     {}
func (Number) isValue()     {}
func (String) isValue()     {}
func (Boolean) isValue()    {}
func (Reference) isValue()  {}
func (Other) isValue()      {}

func (c Color) String() string {
	if c.Raw != "" {
		return c.Raw
	}
	if c.Alpha < 1 {
		return fmt.Sprintf("%s%02x", c.Color.Hex(), int(c.Alpha*255+0.5))
	}
	return c.Color.Hex()
}

func (d Dimension) String() string {
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + d.Unit
}

func (t Typography) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{t.FontWeight, t.FontSize, t.LineHeight, t.FontFamily} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if t.LetterSpacing != "" {
		parts = append(parts, "letter-spacing:"+t.LetterSpacing)
	}
	return strings.Join(parts, " ")
}

func (s Shadow) String() string {
	parts := make([]string, 0, 6)
	if s.Inset {
		parts = append(parts, "inset")
	}
	for _, p := range []string{s.OffsetX, s.OffsetY, s.Blur, s.Spread, s.Color} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (n Number) String() string  { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (s String) String() string  { return string(s) }
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }
func (r Reference) String() string {
	return string(r)
}
func (o Other) String() string {
	if o.Raw == nil {
		return ""
	}
	return fmt.Sprintf("%v", o.Raw)
}

// Path returns the cleaned reference target, e.g. "color.base".
func (r Reference) Path() string {
	return CleanReference(string(r))
}

// KindOf returns the Type a value variant belongs to.
// References and nil report TypeOther.
func KindOf(v Value) Type {
	switch v.(type) {
	case Color:
		return TypeColor
	case Dimension:
		return TypeDimension
	case Typography:
		return TypeTypography
	case Shadow:
		return TypeShadow
	case Number:
		return TypeNumber
	case String:
		return TypeString
	case Boolean:
		return TypeBoolean
	case Reference, Other, nil:
		return TypeOther
	default:
		panic(fmt.Sprintf("token: unknown value variant %T", v))
	}
}

// ParseColor validates s as a CSS color.
func ParseColor(s string) (Color, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
	}
	return Color{
		Color: colorful.Color{R: c.R, G: c.G, B: c.B},
		Alpha: c.A,
		Raw:   s,
	}, nil
}

var dimensionPattern = regexp.MustCompile(`^\s*(-?(?:\d+\.?\d*|\.\d+))\s*([a-zA-Z%]*)\s*$`)

// ParseDimension splits s into a number and a unit, e.g. "1.5rem".
func ParseDimension(s string) (Dimension, error) {
	m := dimensionPattern.FindStringSubmatch(s)
	if m == nil {
		return Dimension{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("%w: %q: %v", ErrInvalidDimension, s, err)
	}
	return Dimension{Value: f, Unit: m[2]}, nil
}

// ValueFromAny builds the variant for typ from a decoded JSON or YAML value.
// A string holding a whole curly-brace reference always yields a Reference.
func ValueFromAny(typ Type, raw any) (Value, error) {
	if s, ok := raw.(string); ok && IsWholeReference(s) {
		return Reference(strings.TrimSpace(s)), nil
	}

	switch typ {
	case TypeColor:
		s, ok := raw.(string)
		if !ok {
			if m, ok := raw.(map[string]any); ok {
				if hex, ok := m["hex"].(string); ok {
					return ParseColor(hex)
				}
			}
			return nil, fmt.Errorf("%w: color must be a string, got %T", ErrInvalidValue, raw)
		}
		return ParseColor(s)

	case TypeDimension:
		switch v := raw.(type) {
		case string:
			return ParseDimension(v)
		case map[string]any:
			n, ok := toFloat(v["value"])
			if !ok {
				return nil, fmt.Errorf("%w: dimension value must be numeric", ErrInvalidValue)
			}
			unit, _ := v["unit"].(string)
			return Dimension{Value: n, Unit: unit}, nil
		default:
			if n, ok := toFloat(v); ok {
				return Dimension{Value: n}, nil
			}
		}
		return nil, fmt.Errorf("%w: unsupported dimension %T", ErrInvalidValue, raw)

	case TypeNumber:
		if n, ok := toFloat(raw); ok {
			return Number(n), nil
		}
		if s, ok := raw.(string); ok {
			n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err == nil {
				return Number(n), nil
			}
		}
		return nil, fmt.Errorf("%w: number expected, got %v", ErrInvalidValue, raw)

	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return Boolean(v), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err == nil {
				return Boolean(b), nil
			}
		}
		return nil, fmt.Errorf("%w: boolean expected, got %v", ErrInvalidValue, raw)

	case TypeString:
		if s, ok := raw.(string); ok {
			return String(s), nil
		}
		return String(fmt.Sprintf("%v", raw)), nil

	case TypeTypography:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: typography must be an object", ErrInvalidValue)
		}
		return Typography{
			FontFamily:    field(m, "fontFamily"),
			FontSize:      field(m, "fontSize"),
			FontWeight:    field(m, "fontWeight"),
			LineHeight:    field(m, "lineHeight"),
			LetterSpacing: field(m, "letterSpacing"),
		}, nil

	case TypeShadow:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: shadow must be an object", ErrInvalidValue)
		}
		inset, _ := m["inset"].(bool)
		return Shadow{
			Color:   field(m, "color"),
			OffsetX: field(m, "offsetX"),
			OffsetY: field(m, "offsetY"),
			Blur:    field(m, "blur"),
			Spread:  field(m, "spread"),
			Inset:   inset,
		}, nil

	default:
		return Other{Raw: raw}, nil
	}
}

func field(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if sub, ok := v.(map[string]any); ok {
		// 2025.10 dimension objects
		if n, ok := toFloat(sub["value"]); ok {
			unit, _ := sub["unit"].(string)
			return Dimension{Value: n, Unit: unit}.String()
		}
	}
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprintf("%v", item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
