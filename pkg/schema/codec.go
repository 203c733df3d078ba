package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Codec converts between the lexical form of an attribute or text value and its Go
// value. Encode panics when handed a Go value of the wrong type; that is a bug in the
// code that built the tree, not a property of the document.
type Codec interface {
	Name() string
	Decode(s string) (any, error)
	Encode(v any) string
}

var (
	// String keeps the value as is.
	String Codec = stringCodec{}
	// Bool decodes xsd:boolean plus the on/off spelling WordprocessingML uses, and
	// writes 1 or 0.
	Bool Codec = boolCodec{}
	// Int decodes any int64.
	Int Codec = IntRange("int", math.MinInt64, math.MaxInt64)
	// Uint decodes any uint64.
	Uint Codec = uintCodec{}
	// Float decodes float64.
	Float Codec = floatCodec{}
	// HexColor decodes a six digit RRGGBB value into a uint32.
	HexColor Codec = hexColorCodec{}
	// Coordinate decodes ST_Coordinate: EMUs, or a universal measure converted to EMUs.
	Coordinate Codec = CoordinateRange("coordinate", -27273042329600, 27273042316900)
	// PositiveCoordinate is Coordinate restricted to non-negative values.
	PositiveCoordinate Codec = CoordinateRange("positiveCoordinate", 0, 27273042316900)
)

func badType(c Codec, v any) string {
	panic(fmt.Sprintf("schema: %s codec cannot encode %T", c.Name(), v))
}

type stringCodec struct{}

func (stringCodec) Name() string                 { return "string" }
func (stringCodec) Decode(s string) (any, error) { return s, nil }
func (c stringCodec) Encode(v any) string {
	s, ok := v.(string)
	if !ok {
		return badType(c, v)
	}
	return s
}

type boolCodec struct{}

func (boolCodec) Name() string { return "boolean" }

func (boolCodec) Decode(s string) (any, error) {
	switch strings.TrimSpace(s) {
	case "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	}
	return nil, fmt.Errorf("%q is not a boolean", s)
}

func (c boolCodec) Encode(v any) string {
	b, ok := v.(bool)
	if !ok {
		return badType(c, v)
	}
	if b {
		return "1"
	}
	return "0"
}

type intCodec struct {
	name     string
	min, max int64
}

// IntRange returns an integer codec that rejects values outside [min, max].
func IntRange(name string, min, max int64) Codec {
	return intCodec{name: name, min: min, max: max}
}

func (c intCodec) Name() string { return c.name }

func (c intCodec) Decode(s string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", s)
	}
	if n < c.min || n > c.max {
		return nil, fmt.Errorf("%d is outside [%d, %d]", n, c.min, c.max)
	}
	return n, nil
}

func (c intCodec) Encode(v any) string {
	n, ok := toInt64(v)
	if !ok {
		return badType(c, v)
	}
	return strconv.FormatInt(n, 10)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}

type uintCodec struct{}

func (uintCodec) Name() string { return "unsignedInt" }

func (uintCodec) Decode(s string) (any, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an unsigned integer", s)
	}
	return n, nil
}

func (c uintCodec) Encode(v any) string {
	switch n := v.(type) {
	case uint64:
		return strconv.FormatUint(n, 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	}
	return badType(c, v)
}

type floatCodec struct{}

func (floatCodec) Name() string { return "double" }

func (floatCodec) Decode(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func (c floatCodec) Encode(v any) string {
	f, ok := v.(float64)
	if !ok {
		return badType(c, v)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type enumCodec struct {
	name   string
	tokens map[string]struct{}
}

// Enum returns a codec accepting exactly the listed tokens. Values are plain strings.
func Enum(name string, tokens ...string) Codec {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return enumCodec{name: name, tokens: set}
}

func (c enumCodec) Name() string { return c.name }

func (c enumCodec) Decode(s string) (any, error) {
	if _, ok := c.tokens[s]; !ok {
		return nil, fmt.Errorf("%q is not a valid %s", s, c.name)
	}
	return s, nil
}

func (c enumCodec) Encode(v any) string {
	s, ok := v.(string)
	if !ok {
		return badType(c, v)
	}
	return s
}

type hexColorCodec struct{}

func (hexColorCodec) Name() string { return "hexBinary" }

func (hexColorCodec) Decode(s string) (any, error) {
	if len(s) != 6 {
		return nil, fmt.Errorf("%q is not an RRGGBB color", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%q is not an RRGGBB color", s)
	}
	return uint32(n), nil
}

func (c hexColorCodec) Encode(v any) string {
	n, ok := v.(uint32)
	if !ok {
		return badType(c, v)
	}
	return fmt.Sprintf("%06X", n&0xFFFFFF)
}

var universalMeasure = regexp.MustCompile(`^(-?[0-9]+(?:\.[0-9]+)?)(mm|cm|in|pt|pc|pi)$`)

// EMUs per unit of each universal measure.
var emuPerUnit = map[string]float64{
	"mm": 36000,
	"cm": 360000,
	"in": 914400,
	"pt": 12700,
	"pc": 152400,
	"pi": 152400,
}

type coordinateCodec struct {
	name     string
	min, max int64
}

// CoordinateRange returns a coordinate codec bounded to [min, max] EMUs.
func CoordinateRange(name string, min, max int64) Codec {
	return coordinateCodec{name: name, min: min, max: max}
}

func (c coordinateCodec) Name() string { return c.name }

func (c coordinateCodec) Decode(s string) (any, error) {
	s = strings.TrimSpace(s)
	var n int64
	if m := universalMeasure.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a measure", s)
		}
		n = int64(math.Round(f * emuPerUnit[m[2]]))
	} else {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a coordinate", s)
		}
		n = v
	}
	if n < c.min || n > c.max {
		return nil, fmt.Errorf("%d is outside [%d, %d]", n, c.min, c.max)
	}
	return n, nil
}

func (c coordinateCodec) Encode(v any) string {
	n, ok := toInt64(v)
	if !ok {
		return badType(c, v)
	}
	return strconv.FormatInt(n, 10)
}
