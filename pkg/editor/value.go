package editor

import (
	"fmt"
	"math"
	"strings"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt/nbtconv"
)

// ParseForKind parses input as a value of the wanted kind. String nodes
// take the input verbatim, byte nodes accept true/false, numbers convert
// between the integer kinds when the value fits the target range.
func ParseForKind(want nbt.Kind, input string) (nbt.Tag, error) {
	if want == nbt.TagString {
		return nbt.String(input), nil
	}
	in := strings.TrimSpace(input)
	if want == nbt.TagByte {
		switch strings.ToLower(in) {
		case "true":
			return nbt.Byte(1), nil
		case "false":
			return nbt.Byte(0), nil
		}
	}
	t, err := nbtconv.ParseValue(in)
	if err != nil {
		return nil, err
	}
	return coerce(t, want)
}

func coerce(t nbt.Tag, want nbt.Kind) (nbt.Tag, error) {
	if t.Kind() == want {
		return t, nil
	}
	if i, ok := intValue(t); ok {
		switch want {
		case nbt.TagByte:
			if i >= math.MinInt8 && i <= math.MaxInt8 {
				return nbt.Byte(i), nil
			}
		case nbt.TagShort:
			if i >= math.MinInt16 && i <= math.MaxInt16 {
				return nbt.Short(i), nil
			}
		case nbt.TagInt:
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return nbt.Int(i), nil
			}
		case nbt.TagLong:
			return nbt.Long(i), nil
		case nbt.TagFloat:
			return nbt.Float(i), nil
		case nbt.TagDouble:
			return nbt.Double(i), nil
		default:
			return nil, fmt.Errorf("cannot use %s value for a %s field", t.Kind(), want)
		}
		return nil, fmt.Errorf("%s does not fit a %s field", nbt.SNBT(t), want)
	}
	if f, ok := floatValue(t); ok {
		switch want {
		case nbt.TagFloat:
			return nbt.Float(f), nil
		case nbt.TagDouble:
			return nbt.Double(f), nil
		}
	}
	return nil, fmt.Errorf("cannot use %s value for a %s field", t.Kind(), want)
}

func intValue(t nbt.Tag) (int64, bool) {
	switch v := t.(type) {
	case nbt.Byte:
		return int64(v), true
	case nbt.Short:
		return int64(v), true
	case nbt.Int:
		return int64(v), true
	case nbt.Long:
		return int64(v), true
	}
	return 0, false
}

func floatValue(t nbt.Tag) (float64, bool) {
	switch v := t.(type) {
	case nbt.Float:
		return float64(v), true
	case nbt.Double:
		return float64(v), true
	}
	return 0, false
}
