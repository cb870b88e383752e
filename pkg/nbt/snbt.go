package nbt

import (
	"regexp"
	"strconv"
)

// bareNameRe matches names and strings that stringified NBT leaves
// unquoted.
var bareNameRe = regexp.MustCompile(`^[a-zA-Z0-9_\-.+]+$`)

// SNBT renders a tag as stringified NBT with typed numeric suffixes, for
// example {health:20s,abilities:{mayfly:1b}}. It is a display and
// interchange form, not the byte-exact wire form: names and string payloads
// are sanitized with DisplayString before quoting.
func SNBT(t Tag) string {
	return string(AppendSNBT(nil, t))
}

// AppendSNBT appends the stringified form of t to dst and returns the
// extended buffer.
func AppendSNBT(dst []byte, t Tag) []byte {
	switch tt := t.(type) {
	case nil:
		return dst
	case Byte:
		dst = strconv.AppendInt(dst, int64(tt), 10)
		return append(dst, 'b')
	case Short:
		dst = strconv.AppendInt(dst, int64(tt), 10)
		return append(dst, 's')
	case Int:
		return strconv.AppendInt(dst, int64(tt), 10)
	case Long:
		dst = strconv.AppendInt(dst, int64(tt), 10)
		return append(dst, 'L')
	case Float:
		dst = strconv.AppendFloat(dst, float64(tt), 'f', -1, 32)
		return append(dst, 'f')
	case Double:
		dst = strconv.AppendFloat(dst, float64(tt), 'f', -1, 64)
		return append(dst, 'd')
	case String:
		return appendSNBTString(dst, string(tt))
	case ByteArray:
		dst = append(dst, "[B;"...)
		for i, v := range tt {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, int64(int8(v)), 10)
			dst = append(dst, 'b')
		}
		return append(dst, ']')
	case IntArray:
		dst = append(dst, "[I;"...)
		for i, v := range tt {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, int64(v), 10)
		}
		return append(dst, ']')
	case LongArray:
		dst = append(dst, "[L;"...)
		for i, v := range tt {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendInt(dst, v, 10)
			dst = append(dst, 'L')
		}
		return append(dst, ']')
	case *List:
		dst = append(dst, '[')
		for i, item := range tt.items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendSNBT(dst, item)
		}
		return append(dst, ']')
	case *Compound:
		dst = append(dst, '{')
		for i, e := range tt.entries {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendSNBTName(dst, e.Name)
			dst = append(dst, ':')
			dst = AppendSNBT(dst, e.Tag)
		}
		return append(dst, '}')
	}
	return dst
}

func appendSNBTName(dst []byte, name string) []byte {
	name = DisplayString(name)
	if bareNameRe.MatchString(name) {
		return append(dst, name...)
	}
	return appendQuoted(dst, name)
}

func appendSNBTString(dst []byte, s string) []byte {
	return appendQuoted(dst, DisplayString(s))
}

func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			dst = append(dst, '\\')
		}
		dst = append(dst, s[i])
	}
	return append(dst, '"')
}
