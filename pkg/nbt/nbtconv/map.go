// Package nbtconv converts between the tag tree model, the plain Go value
// model used by gophertunnel's codec, stringified NBT and JSON.
package nbtconv

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	gtnbt "github.com/sandertv/gophertunnel/minecraft/nbt"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// Map is a compound in the plain value model: compounds as maps, lists as
// []any, bytes as uint8, arrays as []int32 and []int64. Entry order and
// duplicate names do not survive in this model, it exists for interop and
// for callers that want plain Go values.
type Map map[string]any

func (m Map) Bool(name string) (bool, bool) {
	val, ok := m.Uint8(name)
	return val == 1, ok
}

func (m Map) Int8(name string) (ret int8, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(int8)
	}
	return
}

func (m Map) Uint8(name string) (ret uint8, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(uint8)
	}
	return
}

func (m Map) Int16(name string) (ret int16, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(int16)
	}
	return
}

func (m Map) Int32(name string) (ret int32, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(int32)
	}
	return
}

func (m Map) Int(name string) (int, bool) {
	i, ok := m.Int32(name)
	return int(i), ok
}

func (m Map) Int64(name string) (ret int64, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(int64)
	}
	return
}

func (m Map) Float32(name string) (ret float32, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(float32)
	}
	return
}

func (m Map) Float64(name string) (ret float64, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(float64)
	}
	return
}

func (m Map) ByteArray(name string) (ret []byte, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.([]byte)
	}
	return
}

func (m Map) String(name string) (ret string, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(string)
	}
	return
}

func (m Map) Map(name string) (ret Map, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.(map[string]any)
		if !ok {
			ret, ok = val.(Map)
		}
	}
	return
}

func (m Map) List(name string) (ret []any, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.([]any)
	}
	return
}

func (m Map) Int32Array(name string) (ret []int32, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.([]int32)
	}
	return
}

func (m Map) Int64Array(name string) (ret []int64, ok bool) {
	var val any
	if val, ok = m[name]; ok {
		ret, ok = val.([]int64)
	}
	return
}

func gtEncoding(enc nbt.Encoding) gtnbt.Encoding {
	if enc == nbt.LittleEndian {
		return gtnbt.LittleEndian
	}
	return gtnbt.BigEndian
}

// DecodeMap decodes a bare tag stream into a Map through gophertunnel's
// codec. It is the cross-check path: an independent decoder agreeing on
// the same bytes.
func DecodeMap(data []byte, enc nbt.Encoding) (Map, error) {
	m := Map{}
	dec := gtnbt.NewDecoderWithEncoding(bytes.NewReader(data), gtEncoding(enc))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("error decoding stream to map: %w", err)
	}
	return m, nil
}

// EncodeMap serializes a Map through gophertunnel's codec. Entry order is
// whatever that codec picks, use the tag tree encoder when byte-exact
// output matters.
func EncodeMap(m Map, enc nbt.Encoding) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := gtnbt.NewEncoderWithEncoding(buf, gtEncoding(enc)).Encode(m); err != nil {
		return nil, fmt.Errorf("error encoding map: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMap converts a compound tree into the plain value model. Duplicate
// names collapse to their first occurrence, the authoritative one.
func ToMap(c *nbt.Compound) Map {
	m := make(Map, c.Len())
	c.Range(func(_ int, e nbt.Entry) bool {
		if _, exists := m[e.Name]; !exists {
			m[e.Name] = toValue(e.Tag)
		}
		return true
	})
	return m
}

func toValue(t nbt.Tag) any {
	switch tt := t.(type) {
	case nbt.Byte:
		return byte(tt)
	case nbt.Short:
		return int16(tt)
	case nbt.Int:
		return int32(tt)
	case nbt.Long:
		return int64(tt)
	case nbt.Float:
		return float32(tt)
	case nbt.Double:
		return float64(tt)
	case nbt.ByteArray:
		return []byte(bytes.Clone(tt))
	case nbt.String:
		return string(tt)
	case nbt.IntArray:
		return append([]int32(nil), tt...)
	case nbt.LongArray:
		return append([]int64(nil), tt...)
	case *nbt.List:
		items := make([]any, 0, tt.Len())
		tt.Range(func(_ int, item nbt.Tag) bool {
			items = append(items, toValue(item))
			return true
		})
		return items
	case *nbt.Compound:
		return map[string]any(ToMap(tt))
	}
	return nil
}

// FromMap builds a compound tree from plain values. Map iteration has no
// order, entries are sorted by name for determinism. Plain ints become
// Int when they fit and Long otherwise, bools become Byte.
func FromMap(m Map) (*nbt.Compound, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	c := nbt.NewCompound()
	for _, name := range names {
		t, err := fromValue(m[name])
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		c.Put(name, t)
	}
	return c, nil
}

func fromValue(v any) (nbt.Tag, error) {
	switch vv := v.(type) {
	case byte:
		return nbt.Byte(vv), nil
	case int8:
		return nbt.Byte(vv), nil
	case bool:
		if vv {
			return nbt.Byte(1), nil
		}
		return nbt.Byte(0), nil
	case int16:
		return nbt.Short(vv), nil
	case int32:
		return nbt.Int(vv), nil
	case int64:
		return nbt.Long(vv), nil
	case int:
		if vv >= math.MinInt32 && vv <= math.MaxInt32 {
			return nbt.Int(int32(vv)), nil
		}
		return nbt.Long(int64(vv)), nil
	case float32:
		return nbt.Float(vv), nil
	case float64:
		return nbt.Double(vv), nil
	case string:
		return nbt.String(vv), nil
	case []byte:
		return nbt.ByteArray(bytes.Clone(vv)), nil
	case []int32:
		return nbt.IntArray(append([]int32(nil), vv...)), nil
	case []int64:
		return nbt.LongArray(append([]int64(nil), vv...)), nil
	case []any:
		if len(vv) == 0 {
			return nbt.NewList(nbt.TagEnd), nil
		}
		first, err := fromValue(vv[0])
		if err != nil {
			return nil, err
		}
		l := nbt.NewList(first.Kind(), first)
		for i, item := range vv[1:] {
			t, err := fromValue(item)
			if err != nil {
				return nil, err
			}
			if t.Kind() != l.ElementKind() {
				return nil, fmt.Errorf("list element %d is %s, list is %s",
					i+1, t.Kind(), l.ElementKind())
			}
			l.Append(t)
		}
		return l, nil
	case map[string]any:
		return FromMap(Map(vv))
	case Map:
		return FromMap(vv)
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}
