package nbt

import (
	"bytes"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// Tag is a node in a named binary tag tree.
//
// The implementation set is closed: Byte, Short, Int, Long, Float, Double,
// ByteArray, String, *List, *Compound, IntArray and LongArray. Dispatch on a
// tag is an exhaustive type switch, there is no case for TagEnd since End is
// a stream terminator and never a node.
type Tag interface {
	Kind() Kind
	tag()
}

// Root is a complete document: the stream's single named top-level compound.
// The name is often empty but is part of the wire format and round-trips.
type Root struct {
	Name     string
	Compound *Compound
}

// Equal reports whether two documents are structurally identical,
// including the root name.
func (r Root) Equal(other Root) bool {
	return r.Name == other.Name && Equal(r.Compound, other.Compound)
}

type (
	// Byte is a signed 8-bit integer tag.
	Byte int8
	// Short is a signed 16-bit integer tag.
	Short int16
	// Int is a signed 32-bit integer tag.
	Int int32
	// Long is a signed 64-bit integer tag.
	Long int64
	// Float is a 32-bit IEEE 754 floating point tag.
	Float float32
	// Double is a 64-bit IEEE 754 floating point tag.
	Double float64
	// ByteArray is a length-prefixed run of raw bytes.
	ByteArray []byte
	// String is a length-prefixed run of bytes, usually but not necessarily
	// valid UTF-8. Decoding preserves the exact payload bytes, use
	// DisplayString for a printable form.
	String string
	// IntArray is a length-prefixed run of signed 32-bit integers.
	IntArray []int32
	// LongArray is a length-prefixed run of signed 64-bit integers.
	LongArray []int64
)

func (Byte) Kind() Kind      { return TagByte }
func (Short) Kind() Kind     { return TagShort }
func (Int) Kind() Kind       { return TagInt }
func (Long) Kind() Kind      { return TagLong }
func (Float) Kind() Kind     { return TagFloat }
func (Double) Kind() Kind    { return TagDouble }
func (ByteArray) Kind() Kind { return TagByteArray }
func (String) Kind() Kind    { return TagString }
func (IntArray) Kind() Kind  { return TagIntArray }
func (LongArray) Kind() Kind { return TagLongArray }

func (Byte) tag()      {}
func (Short) tag()     {}
func (Int) tag()       {}
func (Long) tag()      {}
func (Float) tag()     {}
func (Double) tag()    {}
func (ByteArray) tag() {}
func (String) tag()    {}
func (IntArray) tag()  {}
func (LongArray) tag() {}

// List is a sequence of unnamed tags sharing one declared element kind.
// An empty list commonly declares TagEnd. Construction is unchecked,
// the encoder rejects lists whose items do not match the declared kind.
type List struct {
	elem  Kind
	items []Tag
}

// NewList creates a list declaring the given element kind.
func NewList(elem Kind, items ...Tag) *List {
	return &List{elem: elem, items: items}
}

func (l *List) Kind() Kind { return TagList }
func (l *List) tag()       {}

// ElementKind returns the declared kind of the list's elements.
func (l *List) ElementKind() Kind { return l.elem }

func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the i-th element. It panics if i is out of range.
func (l *List) At(i int) Tag { return l.items[i] }

// Append adds items to the end of the list without validating their kind.
func (l *List) Append(items ...Tag) { l.items = append(l.items, items...) }

// SetAt replaces the i-th element. It panics if i is out of range.
func (l *List) SetAt(i int, t Tag) { l.items[i] = t }

// Insert places t at position i, shifting later elements. Inserting into
// an empty list adopts the element's kind. It panics if i > Len().
func (l *List) Insert(i int, t Tag) {
	if len(l.items) == 0 && l.elem == TagEnd && t != nil {
		l.elem = t.Kind()
	}
	l.items = slices.Insert(l.items, i, t)
}

// Remove deletes the i-th element. It panics if i is out of range.
func (l *List) Remove(i int) { l.items = slices.Delete(l.items, i, i+1) }

// Range calls f for each element until f returns false.
func (l *List) Range(f func(i int, t Tag) bool) {
	if l == nil {
		return
	}
	for i, t := range l.items {
		if !f(i, t) {
			return
		}
	}
}

// Entry is a named member of a compound.
type Entry struct {
	Name string
	Tag  Tag
}

// Compound is an ordered collection of named tags. Insertion order is
// preserved and duplicate names are kept as they appear on the wire,
// lookups address the first occurrence.
type Compound struct {
	entries []Entry
}

// NewCompound creates a compound from the given entries in order.
func NewCompound(entries ...Entry) *Compound {
	return &Compound{entries: entries}
}

func (c *Compound) Kind() Kind { return TagCompound }
func (c *Compound) tag()       {}

func (c *Compound) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// EntryAt returns the i-th entry. It panics if i is out of range.
func (c *Compound) EntryAt(i int) Entry { return c.entries[i] }

// Index returns the position of the first entry with the given name,
// or -1 if the compound has none.
func (c *Compound) Index(name string) int {
	if c == nil {
		return -1
	}
	return slices.IndexFunc(c.entries, func(e Entry) bool { return e.Name == name })
}

// Get returns the first tag with the given name.
func (c *Compound) Get(name string) (Tag, bool) {
	if i := c.Index(name); i != -1 {
		return c.entries[i].Tag, true
	}
	return nil, false
}

func (c *Compound) Has(name string) bool { return c.Index(name) != -1 }

// Put replaces the first tag with the given name, or appends a new entry
// if the name is absent. It returns the compound for chaining.
func (c *Compound) Put(name string, t Tag) *Compound {
	if i := c.Index(name); i != -1 {
		c.entries[i].Tag = t
		return c
	}
	c.entries = append(c.entries, Entry{Name: name, Tag: t})
	return c
}

// Append adds an entry at the end even if the name already exists.
func (c *Compound) Append(name string, t Tag) {
	c.entries = append(c.entries, Entry{Name: name, Tag: t})
}

// Remove deletes the first entry with the given name and reports whether
// an entry was removed.
func (c *Compound) Remove(name string) bool {
	i := c.Index(name)
	if i == -1 {
		return false
	}
	c.entries = slices.Delete(c.entries, i, i+1)
	return true
}

// Range calls f for each entry in order until f returns false.
func (c *Compound) Range(f func(i int, e Entry) bool) {
	if c == nil {
		return
	}
	for i, e := range c.entries {
		if !f(i, e) {
			return
		}
	}
}

// Keys returns the entry names in order, including duplicates.
func (c *Compound) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Name
	}
	return keys
}

func (c *Compound) Bool(name string) (bool, bool) {
	val, ok := c.Byte(name)
	return val == 1, ok
}

func (c *Compound) Byte(name string) (ret int8, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v Byte
		v, ok = t.(Byte)
		ret = int8(v)
	}
	return
}

func (c *Compound) Short(name string) (ret int16, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v Short
		v, ok = t.(Short)
		ret = int16(v)
	}
	return
}

func (c *Compound) Int(name string) (ret int32, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v Int
		v, ok = t.(Int)
		ret = int32(v)
	}
	return
}

func (c *Compound) Long(name string) (ret int64, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v Long
		v, ok = t.(Long)
		ret = int64(v)
	}
	return
}

func (c *Compound) Float(name string) (ret float32, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v Float
		v, ok = t.(Float)
		ret = float32(v)
	}
	return
}

func (c *Compound) Double(name string) (ret float64, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v Double
		v, ok = t.(Double)
		ret = float64(v)
	}
	return
}

func (c *Compound) ByteArray(name string) (ret []byte, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v ByteArray
		v, ok = t.(ByteArray)
		ret = []byte(v)
	}
	return
}

func (c *Compound) String(name string) (ret string, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v String
		v, ok = t.(String)
		ret = string(v)
	}
	return
}

func (c *Compound) List(name string) (ret *List, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		ret, ok = t.(*List)
	}
	return
}

func (c *Compound) Compound(name string) (ret *Compound, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		ret, ok = t.(*Compound)
	}
	return
}

func (c *Compound) IntArray(name string) (ret []int32, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v IntArray
		v, ok = t.(IntArray)
		ret = []int32(v)
	}
	return
}

func (c *Compound) LongArray(name string) (ret []int64, ok bool) {
	var t Tag
	if t, ok = c.Get(name); ok {
		var v LongArray
		v, ok = t.(LongArray)
		ret = []int64(v)
	}
	return
}

// Equal reports deep structural equality of two tags. Compound entry order,
// duplicate entries and declared list element kinds are all significant.
// Floating point payloads compare by bit pattern, so equal NaN encodings
// compare equal.
func Equal(a, b Tag) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Byte:
		return at == b.(Byte)
	case Short:
		return at == b.(Short)
	case Int:
		return at == b.(Int)
	case Long:
		return at == b.(Long)
	case Float:
		return math.Float32bits(float32(at)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(at)) == math.Float64bits(float64(b.(Double)))
	case ByteArray:
		return bytes.Equal(at, []byte(b.(ByteArray)))
	case String:
		return at == b.(String)
	case IntArray:
		return slices.Equal(at, []int32(b.(IntArray)))
	case LongArray:
		return slices.Equal(at, []int64(b.(LongArray)))
	case *List:
		bt := b.(*List)
		if at.ElementKind() != bt.ElementKind() || at.Len() != bt.Len() {
			return false
		}
		for i := range at.items {
			if !Equal(at.items[i], bt.items[i]) {
				return false
			}
		}
		return true
	case *Compound:
		bt := b.(*Compound)
		if at.Len() != bt.Len() {
			return false
		}
		for i := range at.entries {
			if at.entries[i].Name != bt.entries[i].Name ||
				!Equal(at.entries[i].Tag, bt.entries[i].Tag) {
				return false
			}
		}
		return true
	}
	return false
}

// Copy returns a deep copy of t. Container children and array backing
// storage are duplicated so the copy shares no state with the original.
func Copy(t Tag) Tag {
	switch tt := t.(type) {
	case nil:
		return nil
	case ByteArray:
		return ByteArray(slices.Clone(tt))
	case IntArray:
		return IntArray(slices.Clone(tt))
	case LongArray:
		return LongArray(slices.Clone(tt))
	case *List:
		if tt == nil {
			return (*List)(nil)
		}
		items := make([]Tag, len(tt.items))
		for i, it := range tt.items {
			items[i] = Copy(it)
		}
		return &List{elem: tt.elem, items: items}
	case *Compound:
		if tt == nil {
			return (*Compound)(nil)
		}
		entries := make([]Entry, len(tt.entries))
		for i, e := range tt.entries {
			entries[i] = Entry{Name: e.Name, Tag: Copy(e.Tag)}
		}
		return &Compound{entries: entries}
	default:
		return t
	}
}

// CopyRoot returns a deep copy of a document.
func CopyRoot(r Root) Root {
	c, _ := Copy(r.Compound).(*Compound)
	return Root{Name: r.Name, Compound: c}
}

// DisplayString returns s with invalid UTF-8 sequences replaced by the
// Unicode replacement character. Decoded names and string payloads keep
// their raw bytes for round-tripping, this is the printable form.
func DisplayString(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
