package nbt

import "fmt"

// Kind is the wire id of an NBT tag type.
type Kind byte

// The thirteen tag kinds of the NBT format.
const (
	TagEnd Kind = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

var kindNames = [...]string{
	TagEnd:       "End",
	TagByte:      "Byte",
	TagShort:     "Short",
	TagInt:       "Int",
	TagLong:      "Long",
	TagFloat:     "Float",
	TagDouble:    "Double",
	TagByteArray: "ByteArray",
	TagString:    "String",
	TagList:      "List",
	TagCompound:  "Compound",
	TagIntArray:  "IntArray",
	TagLongArray: "LongArray",
}

// Valid indicates whether k is one of the defined tag kinds.
func (k Kind) Valid() bool {
	return k <= TagLongArray
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", byte(k))
	}
	return kindNames[k]
}

// KindByName resolves the name of a tag kind as written by
// Kind.String, e.g. "Byte" or "IntArray". Matching is exact.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return TagEnd, false
}
