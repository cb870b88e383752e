package nbt

import "encoding/binary"

// Encoding selects the byte order of multi-byte fields in a binary NBT
// stream. Neither variant is derivable from the payload itself, callers
// state it explicitly.
type Encoding byte

const (
	// BigEndian is the Java Edition disk and network byte order.
	BigEndian Encoding = iota
	// LittleEndian is the Bedrock Edition disk byte order, the body format
	// inside a level.dat envelope.
	LittleEndian
)

func (e Encoding) String() string {
	switch e {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	}
	return "unknown"
}

func (e Encoding) byteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Encoding) appendOrder() binary.AppendByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}
