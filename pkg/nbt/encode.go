package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encode serializes a document to bytes in the given byte order. A document
// decoded from valid input re-encodes to exactly the input bytes, and any
// encoded document decodes back to an equal tree.
//
// Encoding validates the tree as it walks it: a list item not matching the
// declared element kind, a nil child or a name or string payload longer
// than 65535 bytes fail with an error wrapping ErrInvalidTag and no output.
func Encode(root Root, enc Encoding) ([]byte, error) {
	if root.Compound == nil {
		return nil, fmt.Errorf("%w: document has no root compound", ErrInvalidTag)
	}
	e := &encodeState{order: enc.appendOrder()}
	if err := e.writeTag(root.Name, root.Compound); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encodeState struct {
	buf   []byte
	order binary.AppendByteOrder
	depth int
}

func (e *encodeState) invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTag, fmt.Sprintf(format, a...))
}

func (e *encodeState) writeString(s string) error {
	if len(s) > math.MaxUint16 {
		return e.invalid("string of %d bytes exceeds the 16-bit length prefix", len(s))
	}
	e.buf = e.order.AppendUint16(e.buf, uint16(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

// writeCount emits a signed 32-bit element count.
func (e *encodeState) writeCount(n int, what string) error {
	if n > math.MaxInt32 {
		return e.invalid("%s of %d elements exceeds the 32-bit count", what, n)
	}
	e.buf = e.order.AppendUint32(e.buf, uint32(int32(n)))
	return nil
}

func (e *encodeState) writeTag(name string, t Tag) error {
	if t == nil {
		return e.invalid("nil tag %q", name)
	}
	e.buf = append(e.buf, byte(t.Kind()))
	if err := e.writeString(name); err != nil {
		return err
	}
	if err := e.writePayload(t); err != nil {
		return fmt.Errorf("error encoding %q: %w", DisplayString(name), err)
	}
	return nil
}

func (e *encodeState) writePayload(t Tag) error {
	switch tt := t.(type) {
	case Byte:
		e.buf = append(e.buf, byte(tt))
	case Short:
		e.buf = e.order.AppendUint16(e.buf, uint16(tt))
	case Int:
		e.buf = e.order.AppendUint32(e.buf, uint32(tt))
	case Long:
		e.buf = e.order.AppendUint64(e.buf, uint64(tt))
	case Float:
		e.buf = e.order.AppendUint32(e.buf, math.Float32bits(float32(tt)))
	case Double:
		e.buf = e.order.AppendUint64(e.buf, math.Float64bits(float64(tt)))
	case ByteArray:
		if err := e.writeCount(len(tt), "byte array"); err != nil {
			return err
		}
		e.buf = append(e.buf, tt...)
	case String:
		return e.writeString(string(tt))
	case IntArray:
		if err := e.writeCount(len(tt), "int array"); err != nil {
			return err
		}
		for _, v := range tt {
			e.buf = e.order.AppendUint32(e.buf, uint32(v))
		}
	case LongArray:
		if err := e.writeCount(len(tt), "long array"); err != nil {
			return err
		}
		for _, v := range tt {
			e.buf = e.order.AppendUint64(e.buf, uint64(v))
		}
	case *List:
		return e.writeList(tt)
	case *Compound:
		return e.writeCompound(tt)
	default:
		return e.invalid("unsupported tag type %T", t)
	}
	return nil
}

func (e *encodeState) writeList(l *List) error {
	if e.depth++; e.depth > maxDepth {
		return e.invalid("nesting exceeds %d levels", maxDepth)
	}
	defer func() { e.depth-- }()

	if l == nil {
		return e.invalid("nil list")
	}
	if !l.elem.Valid() {
		return e.invalid("list declares unknown element kind %d", byte(l.elem))
	}
	if l.Len() > 0 && l.elem == TagEnd {
		return e.invalid("non-empty list of End tags")
	}
	e.buf = append(e.buf, byte(l.elem))
	if err := e.writeCount(l.Len(), "list"); err != nil {
		return err
	}
	for i, item := range l.items {
		if item == nil {
			return e.invalid("nil element %d", i)
		}
		if item.Kind() != l.elem {
			return e.invalid("element %d is %s, list declares %s", i, item.Kind(), l.elem)
		}
		if err := e.writePayload(item); err != nil {
			return fmt.Errorf("error encoding element %d: %w", i, err)
		}
	}
	return nil
}

func (e *encodeState) writeCompound(c *Compound) error {
	if e.depth++; e.depth > maxDepth {
		return e.invalid("nesting exceeds %d levels", maxDepth)
	}
	defer func() { e.depth-- }()

	if c == nil {
		return e.invalid("nil compound")
	}
	for _, entry := range c.entries {
		if err := e.writeTag(entry.Name, entry.Tag); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, byte(TagEnd))
	return nil
}

// An Encoder writes documents to an underlying writer.
type Encoder struct {
	w   io.Writer
	enc Encoding
}

// NewEncoder returns an encoder writing documents to w in the given byte
// order.
func NewEncoder(w io.Writer, enc Encoding) *Encoder {
	return &Encoder{w: w, enc: enc}
}

// Encode serializes one document and writes it out. Nothing is written
// when serialization fails.
func (e *Encoder) Encode(root Root) error {
	data, err := Encode(root, e.enc)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}
