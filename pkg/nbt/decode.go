package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// maxDepth bounds container nesting so hostile input cannot exhaust the
// stack. It matches the limit common to Bedrock protocol decoders.
const maxDepth = 512

// Decode reads one complete document from the start of data in the given
// byte order and returns it together with the number of bytes consumed.
// The root tag must be a compound. Trailing bytes after the document are
// not an error, the caller decides what leftover input means.
//
// All failures wrap ErrMalformedStream and leave no partial result.
func Decode(data []byte, enc Encoding) (Root, int, error) {
	d := &decodeState{data: data, order: enc.byteOrder()}
	kind, err := d.readKind()
	if err != nil {
		return Root{}, 0, err
	}
	if kind != TagCompound {
		return Root{}, 0, d.malformed("root tag is %s, expected Compound", kind)
	}
	name, err := d.readString()
	if err != nil {
		return Root{}, 0, fmt.Errorf("error decoding root name: %w", err)
	}
	c, err := d.readCompound()
	if err != nil {
		return Root{}, 0, err
	}
	return Root{Name: string(name), Compound: c}, d.off, nil
}

type decodeState struct {
	data  []byte
	off   int
	order binary.ByteOrder
	depth int
}

func (d *decodeState) malformed(format string, a ...any) error {
	return fmt.Errorf("%w: %s (offset %d)", ErrMalformedStream, fmt.Sprintf(format, a...), d.off)
}

func (d *decodeState) remaining() int { return len(d.data) - d.off }

func (d *decodeState) need(n int64) error {
	if n > int64(d.remaining()) {
		return d.malformed("truncated stream, need %d more bytes, have %d", n, d.remaining())
	}
	return nil
}

func (d *decodeState) readByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.data[d.off]
	d.off++
	return b, nil
}

func (d *decodeState) readUint16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := d.order.Uint16(d.data[d.off:])
	d.off += 2
	return v, nil
}

func (d *decodeState) readInt32() (int32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := d.order.Uint32(d.data[d.off:])
	d.off += 4
	return int32(v), nil
}

func (d *decodeState) readInt64() (int64, error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := d.order.Uint64(d.data[d.off:])
	d.off += 8
	return int64(v), nil
}

func (d *decodeState) readKind() (Kind, error) {
	b, err := d.readByte()
	if err != nil {
		return TagEnd, err
	}
	k := Kind(b)
	if !k.Valid() {
		d.off--
		return TagEnd, d.malformed("unknown tag kind 0x%02x", b)
	}
	return k, nil
}

// readString reads a 16-bit length prefix followed by that many raw bytes.
// The bytes are kept as-is, invalid UTF-8 included, so that re-encoding
// reproduces the input exactly.
func (d *decodeState) readString() (String, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	if err = d.need(int64(n)); err != nil {
		return "", err
	}
	s := String(d.data[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

// readCount reads a signed 32-bit element count and rejects negatives.
func (d *decodeState) readCount(what string) (int, error) {
	n, err := d.readInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, d.malformed("negative %s count %d", what, n)
	}
	return int(n), nil
}

func (d *decodeState) readPayload(kind Kind) (Tag, error) {
	switch kind {
	case TagByte:
		b, err := d.readByte()
		return Byte(b), err
	case TagShort:
		v, err := d.readUint16()
		return Short(v), err
	case TagInt:
		v, err := d.readInt32()
		return Int(v), err
	case TagLong:
		v, err := d.readInt64()
		return Long(v), err
	case TagFloat:
		v, err := d.readInt32()
		return Float(math.Float32frombits(uint32(v))), err
	case TagDouble:
		v, err := d.readInt64()
		return Double(math.Float64frombits(uint64(v))), err
	case TagByteArray:
		n, err := d.readCount("byte array")
		if err != nil {
			return nil, err
		}
		if err = d.need(int64(n)); err != nil {
			return nil, err
		}
		a := make(ByteArray, n)
		copy(a, d.data[d.off:])
		d.off += n
		return a, nil
	case TagString:
		return d.readString()
	case TagList:
		return d.readList()
	case TagCompound:
		return d.readCompound()
	case TagIntArray:
		n, err := d.readCount("int array")
		if err != nil {
			return nil, err
		}
		if err = d.need(int64(n) * 4); err != nil {
			return nil, err
		}
		a := make(IntArray, n)
		for i := range a {
			a[i] = int32(d.order.Uint32(d.data[d.off:]))
			d.off += 4
		}
		return a, nil
	case TagLongArray:
		n, err := d.readCount("long array")
		if err != nil {
			return nil, err
		}
		if err = d.need(int64(n) * 8); err != nil {
			return nil, err
		}
		a := make(LongArray, n)
		for i := range a {
			a[i] = int64(d.order.Uint64(d.data[d.off:]))
			d.off += 8
		}
		return a, nil
	}
	// TagEnd has no payload and is handled by the compound loop.
	return nil, d.malformed("unexpected payload kind %s", kind)
}

func (d *decodeState) readList() (*List, error) {
	if d.depth++; d.depth > maxDepth {
		return nil, d.malformed("nesting exceeds %d levels", maxDepth)
	}
	defer func() { d.depth-- }()

	elem, err := d.readKind()
	if err != nil {
		return nil, err
	}
	n, err := d.readCount("list")
	if err != nil {
		return nil, err
	}
	if n > 0 && elem == TagEnd {
		return nil, d.malformed("list of End tags with count %d", n)
	}
	// Every element occupies at least one byte, so a count beyond the
	// remaining input is bogus regardless of the element kind.
	if err = d.need(int64(n)); err != nil {
		return nil, err
	}
	l := &List{elem: elem}
	if n > 0 {
		l.items = make([]Tag, 0, n)
	}
	for i := 0; i < n; i++ {
		item, err := d.readPayload(elem)
		if err != nil {
			return nil, fmt.Errorf("error decoding list element %d: %w", i, err)
		}
		l.items = append(l.items, item)
	}
	return l, nil
}

func (d *decodeState) readCompound() (*Compound, error) {
	if d.depth++; d.depth > maxDepth {
		return nil, d.malformed("nesting exceeds %d levels", maxDepth)
	}
	defer func() { d.depth-- }()

	c := &Compound{}
	for {
		kind, err := d.readKind()
		if err != nil {
			return nil, err
		}
		if kind == TagEnd {
			return c, nil
		}
		name, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("error decoding entry name: %w", err)
		}
		t, err := d.readPayload(kind)
		if err != nil {
			return nil, fmt.Errorf("error decoding entry %q: %w", DisplayString(string(name)), err)
		}
		// Duplicate names are appended as-is and survive a round trip.
		c.Append(string(name), t)
	}
}

// A Decoder decodes one document from an underlying reader.
type Decoder struct {
	r   io.Reader
	enc Encoding
}

// NewDecoder returns a decoder reading a document in the given byte order
// from r.
func NewDecoder(r io.Reader, enc Encoding) *Decoder {
	return &Decoder{r: r, enc: enc}
}

// Decode consumes the remaining input of the underlying reader and decodes
// one document from it. Bytes after the document are ignored.
func (d *Decoder) Decode() (Root, error) {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return Root{}, fmt.Errorf("error reading stream: %w", err)
	}
	root, _, err := Decode(data, d.enc)
	return root, err
}
