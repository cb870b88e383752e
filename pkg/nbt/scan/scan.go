package scan

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// Value extraction tolerates a little slack between a name match and its
// payload. The windows mirror the recovery behavior proven on real
// corrupted worlds.
var (
	valueOffsets = []int{0, 1, 2, 3, 4}
	longOffsets  = []int{0, 1, 2, 3, 4, 8, 12}
	byteOffsets  = []int{0, 1, 2, 3}
	listOffsets  = []int{0, 1}
)

const (
	// maxStringLen bounds a plausible recovered string payload.
	maxStringLen = 10000
	// compoundWindow bounds how far past a compound field name its
	// sub-fields are searched.
	compoundWindow = 500
	// maxVersionList bounds a plausible version array length.
	maxVersionList = 10
)

// Result is a recovered approximation of a stream's fields. It is a
// distinct type from a structured decode on purpose: values were found by
// name matching and plausibility checks, not by walking valid NBT, and
// carry lower confidence.
type Result struct {
	// Root holds the recovered fields in stream order under an unnamed
	// root compound.
	Root nbt.Root
	// Offsets records the byte position each field name was found at.
	Offsets map[string]int
}

// Fields returns the number of recovered top-level fields.
func (r *Result) Fields() int {
	if r == nil {
		return 0
	}
	return r.Root.Compound.Len()
}

// Scan sweeps data for the table's field names and extracts a plausible
// value after each match. It never fails on unrecognized bytes, absent
// fields are simply missing from the result. The byte order applies to all
// multi-byte values.
func Scan(data []byte, enc nbt.Encoding, table Table) (*Result, error) {
	if len(table) == 0 {
		return nil, errors.New("scan: empty table")
	}
	ord := byteOrder(enc)

	type hit struct {
		name string
		off  int
		tag  nbt.Tag
	}
	var hits []hit
	for name, field := range table {
		pos := bytes.Index(data, []byte(name))
		if pos <= 0 {
			continue
		}
		vpos := pos + len(name)
		var (
			tag nbt.Tag
			ok  bool
		)
		if field.Kind == nbt.TagCompound {
			tag, ok = scanCompound(data, vpos, ord, field.Fields)
		} else {
			tag, ok = extractValue(data, vpos, ord, field.Kind)
		}
		if ok {
			hits = append(hits, hit{name: name, off: pos, tag: tag})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].off < hits[j].off })

	c := nbt.NewCompound()
	offsets := make(map[string]int, len(hits))
	for _, h := range hits {
		c.Append(h.name, h.tag)
		offsets[h.name] = h.off
	}
	return &Result{Root: nbt.Root{Compound: c}, Offsets: offsets}, nil
}

func byteOrder(enc nbt.Encoding) binary.ByteOrder {
	if enc == nbt.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// extractValue tries to read a plausible scalar of the given kind at small
// offsets after a name match.
func extractValue(data []byte, pos int, ord binary.ByteOrder, kind nbt.Kind) (nbt.Tag, bool) {
	switch kind {
	case nbt.TagString:
		for _, off := range valueOffsets {
			p := pos + off
			if p+2 > len(data) {
				continue
			}
			n := int(ord.Uint16(data[p:]))
			if n < 1 || n > maxStringLen || p+2+n > len(data) {
				continue
			}
			s := string(data[p+2 : p+2+n])
			if strings.TrimSpace(nbt.DisplayString(s)) == "" {
				continue
			}
			return nbt.String(s), true
		}
	case nbt.TagByte:
		for _, off := range valueOffsets {
			p := pos + off
			if p >= len(data) {
				continue
			}
			if b := data[p]; b == 0 || b == 1 {
				return nbt.Byte(b), true
			}
		}
	case nbt.TagShort:
		for _, off := range valueOffsets {
			p := pos + off
			if p+2 > len(data) {
				continue
			}
			return nbt.Short(ord.Uint16(data[p:])), true
		}
	case nbt.TagInt:
		for _, off := range valueOffsets {
			p := pos + off
			if p+4 > len(data) {
				continue
			}
			return nbt.Int(ord.Uint32(data[p:])), true
		}
	case nbt.TagLong:
		for _, off := range longOffsets {
			p := pos + off
			if p+8 > len(data) {
				continue
			}
			return nbt.Long(ord.Uint64(data[p:])), true
		}
	case nbt.TagFloat:
		for _, off := range valueOffsets {
			p := pos + off
			if p+4 > len(data) {
				continue
			}
			f := math.Float32frombits(ord.Uint32(data[p:]))
			if f != f {
				continue
			}
			return nbt.Float(f), true
		}
	case nbt.TagDouble:
		for _, off := range valueOffsets {
			p := pos + off
			if p+8 > len(data) {
				continue
			}
			d := math.Float64frombits(ord.Uint64(data[p:]))
			if d != d {
				continue
			}
			return nbt.Double(d), true
		}
	}
	return nil, false
}

// scanCompound recovers a compound-shaped field: either an int list, the
// form version arrays take, or the field's sub-table searched within a
// bounded window.
func scanCompound(data []byte, pos int, ord binary.ByteOrder, sub Table) (nbt.Tag, bool) {
	if l, ok := scanIntList(data, pos, ord); ok {
		return l, true
	}
	if len(sub) == 0 {
		return nil, false
	}

	end := min(pos+compoundWindow, len(data))
	window := data[:end]

	type hit struct {
		name string
		off  int
		tag  nbt.Tag
	}
	var hits []hit
	for name, field := range sub {
		fpos := indexFrom(window, []byte(name), pos)
		if fpos <= 0 {
			continue
		}
		vpos := fpos + len(name)
		var (
			tag nbt.Tag
			ok  bool
		)
		switch field.Kind {
		case nbt.TagByte:
			for _, off := range byteOffsets {
				p := vpos + off
				if p >= len(data) {
					continue
				}
				if b := data[p]; b == 0 || b == 1 {
					tag, ok = nbt.Byte(b), true
					break
				}
			}
		default:
			tag, ok = extractValue(data, vpos, ord, field.Kind)
		}
		if ok {
			hits = append(hits, hit{name: name, off: fpos, tag: tag})
		}
	}
	if len(hits) == 0 {
		return nil, false
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].off < hits[j].off })
	c := nbt.NewCompound()
	for _, h := range hits {
		c.Append(h.name, h.tag)
	}
	return c, true
}

// scanIntList reads a count-prefixed run of 32-bit integers if the bytes
// after a name plausibly hold one. Offset 1 covers a real list payload
// where an element kind byte precedes the count.
func scanIntList(data []byte, pos int, ord binary.ByteOrder) (*nbt.List, bool) {
	for _, off := range listOffsets {
		p := pos + off
		if p+4 > len(data) {
			continue
		}
		n := int(int32(ord.Uint32(data[p:])))
		if n < 1 || n > maxVersionList {
			continue
		}
		p += 4
		if p+4*n > len(data) {
			continue
		}
		l := nbt.NewList(nbt.TagInt)
		for i := 0; i < n; i++ {
			l.Append(nbt.Int(ord.Uint32(data[p:])))
			p += 4
		}
		return l, true
	}
	return nil, false
}

func indexFrom(data, sep []byte, from int) int {
	if from >= len(data) {
		return -1
	}
	i := bytes.Index(data[from:], sep)
	if i < 0 {
		return -1
	}
	return from + i
}
