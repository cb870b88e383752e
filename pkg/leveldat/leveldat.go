// Package leveldat reads and writes Minecraft level.dat files in the
// formats both game editions produce: the Bedrock envelope around a
// little-endian body, plain big-endian Java streams and gzip-compressed
// Java streams. Compression and the envelope live here, outside the pure
// tag codec.
package leveldat

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// Format identifies the on-disk framing of a level.dat payload.
type Format byte

const (
	FormatUnknown Format = iota
	// FormatBedrock is an 8-byte envelope, storage version and body length
	// as little-endian 32-bit values, followed by a little-endian body.
	FormatBedrock
	// FormatJava is a bare big-endian body.
	FormatJava
	// FormatJavaCompressed is a gzip-wrapped big-endian body.
	FormatJavaCompressed
)

func (f Format) String() string {
	switch f {
	case FormatBedrock:
		return "bedrock"
	case FormatJava:
		return "java"
	case FormatJavaCompressed:
		return "java-gzip"
	}
	return "unknown"
}

// Encoding returns the byte order of the format's tag stream.
func (f Format) Encoding() nbt.Encoding {
	if f == FormatBedrock {
		return nbt.LittleEndian
	}
	return nbt.BigEndian
}

// FormatByName resolves the names printed by Format.String.
func FormatByName(name string) (Format, bool) {
	for _, f := range []Format{FormatBedrock, FormatJava, FormatJavaCompressed} {
		if f.String() == name {
			return f, true
		}
	}
	return FormatUnknown, false
}

// HeaderSize is the size of the Bedrock envelope.
const HeaderSize = 8

// DefaultVersion is the storage version written into fresh Bedrock
// envelopes when a file does not carry one.
const DefaultVersion int32 = 10

// maxStorageVersion bounds what Sniff accepts as a plausible Bedrock
// storage version. Real versions are small, anything large means the
// leading bytes are tag data instead.
const maxStorageVersion = 0x7FFF

// File is a decoded level.dat.
type File struct {
	Format Format
	// Version is the Bedrock envelope storage version. Zero on Java files.
	Version int32
	Root    nbt.Root
	// Recovered marks a tree rebuilt by the fallback scanner instead of a
	// structured decode. Recovered trees are approximations and refuse to
	// re-encode until the caller clears the flag on purpose.
	Recovered bool
}

// Sniff guesses the framing of data. The Bedrock check is strict, the
// envelope must declare exactly the remaining length and the body must
// open with a compound. An explicit format from the caller always beats
// sniffing.
func Sniff(data []byte) (Format, bool) {
	if len(data) >= 2 && data[0] == 0x1F && data[1] == 0x8B {
		return FormatJavaCompressed, true
	}
	if len(data) > HeaderSize {
		version := int32(binary.LittleEndian.Uint32(data[0:4]))
		length := binary.LittleEndian.Uint32(data[4:8])
		if version > 0 && version <= maxStorageVersion &&
			int(length) == len(data)-HeaderSize &&
			data[HeaderSize] == byte(nbt.TagCompound) {
			return FormatBedrock, true
		}
	}
	if len(data) > 0 && data[0] == byte(nbt.TagCompound) {
		return FormatJava, true
	}
	return FormatUnknown, false
}

// Decode parses data as the given format. FormatUnknown sniffs first.
func Decode(data []byte, format Format) (*File, error) {
	if format == FormatUnknown {
		var ok bool
		if format, ok = Sniff(data); !ok {
			return nil, fmt.Errorf("%w: unrecognized level.dat framing", nbt.ErrMalformedStream)
		}
	}
	switch format {
	case FormatBedrock:
		return decodeBedrock(data)
	case FormatJava:
		root, _, err := nbt.Decode(data, nbt.BigEndian)
		if err != nil {
			return nil, err
		}
		return &File{Format: FormatJava, Root: root}, nil
	case FormatJavaCompressed:
		body, err := gunzip(data)
		if err != nil {
			return nil, err
		}
		root, _, err := nbt.Decode(body, nbt.BigEndian)
		if err != nil {
			return nil, err
		}
		return &File{Format: FormatJavaCompressed, Root: root}, nil
	}
	return nil, fmt.Errorf("unknown format %d", format)
}

func decodeBedrock(data []byte) (*File, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a bedrock envelope",
			nbt.ErrMalformedStream, len(data))
	}
	version := int32(binary.LittleEndian.Uint32(data[0:4]))
	length := binary.LittleEndian.Uint32(data[4:8])
	if int64(length) > int64(len(data)-HeaderSize) {
		return nil, fmt.Errorf("%w: envelope declares %d body bytes, %d remain",
			nbt.ErrMalformedStream, length, len(data)-HeaderSize)
	}
	body := data[HeaderSize : HeaderSize+int(length)]
	root, _, err := nbt.Decode(body, nbt.LittleEndian)
	if err != nil {
		return nil, err
	}
	return &File{Format: FormatBedrock, Version: version, Root: root}, nil
}

// Encode serializes the file back to its on-disk form. Bedrock envelopes
// are rebuilt with the body length computed from the fresh serialization,
// so edits never leave a stale length behind. Compressed Java files get a
// new gzip wrapper around a byte-exact body.
func (f *File) Encode() ([]byte, error) {
	if f.Recovered {
		return nil, fmt.Errorf("%w: refusing to encode a tree recovered by the fallback scanner",
			nbt.ErrInvalidTag)
	}
	switch f.Format {
	case FormatBedrock:
		body, err := nbt.Encode(f.Root, nbt.LittleEndian)
		if err != nil {
			return nil, err
		}
		version := f.Version
		if version == 0 {
			version = DefaultVersion
		}
		out := make([]byte, 0, HeaderSize+len(body))
		out = binary.LittleEndian.AppendUint32(out, uint32(version))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
		return append(out, body...), nil
	case FormatJava:
		return nbt.Encode(f.Root, nbt.BigEndian)
	case FormatJavaCompressed:
		body, err := nbt.Encode(f.Root, nbt.BigEndian)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err = zw.Write(body); err != nil {
			return nil, fmt.Errorf("error compressing body: %w", err)
		}
		if err = zw.Close(); err != nil {
			return nil, fmt.Errorf("error compressing body: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown format %d", f.Format)
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error decompressing: %w", err)
	}
	defer func() { _ = zr.Close() }()
	body, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("error decompressing: %w", err)
	}
	return body, nil
}
