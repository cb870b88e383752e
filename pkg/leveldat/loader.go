package leveldat

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt/scan"
)

// Loader reads level.dat payloads with optional degraded-mode recovery.
// The zero value sniffs the format, never falls back and logs nothing.
type Loader struct {
	// Format forces a framing instead of sniffing.
	Format Format
	// ScanTable enables the fallback scanner for streams the structured
	// decoder rejects. Nil disables recovery.
	ScanTable scan.Table
	// Log receives decode diagnostics.
	Log logr.Logger
}

// Load decodes data, degrading to a table scan when allowed. A recovered
// file carries Recovered=true and must never be mistaken for a trusted
// decode.
func (l Loader) Load(data []byte) (*File, error) {
	format := l.Format
	if format == FormatUnknown {
		format, _ = Sniff(data)
	}

	if format != FormatUnknown {
		f, err := Decode(data, format)
		if err == nil {
			l.Log.V(1).Info("decoded level.dat",
				"format", f.Format.String(), "entries", f.Root.Compound.Len())
			return f, nil
		}
		if l.ScanTable == nil {
			return nil, err
		}
		return l.recover(data, format, err)
	}

	if l.ScanTable == nil {
		return nil, fmt.Errorf("%w: unrecognized level.dat framing", nbt.ErrMalformedStream)
	}
	return l.recover(data, FormatUnknown, fmt.Errorf(
		"%w: unrecognized level.dat framing", nbt.ErrMalformedStream))
}

// recover runs the linear scanner over the raw bytes. The envelope is left
// in place, name matching does not mind the 8 leading bytes.
func (l Loader) recover(data []byte, format Format, cause error) (*File, error) {
	l.Log.Info("structured decode failed, falling back to linear field scan",
		"format", format.String(), "error", cause.Error())

	enc := nbt.LittleEndian
	if format == FormatJava || format == FormatJavaCompressed {
		enc = nbt.BigEndian
	}
	res, err := scan.Scan(data, enc, l.ScanTable)
	if err != nil {
		return nil, fmt.Errorf("fallback scan failed: %w", err)
	}
	if res.Fields() == 0 {
		return nil, fmt.Errorf("fallback scan recovered no fields: %w", cause)
	}
	l.Log.Info("recovered fields by linear scan", "fields", res.Fields())

	f := &File{Format: format, Root: res.Root, Recovered: true}
	if format == FormatBedrock && len(data) >= HeaderSize {
		f.Version = int32(binary.LittleEndian.Uint32(data[0:4]))
	}
	return f, nil
}

// LoadFile reads and decodes one file.
func (l Loader) LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	f, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return f, nil
}
