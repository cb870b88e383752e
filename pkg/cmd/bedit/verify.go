package bedit

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"

	"github.com/AdamJauhari/Bedrock-Editor/internal/util/console"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt/nbtconv"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/util/errs"
)

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that files re-encode byte-exactly and cross-decode cleanly",
		ArgsUsage: "<level.dat> [more files...]",
		Description: `Run two independent checks over each file:

  - decode the tag tree and re-encode it, the bytes must match the
    original stream exactly (for gzip files, the decompressed stream)
  - decode the same bytes with a second NBT implementation and compare
    the trees structurally

Files that are not NBT streams at all are skipped, pass -v to see them.`,
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if c.Args().Len() == 0 {
				return cli.Exit("missing file arguments", 1)
			}

			var okCount, failed, skipped int
			for _, path := range c.Args().Slice() {
				res, err := e.verifyFile(path)
				if err != nil {
					var silent *errs.SilentError
					if errors.As(err, &silent) {
						skipped++
						e.log.V(1).Info("skipped file", "path", path, "reason", silent.Error())
						continue
					}
					failed++
					fmt.Fprintf(c.App.Writer, "%s: %s\n", path, console.Warn("FAILED: "+err.Error()))
					continue
				}
				okCount++
				fmt.Fprintf(c.App.Writer, "%s: ok (%s, %d entries%s)\n",
					path, res.format, res.entries, res.notes())
			}

			fmt.Fprintf(c.App.Writer, "verified %d files: %d ok, %d failed, %d skipped\n",
				okCount+failed+skipped, okCount, failed, skipped)
			if failed > 0 {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

type verifyResult struct {
	format  leveldat.Format
	entries int
	crossOK bool
}

func (r verifyResult) notes() string {
	if r.crossOK {
		return ", byte-exact, cross-decode ok"
	}
	return ", byte-exact, " + console.Warn("cross-decode mismatch")
}

// verifyFile checks one file. Non-NBT files come back as a SilentError
// so batch runs over whole directories stay quiet about them.
func (e *env) verifyFile(path string) (*verifyResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format, err := e.cfg.ParseFormat()
	if err != nil {
		return nil, err
	}
	if format == leveldat.FormatUnknown {
		var ok bool
		if format, ok = leveldat.Sniff(data); !ok {
			return nil, errs.NewSilentErr("not an NBT stream")
		}
	}

	f, err := leveldat.Decode(data, format)
	if err != nil {
		return nil, err
	}

	body, err := payloadBody(data, format)
	if err != nil {
		return nil, err
	}
	enc := format.Encoding()
	reencoded, err := nbt.Encode(f.Root, enc)
	if err != nil {
		return nil, fmt.Errorf("re-encode failed: %w", err)
	}
	if !bytes.Equal(reencoded, body) {
		return nil, fmt.Errorf("re-encoded stream differs from the original (%d vs %d bytes)",
			len(reencoded), len(body))
	}

	res := &verifyResult{format: format, entries: f.Root.Compound.Len()}
	theirs, err := nbtconv.DecodeMap(body, enc)
	if err != nil {
		e.log.V(1).Info("cross-decode failed", "path", path, "error", err.Error())
		return res, nil
	}
	ours := nbtconv.ToMap(f.Root.Compound)
	res.crossOK = reflect.DeepEqual(map[string]any(theirs), map[string]any(ours))
	if !res.crossOK {
		e.log.V(2).Info("cross-decode mismatch",
			"path", path, "ours", spew.Sdump(ours), "theirs", spew.Sdump(theirs))
	}
	return res, nil
}

// payloadBody strips the framing so the raw tag stream can be compared.
func payloadBody(data []byte, format leveldat.Format) ([]byte, error) {
	switch format {
	case leveldat.FormatBedrock:
		if len(data) < leveldat.HeaderSize {
			return nil, fmt.Errorf("%d bytes is too short for a bedrock envelope", len(data))
		}
		length := binary.LittleEndian.Uint32(data[4:8])
		if int64(length) > int64(len(data)-leveldat.HeaderSize) {
			return nil, fmt.Errorf("envelope declares %d body bytes, %d remain",
				length, len(data)-leveldat.HeaderSize)
		}
		return data[leveldat.HeaderSize : leveldat.HeaderSize+int(length)], nil
	case leveldat.FormatJavaCompressed:
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
	return data, nil
}
