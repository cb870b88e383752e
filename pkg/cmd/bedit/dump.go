package bedit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/AdamJauhari/Bedrock-Editor/internal/util/console"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt/nbtconv"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the whole tag tree of a level.dat",
		ArgsUsage: "<level.dat>",
		Description: `Print the tag tree in one of three styles:

  - tree (default): indented names and values, colored by tag kind
  - snbt: one stringified NBT document
  - json: JSON with kind-typed suffix strings, pretty-printed`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: tree, snbt or json",
				Value:   "tree",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			ed, _, err := e.open(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			root := ed.Root()

			switch c.String("format") {
			case "tree":
				writeTree(c.App.Writer, root.Compound, "")
			case "snbt":
				fmt.Fprintln(c.App.Writer, nbt.SNBT(root.Compound))
			case "json":
				j, err := nbtconv.CompoundToJSON(root.Compound)
				if err != nil {
					return cli.Exit(fmt.Errorf("error converting to json: %w", err), 1)
				}
				var buf bytes.Buffer
				if err = json.Indent(&buf, j, "", "  "); err != nil {
					return cli.Exit(fmt.Errorf("error formatting json: %w", err), 1)
				}
				fmt.Fprintln(c.App.Writer, buf.String())
			default:
				return cli.Exit(fmt.Sprintf(
					"unknown output format: %s (valid formats: tree, snbt, json)", c.String("format")), 1)
			}
			return nil
		},
	}
}

// arrayPreview is the element count above which arrays collapse to a
// size note in the tree view.
const arrayPreview = 16

func writeTree(w io.Writer, c *nbt.Compound, indent string) {
	c.Range(func(_ int, e nbt.Entry) bool {
		name := console.Name(nbt.DisplayString(e.Name))
		switch v := e.Tag.(type) {
		case *nbt.Compound:
			fmt.Fprintf(w, "%s%s %s\n", indent, name,
				console.Muted(fmt.Sprintf("(%d entries)", v.Len())))
			writeTree(w, v, indent+"  ")
		case *nbt.List:
			if v.ElementKind() == nbt.TagCompound || v.ElementKind() == nbt.TagList {
				fmt.Fprintf(w, "%s%s %s\n", indent, name,
					console.Muted(fmt.Sprintf("(%d elements)", v.Len())))
				v.Range(func(i int, t nbt.Tag) bool {
					label := console.Name("[" + strconv.Itoa(i) + "]")
					if cc, ok := t.(*nbt.Compound); ok {
						fmt.Fprintf(w, "%s  %s\n", indent, label)
						writeTree(w, cc, indent+"    ")
					} else {
						fmt.Fprintf(w, "%s  %s %s\n", indent, label,
							console.Value(nbt.TagList, renderValue(t)))
					}
					return true
				})
			} else {
				fmt.Fprintf(w, "%s%s: %s\n", indent, name,
					console.Value(nbt.TagList, renderValue(v)))
			}
		default:
			fmt.Fprintf(w, "%s%s: %s\n", indent, name,
				console.Value(e.Tag.Kind(), renderValue(e.Tag)))
		}
		return true
	})
}

// renderValue renders a tag for the tree view. Large arrays collapse to
// a size note, everything else is the SNBT literal.
func renderValue(t nbt.Tag) string {
	switch v := t.(type) {
	case nbt.String:
		return strconv.Quote(nbt.DisplayString(string(v)))
	case nbt.ByteArray:
		if len(v) > arrayPreview {
			return fmt.Sprintf("[B; %d bytes]", len(v))
		}
	case nbt.IntArray:
		if len(v) > arrayPreview {
			return fmt.Sprintf("[I; %d values]", len(v))
		}
	case nbt.LongArray:
		if len(v) > arrayPreview {
			return fmt.Sprintf("[L; %d values]", len(v))
		}
	}
	return nbt.SNBT(t)
}
