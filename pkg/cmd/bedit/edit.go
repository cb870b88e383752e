package bedit

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/AdamJauhari/Bedrock-Editor/internal/util/console"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/editor"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt/nbtconv"
)

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print one tag addressed by path",
		ArgsUsage: "<level.dat> <path>",
		Description: `Print the SNBT literal of the tag at the given path, for example:

	bedit get level.dat LevelName
	bedit get level.dat abilities.mayfly
	bedit get level.dat lastOpenedWithVersion[0]`,
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			ed, _, err := e.open(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			path := c.Args().Get(1)
			if path == "" {
				return cli.Exit("missing path argument", 1)
			}
			t, err := ed.Get(path)
			if err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintf(c.App.Writer, "%s %s\n",
				console.Value(t.Kind(), nbt.SNBT(t)),
				console.Muted("("+t.Kind().String()+")"))
			return nil
		},
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Change the value of an existing tag",
		ArgsUsage: "<level.dat> <path> <value>",
		Description: `Change a tag's value without changing its kind. The value is parsed
for the tag's existing kind, so plain forms work: a byte field takes
true, false, 0 or 1, an int field takes 42, a string field takes the
raw text. A value of another kind is an error.

	bedit set level.dat LevelName "My World"
	bedit set level.dat abilities.mayfly true
	bedit set level.dat GameType 1`,
		Flags: []cli.Flag{forceFlag()},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			ed, path, err := e.open(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			tagPath, value := c.Args().Get(1), c.Args().Get(2)
			if tagPath == "" || c.Args().Len() < 3 {
				return cli.Exit("usage: bedit set <level.dat> <path> <value>", 1)
			}
			if err = ed.SetString(tagPath, value); err != nil {
				return cli.Exit(err, 1)
			}
			return saveEdits(c, e, ed, path)
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a new compound entry or list element",
		ArgsUsage: "<level.dat> <path> <value>",
		Description: `Add a tag at a path that does not exist yet. The value is an SNBT
literal carrying its own kind:

	bedit add level.dat cheatsEnabled 1b
	bedit add level.dat customSeed 12345L
	bedit add level.dat lastOpenedWithVersion[3] 99
	bedit add level.dat myData {note:hello,count:3}`,
		Flags: []cli.Flag{forceFlag()},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			ed, path, err := e.open(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			tagPath, value := c.Args().Get(1), c.Args().Get(2)
			if tagPath == "" || c.Args().Len() < 3 {
				return cli.Exit("usage: bedit add <level.dat> <path> <value>", 1)
			}
			t, err := nbtconv.ParseValue(value)
			if err != nil {
				return cli.Exit(fmt.Errorf("error parsing value %q: %w", value, err), 1)
			}
			if err = ed.Add(tagPath, t); err != nil {
				return cli.Exit(err, 1)
			}
			return saveEdits(c, e, ed, path)
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a tag",
		ArgsUsage: "<level.dat> <path>",
		Flags:     []cli.Flag{forceFlag()},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			ed, path, err := e.open(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			tagPath := c.Args().Get(1)
			if tagPath == "" {
				return cli.Exit("missing path argument", 1)
			}
			if err = ed.Remove(tagPath); err != nil {
				return cli.Exit(err, 1)
			}
			return saveEdits(c, e, ed, path)
		},
	}
}

func forceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "force",
		Usage: "save even when the tree was recovered by the fallback scanner",
	}
}

// saveEdits prints the pending changes and writes the file back.
func saveEdits(c *cli.Context, e *env, ed *editor.Editor, path string) error {
	if !ed.Modified() {
		fmt.Fprintln(c.App.Writer, "no changes")
		return nil
	}
	for _, ch := range ed.Changes() {
		printChange(c.App.Writer, ch)
	}
	if ed.Recovered() {
		if !c.Bool("force") {
			return cli.Exit(fmt.Errorf("%v, re-run with --force to write it anyway", editor.ErrRecovered), 1)
		}
		ed.MarkTrusted()
	}
	if err := ed.Save(path, e.cfg.Backup); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "saved %s\n", path)
	return nil
}

func printChange(w io.Writer, ch editor.Change) {
	switch {
	case ch.From == nil:
		fmt.Fprintf(w, "%s: added %s\n", console.Name(ch.Path),
			console.Value(ch.To.Kind(), nbt.SNBT(ch.To)))
	case ch.To == nil:
		fmt.Fprintf(w, "%s: removed %s\n", console.Name(ch.Path),
			console.Muted(nbt.SNBT(ch.From)))
	default:
		fmt.Fprintf(w, "%s: %s -> %s\n", console.Name(ch.Path),
			console.Muted(nbt.SNBT(ch.From)),
			console.Value(ch.To.Kind(), nbt.SNBT(ch.To)))
	}
}
