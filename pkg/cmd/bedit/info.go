package bedit

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/AdamJauhari/Bedrock-Editor/internal/util/console"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show the framing and tag statistics of a level.dat",
		ArgsUsage: "<level.dat>",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			path := c.Args().First()
			if path == "" {
				return cli.Exit("missing level.dat path argument", 1)
			}
			fi, err := os.Stat(path)
			if err != nil {
				return cli.Exit(err, 1)
			}
			l, err := e.loader()
			if err != nil {
				return cli.Exit(err, 1)
			}
			f, err := l.LoadFile(path)
			if err != nil {
				return cli.Exit(err, 1)
			}

			w := c.App.Writer
			fmt.Fprintf(w, "%s %s (%d bytes)\n", console.Muted("file:"), path, fi.Size())
			fmt.Fprintf(w, "%s %s\n", console.Muted("format:"), f.Format)
			if f.Format == leveldat.FormatBedrock {
				fmt.Fprintf(w, "%s %d\n", console.Muted("version:"), f.Version)
			}
			rootName := strconv.Quote(nbt.DisplayString(f.Root.Name))
			if f.Root.Name == "" {
				rootName = "(unnamed)"
			}
			fmt.Fprintf(w, "%s %s\n", console.Muted("root:"), rootName)

			var counts [nbt.TagLongArray + 1]int
			countKinds(f.Root.Compound, &counts)
			total := 0
			var kinds []string
			for k, n := range counts {
				if n == 0 || nbt.Kind(k) == nbt.TagEnd {
					continue
				}
				total += n
				kinds = append(kinds, fmt.Sprintf("%s %d", nbt.Kind(k), n))
			}
			fmt.Fprintf(w, "%s %d top-level, %d total\n",
				console.Muted("tags:"), f.Root.Compound.Len(), total)
			fmt.Fprintf(w, "%s %s\n", console.Muted("kinds:"), strings.Join(kinds, ", "))
			if f.Recovered {
				fmt.Fprintln(w, console.Warn(
					"tree was recovered by the fallback scanner, values are approximations"))
			}
			return nil
		},
	}
}

func countKinds(t nbt.Tag, counts *[nbt.TagLongArray + 1]int) {
	counts[t.Kind()]++
	switch v := t.(type) {
	case *nbt.Compound:
		v.Range(func(_ int, e nbt.Entry) bool {
			countKinds(e.Tag, counts)
			return true
		})
	case *nbt.List:
		v.Range(func(_ int, item nbt.Tag) bool {
			countKinds(item, counts)
			return true
		})
	}
}
