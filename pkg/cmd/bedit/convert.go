package bedit

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a level.dat between bedrock, java and java-gzip framing",
		ArgsUsage: "<in> [out]",
		Description: `Convert the file framing while keeping the tag tree intact. Without
an output path the input file is rewritten in place.

	bedit convert --to java level.dat level_java.dat
	bedit convert --to bedrock level_java.dat

Converting to bedrock writes a fresh envelope. A file that never had
one gets the current default storage version.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Aliases:  []string{"t"},
				Usage:    "target format: bedrock, java or java-gzip",
				Required: true,
			},
			forceFlag(),
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return cli.Exit(err, 1)
			}
			in := c.Args().First()
			if in == "" {
				return cli.Exit("missing input path argument", 1)
			}
			target, ok := leveldat.FormatByName(c.String("to"))
			if !ok {
				return cli.Exit(fmt.Sprintf(
					"unknown target format: %s (valid formats: bedrock, java, java-gzip)", c.String("to")), 1)
			}

			l, err := e.loader()
			if err != nil {
				return cli.Exit(err, 1)
			}
			f, err := l.LoadFile(in)
			if err != nil {
				return cli.Exit(err, 1)
			}
			if f.Recovered {
				if !c.Bool("force") {
					return cli.Exit("refusing to convert a tree recovered by the fallback scanner, re-run with --force to write it anyway", 1)
				}
				f.Recovered = false
			}

			out := c.Args().Get(1)
			if out == "" {
				out = in
			}
			from := f.Format
			f.Format = target
			if err = leveldat.WriteFile(f, out, e.cfg.Backup); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintf(c.App.Writer, "converted %s (%s) to %s (%s)\n", in, from, out, target)
			return nil
		},
	}
}
