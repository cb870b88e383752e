package bedit

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/configs"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Output default configuration file",
		Description: `Output the default configuration file to stdout or a file.
You can redirect to a file or use the --write flag:

	bedit config > config.yml
	bedit config --write              # Writes to config.yml

Available config types:
  - full (default): Full configuration with all options
  - table: Example field table for the recovery scanner`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Config type: full or table",
				Value:   "full",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Write config to a file instead of stdout",
			},
		},
		Action: func(c *cli.Context) error {
			var (
				configBytes []byte
				outputFile  string
			)
			switch configType := c.String("type"); configType {
			case "full":
				configBytes = configs.DefaultConfigBytes
				outputFile = "config.yml"
			case "table":
				configBytes = configs.FieldTableBytes
				outputFile = "fields.yml"
			default:
				return cli.Exit(fmt.Sprintf("unknown config type: %s (valid types: full, table)", configType), 1)
			}

			if c.Bool("write") {
				err := os.WriteFile(outputFile, configBytes, 0644)
				if err != nil {
					return cli.Exit(fmt.Errorf("error writing config to %q: %w", outputFile, err), 1)
				}
				fmt.Printf("Configuration written to %s\n", outputFile)
				return nil
			}

			_, err := os.Stdout.Write(configBytes)
			if err != nil {
				return cli.Exit(fmt.Errorf("error writing config: %w", err), 1)
			}

			return nil
		},
	}
}
