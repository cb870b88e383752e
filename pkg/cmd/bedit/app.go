// Package bedit implements the bedit command line interface for
// inspecting, editing and converting Minecraft level.dat files.
package bedit

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/gookit/color"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AdamJauhari/Bedrock-Editor/internal/util/console"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/editor"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/editor/config"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt/scan"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/util/errs"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/version"
)

func init() {
	// -v belongs to verbosity, so the version flag moves to -V following
	// the usual Unix convention.
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// App returns the bedit command line app.
func App() *cli.App {
	return &cli.App{
		Name:    "bedit",
		Usage:   "Inspect and edit Minecraft level.dat files",
		Version: version.String(),
		Description: `bedit reads Bedrock and Java edition level.dat files, shows and edits
their contents and writes them back byte-exactly.

Values on the command line use the SNBT literal syntax, so the tag kind
travels with the value: 1b is a byte, 20s a short, 3 an int, 4L a long,
0.5f a float, 0.5 a double, [I;1,2] an int array. Paths address nested
tags with dots and list indices: abilities.mayfly, lastOpenedWithVersion[0].`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path",
				EnvVars: []string{"BEDIT_CONFIG"},
			},
			&cli.IntFlag{
				Name:    "verbosity",
				Aliases: []string{"v"},
				Usage:   "log verbosity, higher is chattier",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			dumpCommand(),
			getCommand(),
			setCommand(),
			addCommand(),
			removeCommand(),
			convertCommand(),
			verifyCommand(),
			infoCommand(),
			configCommand(),
		},
	}
}

// Execute runs the app. This is called by main.main().
func Execute() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env carries everything a command action needs after setup.
type env struct {
	cfg *config.Config
	log logr.Logger
}

// setup loads the configuration and builds the logger. An explicitly
// given --config path must exist, the default config.yml may be absent.
func setup(c *cli.Context) (*env, error) {
	v := viper.New()
	if configFile := c.String("config"); configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errs.ErrMissingConfig, configFile, err)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigFile("config.yml")
	}

	cfg, err := config.LoadConfig(v)
	if err != nil {
		return nil, err
	}
	if c.IsSet("verbosity") {
		cfg.Verbosity = c.Int("verbosity")
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}

	log, err := newLogger(cfg.Debug, cfg.Verbosity)
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}

	warns, errList := cfg.Validate()
	if len(errList) != 0 {
		for _, err = range errList {
			log.Info("config error", "error", err.Error())
		}
		a, s := "are", "s"
		if len(errList) == 1 {
			a, s = "is", ""
		}
		return nil, fmt.Errorf("there %s %d config validation error%s", a, len(errList), s)
	}
	for _, warn := range warns {
		log.Info(warn.Error())
	}

	if !cfg.Colors {
		color.Disable()
	}
	return &env{cfg: cfg, log: log}, nil
}

// newLogger builds a console logger bridged to logr. Verbosity lowers
// the zap level so logr V(n) messages down to n=verbosity pass through.
func newLogger(debug bool, verbosity int) (logr.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbosity > 0 {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	}
	l, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(l), nil
}

// loader builds the file loader from the configuration.
func (e *env) loader() (leveldat.Loader, error) {
	format, err := e.cfg.ParseFormat()
	if err != nil {
		return leveldat.Loader{}, err
	}
	l := leveldat.Loader{Format: format, Log: e.log}
	if e.cfg.Recovery.Enabled {
		if e.cfg.Recovery.Table != "" {
			t, err := scan.LoadTable(e.cfg.Recovery.Table)
			if err != nil {
				return leveldat.Loader{}, err
			}
			l.ScanTable = t
		} else {
			l.ScanTable = scan.DefaultLevelDat()
		}
	}
	return l, nil
}

// open loads the level.dat named by the first argument into an editor.
func (e *env) open(c *cli.Context) (*editor.Editor, string, error) {
	path := c.Args().First()
	if path == "" {
		return nil, "", cli.Exit("missing level.dat path argument", 1)
	}
	l, err := e.loader()
	if err != nil {
		return nil, "", err
	}
	f, err := l.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	if f.Recovered {
		fmt.Fprintln(c.App.ErrWriter, console.Warn(
			"warning: structured decode failed, fields below were recovered by a linear scan and are approximations"))
	}
	ed, err := editor.New(f)
	if err != nil {
		return nil, "", err
	}
	ed.Log = e.log
	return ed, path, nil
}
