// Package config holds the editor configuration read from file and
// environment variables with Viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/util/configutil"
)

// DefaultConfig is a default Config.
var DefaultConfig = Config{
	Format: "auto",
	Backup: true,
	Colors: true,
	Recovery: Recovery{
		Enabled: true,
	},
}

// Config is the root configuration of the editor.
type Config struct {
	// Format pins the file framing instead of sniffing it.
	// One of auto, bedrock, java, java-gzip.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	// Backup keeps the previous file under a .backup sibling when saving.
	Backup bool `yaml:"backup,omitempty" json:"backup,omitempty"`
	// Colors toggles colored terminal output.
	Colors bool `yaml:"colors,omitempty" json:"colors,omitempty"`
	// Verbosity is the log verbosity level, higher is chattier.
	Verbosity int `yaml:"verbosity,omitempty" json:"verbosity,omitempty"`
	// Debug switches the logger to development output.
	Debug bool `yaml:"debug,omitempty" json:"debug,omitempty"`
	// See Recovery struct.
	Recovery Recovery `yaml:"recovery,omitempty" json:"recovery,omitempty"`
}

// Recovery configures the fallback field scanner used when a file fails
// structured decoding.
type Recovery struct {
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	// Table points at a yaml file describing the known fields to scan
	// for. Empty uses the built-in level.dat table.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`
}

// LoadConfig loads the configuration from v, layering defaults, the
// config file the caller pointed v at (if any) and BEDIT_* environment
// variables. A missing config file is not an error, defaults apply.
func LoadConfig(v *viper.Viper) (*Config, error) {
	SetDefaults(configutil.SetDefaultFunc(v.SetDefault))

	v.SetEnvPrefix("BEDIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return cfg, nil
}

// SetDefaults sets Config defaults to use with Viper.
func SetDefaults(i configutil.SetDefault) {
	i.SetDefault("format", DefaultConfig.Format)
	i.SetDefault("backup", DefaultConfig.Backup)
	i.SetDefault("colors", DefaultConfig.Colors)
	i.SetDefault("verbosity", DefaultConfig.Verbosity)
	i.SetDefault("debug", DefaultConfig.Debug)
	i.SetDefault("recovery.enabled", DefaultConfig.Recovery.Enabled)
}

// ParseFormat resolves the configured format name.
func (c *Config) ParseFormat() (leveldat.Format, error) {
	switch c.Format {
	case "", "auto":
		return leveldat.FormatUnknown, nil
	}
	f, ok := leveldat.FormatByName(c.Format)
	if !ok {
		return leveldat.FormatUnknown,
			fmt.Errorf("unknown format %q, must be one of auto,bedrock,java,java-gzip", c.Format)
	}
	return f, nil
}

// Validate validates the Config.
func (c *Config) Validate() (warns []error, errs []error) {
	e := func(m string, args ...any) { errs = append(errs, fmt.Errorf(m, args...)) }
	w := func(m string, args ...any) { warns = append(warns, fmt.Errorf(m, args...)) }
	if c == nil {
		e("config must not be nil")
		return
	}

	if _, err := c.ParseFormat(); err != nil {
		errs = append(errs, err)
	}
	if c.Verbosity < 0 {
		e("verbosity must be >= 0, got %d", c.Verbosity)
	}
	if !c.Backup {
		w("Backups are disabled, saving overwrites files in place!")
	}
	if c.Recovery.Table != "" {
		if !c.Recovery.Enabled {
			w("A recovery table is set but recovery is disabled.")
		}
		if _, err := os.Stat(c.Recovery.Table); err != nil {
			e("recovery table %q: %v", c.Recovery.Table, err)
		}
	}
	return
}
