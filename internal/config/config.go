package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/autoply/autoply/internal/logging"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// EnvPrefix prefixes environment overrides, e.g. AUTOPLY_LOG_LEVEL.
const EnvPrefix = "AUTOPLY"

// Sites lists the job boards a search may target.
var Sites = []string{"indeed", "glassdoor", "ycombinator"}

// Config represents the autoply configuration
type Config struct {
	Version int    `toml:"version" mapstructure:"version"`
	Log     Log    `toml:"log" mapstructure:"log"`
	Search  Search `toml:"search" mapstructure:"search"`
}

// Log configures the sink installed by `run --verbose`.
type Log struct {
	// Level is empty to mean debug whenever the sink is enabled.
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
	Color  bool   `toml:"color" mapstructure:"color"`
}

// Search holds the parameters handed to the automation engine.
type Search struct {
	Job      string   `toml:"job" mapstructure:"job"`
	Location string   `toml:"location" mapstructure:"location"`
	Sites    []string `toml:"sites" mapstructure:"sites"`
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Version: 1,
		Log: Log{
			Format: string(logging.FormatConsole),
			Color:  true,
		},
		Search: Search{
			Job:      "Entry Level Software Engineer",
			Location: "San Diego, CA",
			Sites:    []string{"indeed"},
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("version", d.Version)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.color", d.Log.Color)
	v.SetDefault("search.job", d.Search.Job)
	v.SetDefault("search.location", d.Search.Location)
	v.SetDefault("search.sites", d.Search.Sites)
}

// Load resolves the configuration from defaults, the TOML file at path (if
// it exists) and AUTOPLY_* environment variables, in increasing precedence.
// An empty path means Path(). Load never creates the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		path = Path()
	}
	switch _, err := os.Stat(path); {
	case err == nil:
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("stat config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if c.Log.Level != "" {
		if _, err := logging.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
		}
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %v", ErrInvalid, err)
	}
	if strings.TrimSpace(c.Search.Job) == "" {
		return fmt.Errorf("%w: search.job must not be empty", ErrInvalid)
	}
	if strings.TrimSpace(c.Search.Location) == "" {
		return fmt.Errorf("%w: search.location must not be empty", ErrInvalid)
	}
	for _, site := range c.Search.Sites {
		if !slices.Contains(Sites, site) {
			return fmt.Errorf("%w: search.sites: unknown site %q (want one of %s)",
				ErrInvalid, site, strings.Join(Sites, ", "))
		}
	}
	return nil
}

// Save writes config to path, or Path() when empty.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = ""
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// writeAtomic writes content to a unique temp file next to path and renames
// it over path.
func writeAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// Path returns the default config file location, ~/.autoply/cfg.toml.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".autoply", "cfg.toml")
}
