package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/juju/errors"
)

// Environment variables consulted for defaults
const (
	EnvConfig = "DDLSCHEMA_CONFIG"
	EnvDBURL  = "DDLSCHEMA_DB_URL"
	EnvFormat = "DDLSCHEMA_FORMAT"
	EnvStrict = "DDLSCHEMA_STRICT"
)

// Config holds the settings a ddlschema.toml file may provide. Command-line
// flags override every value here.
type Config struct {
	Strict         bool           `toml:"strict"`
	Format         string         `toml:"format"`
	Output         string         `toml:"output"`
	OutputDir      string         `toml:"output_dir"`
	SplitThreshold int            `toml:"split_threshold"`
	Tables         []string       `toml:"tables"`
	ExcludeTables  []string       `toml:"exclude_tables"`
	Debug          bool           `toml:"debug"`
	Database       DatabaseConfig `toml:"database"`

	FileName string `toml:"-"`
}

// DatabaseConfig selects a live database as the script source
type DatabaseConfig struct {
	URL    string `toml:"url"`
	Schema string `toml:"schema"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Format: "text",
	}
}

// Load reads the TOML file at path on top of the defaults. An empty path
// falls back to $DDLSCHEMA_CONFIG; when that is empty too, only the defaults
// and environment apply. Environment variables win over the file.
func Load(path string) (*Config, error) {
	c := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
		c.FileName = absPath
		if err := c.readFile(); err != nil {
			return nil, err
		}
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) readFile() error {
	md, err := toml.DecodeFile(c.FileName, c)
	if err != nil {
		return errors.Annotatef(err, "read config %s", c.FileName)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("unknown key %q in config %s", undecoded[0].String(), c.FileName)
	}
	return nil
}

// applyEnv overrides file and default values with any environment variable
// that is set
func (c *Config) applyEnv() {
	c.Database.URL = GetEnvWithDefault(EnvDBURL, c.Database.URL)
	c.Format = GetEnvWithDefault(EnvFormat, c.Format)
	if v, err := strconv.ParseBool(os.Getenv(EnvStrict)); err == nil {
		c.Strict = v
	}
}

// Validate checks option values that do not depend on the command line
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "markdown", "json":
	default:
		return errors.NotValidf("format %q (must be 'text', 'markdown' or 'json')", c.Format)
	}
	if c.SplitThreshold < 0 {
		return errors.NotValidf("split_threshold %d", c.SplitThreshold)
	}
	return nil
}

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}
