package commands

import (
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory if present.
const DefaultConfigFile = ".svparse.yaml"

// DefaultEnvFile is loaded before SVPARSE_* variables are examined.
const DefaultEnvFile = ".env"

const envPrefix = "SVPARSE_"

var (
	formats    = []string{"tree", "sexpr", "json", "none"}
	colorModes = []string{"auto", "always", "never"}
)

// Config holds parse settings. Sources are applied in order: defaults, config file,
// environment (process variables take priority over the env file), command line flags.
type Config struct {
	Tolerant bool   `yaml:"tolerant"`
	Jobs     int    `yaml:"jobs"`
	Format   string `yaml:"format"`
	Start    string `yaml:"start"`
	Color    string `yaml:"color"`
	Width    int    `yaml:"width"`
}

func DefaultConfig() Config {
	return Config{
		Jobs:   runtime.NumCPU(),
		Format: "tree",
		Color:  "auto",
		Width:  78,
	}
}

// LoadConfig reads YAML config file over the defaults.
// A missing file is not an error unless required is set.
func LoadConfig(name string, required bool) (Config, error) {
	cfg := DefaultConfig()
	content, e := os.ReadFile(name)
	if e != nil {
		if os.IsNotExist(e) && !required {
			return cfg, nil
		}
		return cfg, errors.Wrap(e, "reading config")
	}

	if e = yaml.Unmarshal(content, &cfg); e != nil {
		return cfg, errors.Wrapf(e, "parsing config %s", name)
	}
	return cfg, nil
}

// EnvLookup returns a variable lookup function consulting the process environment first
// and then variables read from the env file. A missing env file is ignored.
func EnvLookup(envFile string) (func(string) (string, bool), error) {
	vars := map[string]string{}
	if envFile != "" {
		m, e := godotenv.Read(envFile)
		switch {
		case e == nil:
			vars = m
		case !os.IsNotExist(e):
			return nil, errors.Wrapf(e, "reading env file %s", envFile)
		}
	}

	return func(key string) (string, bool) {
		if v, has := os.LookupEnv(key); has {
			return v, true
		}
		v, has := vars[key]
		return v, has
	}, nil
}

// ApplyEnv overrides settings with SVPARSE_TOLERANT, SVPARSE_JOBS, SVPARSE_FORMAT,
// SVPARSE_START, SVPARSE_COLOR and SVPARSE_WIDTH variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, has := lookup(envPrefix + name)
		return strings.TrimSpace(v), has && strings.TrimSpace(v) != ""
	}

	if v, has := get("TOLERANT"); has {
		b, e := strconv.ParseBool(v)
		if e != nil {
			return errors.Wrap(e, envPrefix+"TOLERANT")
		}
		c.Tolerant = b
	}
	for name, dst := range map[string]*int{"JOBS": &c.Jobs, "WIDTH": &c.Width} {
		if v, has := get(name); has {
			n, e := strconv.Atoi(v)
			if e != nil {
				return errors.Wrap(e, envPrefix+name)
			}
			*dst = n
		}
	}
	for name, dst := range map[string]*string{"FORMAT": &c.Format, "START": &c.Start, "COLOR": &c.Color} {
		if v, has := get(name); has {
			*dst = v
		}
	}
	return nil
}

// Validate checks setting values.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return errors.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	if c.Width < 20 {
		return errors.Errorf("width must be at least 20, got %d", c.Width)
	}
	if !slices.Contains(formats, c.Format) {
		return errors.Errorf("unknown format %q, expecting one of %s", c.Format, strings.Join(formats, ", "))
	}
	if !slices.Contains(colorModes, c.Color) {
		return errors.Errorf("unknown color mode %q, expecting one of %s", c.Color, strings.Join(colorModes, ", "))
	}
	return nil
}
