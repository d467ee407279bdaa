// Package config loads the xlsjit.yaml configuration of the xlsjit CLI.
//
// Values in the file are defaults; command line flags override them.
//
//	backend: auto            # auto, native or closure
//	interpreter: false       # run native modules under the wazero interpreter
//	max_idle_instances: 0    # 0 means GOMAXPROCS
//	log:
//	  level: info            # zap level name
//	  format: auto           # auto, console or json
//	quickcheck:
//	  seed: 0
//	  num_tests: 1000
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/shaunstanislauslau/xls/errors"
	"github.com/shaunstanislauslau/xls/jit"
)

// FileNames are the names searched by Find, in order.
var FileNames = []string{"xlsjit.yaml", "xlsjit.yml"}

// Log formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// DefaultNumTests is the quickcheck budget when none is configured.
const DefaultNumTests = 1000

// Config represents the top-level xlsjit.yaml configuration.
type Config struct {
	// Backend selects the JIT backend: auto, native or closure.
	Backend string `yaml:"backend,omitempty"`

	// Interpreter runs native modules under the wazero interpreter.
	Interpreter bool `yaml:"interpreter,omitempty"`

	// MaxIdleInstances bounds pooled module instances per function.
	MaxIdleInstances int `yaml:"max_idle_instances,omitempty"`

	Log        LogConfig        `yaml:"log"`
	QuickCheck QuickCheckConfig `yaml:"quickcheck"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string `yaml:"level,omitempty"`

	// Format is auto, console or json. Auto picks console on a terminal.
	Format string `yaml:"format,omitempty"`
}

// QuickCheckConfig holds quickcheck defaults.
type QuickCheckConfig struct {
	Seed     int64 `yaml:"seed"`
	NumTests int64 `yaml:"num_tests,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data, path)
}

// Parse parses configuration content. The path is used only for error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindSyntax, err, "parse "+path)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Find searches for a configuration file starting at dir and walking up to
// the filesystem root. It returns "" when none exists.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "resolve directory")
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	invalid := func(field, format string, args ...any) error {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(path, field).
			Detail(format, args...).
			Build()
	}

	if _, err := jit.ParseBackend(c.Backend); err != nil {
		return invalid("backend", "unknown backend %q", c.Backend)
	}
	if c.MaxIdleInstances < 0 {
		return invalid("max_idle_instances", "must not be negative, got %d", c.MaxIdleInstances)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return invalid("log.level", "unknown level %q", c.Log.Level)
		}
	}
	switch c.Log.Format {
	case "", FormatAuto, FormatConsole, FormatJSON:
	default:
		return invalid("log.format", "unknown format %q", c.Log.Format)
	}
	if c.QuickCheck.NumTests < 0 {
		return invalid("quickcheck.num_tests", "must not be negative, got %d", c.QuickCheck.NumTests)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Backend == "" {
		c.Backend = string(jit.BackendAuto)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = FormatAuto
	}
	if c.QuickCheck.NumTests == 0 {
		c.QuickCheck.NumTests = DefaultNumTests
	}
}

// JIT returns the compile configuration described by c.
func (c *Config) JIT() *jit.Config {
	backend, _ := jit.ParseBackend(c.Backend)
	return &jit.Config{
		Backend:          backend,
		Interpreter:      c.Interpreter,
		MaxIdleInstances: c.MaxIdleInstances,
	}
}

// Level returns the configured log level.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// String renders c as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(out)
}
