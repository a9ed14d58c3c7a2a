package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration. Values come from an optional YAML
// file and are then overridden by environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Template  TemplateConfig  `yaml:"template"`
	Compiler  CompilerConfig  `yaml:"compiler"`
	Remote    RemoteConfig    `yaml:"remote"`
	Sanitizer SanitizerConfig `yaml:"sanitizer"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type TemplateConfig struct {
	// Path to a template file; empty selects the built-in resume template.
	Path string `yaml:"path"`
}

type CompilerConfig struct {
	Binary       string        `yaml:"binary"`
	WorkDir      string        `yaml:"work_dir"`
	Passes       int           `yaml:"passes"`
	Timeout      time.Duration `yaml:"timeout"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	Disabled     bool          `yaml:"disabled"`
}

type RemoteConfig struct {
	URL      string        `yaml:"url"`
	Method   string        `yaml:"method"`
	Timeout  time.Duration `yaml:"timeout"`
	Attempts int           `yaml:"attempts"`
	Backoff  time.Duration `yaml:"backoff"`
	Disabled bool          `yaml:"disabled"`
}

type SanitizerConfig struct {
	MarkupMarkers []string `yaml:"markup_markers"`
	BulletKeys    []string `yaml:"bullet_keys"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "3000"},
		Compiler: CompilerConfig{
			Binary:       "pdflatex",
			Passes:       1,
			Timeout:      30 * time.Second,
			ProbeTimeout: 5 * time.Second,
		},
		Remote: RemoteConfig{
			URL:      "https://latexonline.cc/compile",
			Method:   "get",
			Timeout:  60 * time.Second,
			Attempts: 2,
			Backoff:  time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path (if non-empty) over the defaults and applies environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	set(&c.Server.Port, "PORT")
	set(&c.Database.URL, "DATABASE_URL", "JOBS_DATABASE_URL")
	set(&c.Template.Path, "TEMPLATE_PATH")
	set(&c.Compiler.Binary, "PDFLATEX_PATH")
	set(&c.Remote.URL, "LATEX_REMOTE_URL")
	set(&c.Log.Level, "LOG_LEVEL")
}

// Validate rejects values the compilers cannot work with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Remote.Method) {
	case "get", "post":
	default:
		return fmt.Errorf("remote.method must be get or post, got %q", c.Remote.Method)
	}
	if c.Compiler.Passes < 1 {
		return fmt.Errorf("compiler.passes must be at least 1, got %d", c.Compiler.Passes)
	}
	if c.Remote.Attempts < 1 {
		return fmt.Errorf("remote.attempts must be at least 1, got %d", c.Remote.Attempts)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// NewLogger builds the process logger from the log section.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
