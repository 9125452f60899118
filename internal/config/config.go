// Package config provides Viper-based configuration loading for the rules
// engine tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for actor storage.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr" or a file path. Roll results go to stdout, so logs
	// never do.
	Output string `mapstructure:"output"`
}

// RulesetConfig selects the rule tables.
type RulesetConfig struct {
	// Path is a rules YAML file. Empty selects the built-in tables.
	Path string `mapstructure:"path"`
}

// ScriptingConfig holds Lua macro settings.
type ScriptingConfig struct {
	// Dir is the directory of *.lua macro files. Empty disables macros.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps the VM instructions of a single macro call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Dice source names.
const (
	DiceSourceCrypto = "crypto"
	DiceSourceSeeded = "seeded"
)

// DiceConfig selects the randomness source.
type DiceConfig struct {
	// Source is "crypto" or "seeded".
	Source string `mapstructure:"source"`
	// Seed is used only by the seeded source.
	Seed uint64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Ruleset   RulesetConfig   `mapstructure:"ruleset"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Dice      DiceConfig      `mapstructure:"dice"`
}

// problems collects every violation found by Validate.
type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var p problems
	c.Logging.validate(&p)
	c.Database.validate(&p)
	c.Scripting.validate(&p)
	c.Dice.validate(&p)
	if len(p) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(p, "; "))
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func (l LoggingConfig) validate(p *problems) {
	if !oneOf(l.Level, "debug", "info", "warn", "error") {
		p.addf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	if !oneOf(l.Format, "json", "console") {
		p.addf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "stdout" {
		p.addf("logging.output must not be stdout")
	}
}

func (d DatabaseConfig) validate(p *problems) {
	for _, f := range []struct{ name, value string }{
		{"host", d.Host}, {"user", d.User}, {"name", d.Name},
	} {
		if f.value == "" {
			p.addf("database.%s must not be empty", f.name)
		}
	}
	if d.Port < 1 || d.Port > 65535 {
		p.addf("database.port must be 1-65535, got %d", d.Port)
	}
	if !oneOf(d.SSLMode, "disable", "require", "verify-ca", "verify-full") {
		p.addf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode)
	}
	switch {
	case d.MaxConns < 1:
		p.addf("database.max_conns must be >= 1, got %d", d.MaxConns)
	case d.MinConns < 0:
		p.addf("database.min_conns must be >= 0, got %d", d.MinConns)
	case d.MinConns > d.MaxConns:
		p.addf("database.min_conns must not exceed database.max_conns")
	}
}

func (s ScriptingConfig) validate(p *problems) {
	if s.InstructionLimit < 0 {
		p.addf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit)
	}
}

func (d DiceConfig) validate(p *problems) {
	if !oneOf(d.Source, DiceSourceCrypto, DiceSourceSeeded) {
		p.addf("dice.source must be one of [crypto, seeded], got %q", d.Source)
	}
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with RT_ prefix
	v.SetEnvPrefix("RT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rt")
	v.SetDefault("database.password", "rt")
	v.SetDefault("database.name", "rogue_trader")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 0)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("ruleset.path", "")

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("dice.source", DiceSourceCrypto)
	v.SetDefault("dice.seed", 0)
}
