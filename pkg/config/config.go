// Package config provides TOML-based configuration for parkicle.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the root configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Board    BoardConfig    `toml:"board"`
	Gate     GateConfig     `toml:"gate"`
	Identity IdentityConfig `toml:"identity"`
	Store    StoreConfig    `toml:"store"`
	Prefs    PrefsConfig    `toml:"prefs"`
	Theme    ThemeConfig    `toml:"theme"`
}

// GeneralConfig holds logging and state locations.
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // text | json
	LogFile   string `toml:"log_file"`
	StateDir  string `toml:"state_dir"`
}

// BoardConfig controls the station board.
type BoardConfig struct {
	RefreshInterval  Duration `toml:"refresh_interval"`
	AutoRefresh      bool     `toml:"auto_refresh"`
	PlaceholderCount int      `toml:"placeholder_count"`

	// Area, when set, is selected at startup instead of the remembered one.
	Area string `toml:"area"`

	// AreaKey is the preference name under which the last area is kept.
	AreaKey     string `toml:"area_key"`
	AreaTTLDays int    `toml:"area_ttl_days"`
}

// GateConfig holds the confirmation code for privileged actions. When
// CodeHash (bcrypt) is set it takes precedence over Code.
type GateConfig struct {
	Code     string `toml:"code"`
	CodeHash string `toml:"code_hash"`
}

// IdentityConfig configures the signed-token identity provider.
type IdentityConfig struct {
	Secret    string   `toml:"secret"`
	TokenFile string   `toml:"token_file"`
	Issuer    string   `toml:"issuer"`
	TokenTTL  Duration `toml:"token_ttl"`
}

// StoreConfig selects the station document store.
type StoreConfig struct {
	Driver          string   `toml:"driver"` // memory | sqlite | postgres | redis
	SQLitePath      string   `toml:"sqlite_path"`
	PostgresDSN     string   `toml:"postgres_dsn"`
	PostgresMigrate bool     `toml:"postgres_migrate"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	Timeout         Duration `toml:"timeout"`
	SeedFile        string   `toml:"seed_file"`
}

// PrefsConfig selects where user preferences are kept.
type PrefsConfig struct {
	Driver      string `toml:"driver"` // file | redis
	Dir         string `toml:"dir"`
	RedisPrefix string `toml:"redis_prefix"`
}

// ThemeConfig names the color theme.
type ThemeConfig struct {
	Name string `toml:"name"`
	File string `toml:"file"`
}

// Validate checks the configuration for values the program cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.General.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("general.log_level: unknown level %q", c.General.LogLevel))
	}
	switch c.General.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("general.log_format: must be text or json, got %q", c.General.LogFormat))
	}

	if c.Board.RefreshInterval.Duration < 0 {
		errs = append(errs, errors.New("board.refresh_interval: must not be negative"))
	}
	if c.Board.PlaceholderCount < 1 || c.Board.PlaceholderCount > 99 {
		errs = append(errs, fmt.Errorf("board.placeholder_count: must be between 1 and 99, got %d", c.Board.PlaceholderCount))
	}
	if c.Board.AreaKey == "" {
		errs = append(errs, errors.New("board.area_key: must not be empty"))
	}

	if c.Gate.Code == "" && c.Gate.CodeHash == "" {
		errs = append(errs, errors.New("gate: one of code or code_hash is required"))
	}

	if c.Identity.Secret == "" {
		errs = append(errs, errors.New("identity.secret: required (or set PARKICLE_JWT_SECRET)"))
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path: required for the sqlite driver"))
		}
	case "postgres":
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn: required for the postgres driver"))
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr: required for the redis driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown driver %q", c.Store.Driver))
	}

	switch c.Prefs.Driver {
	case "file":
		if c.Prefs.Dir == "" {
			errs = append(errs, errors.New("prefs.dir: required for the file driver"))
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("prefs: the redis driver uses store.redis_addr, which is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("prefs.driver: unknown driver %q", c.Prefs.Driver))
	}

	return errors.Join(errs...)
}
