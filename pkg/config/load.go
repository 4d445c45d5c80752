package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/parkicle/config.toml
//  2. ~/.config/parkicle/config.toml
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader. Keys absent from
// the document keep their defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(xdgStateHome(home), "parkicle")

	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			LogFormat: "text",
			LogFile:   filepath.Join(stateDir, "parkicle.log"),
			StateDir:  stateDir,
		},
		Board: BoardConfig{
			RefreshInterval:  Duration{60 * time.Second},
			AutoRefresh:      true,
			PlaceholderCount: 8,
			AreaKey:          "areaCode",
			AreaTTLDays:      30,
		},
		Gate: GateConfig{
			Code: "1234",
		},
		Identity: IdentityConfig{
			TokenFile: filepath.Join(stateDir, "token"),
			Issuer:    "parkicle",
			TokenTTL:  Duration{24 * time.Hour},
		},
		Store: StoreConfig{
			Driver:     "memory",
			SQLitePath: filepath.Join(stateDir, "stations.db"),
			Timeout:    Duration{10 * time.Second},
		},
		Prefs: PrefsConfig{
			Driver:      "file",
			Dir:         filepath.Join(stateDir, "prefs"),
			RedisPrefix: "parkicle:prefs:",
		},
		Theme: ThemeConfig{
			Name: "default",
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PARKICLE_ADMIN_CODE"); v != "" {
		cfg.Gate.Code = v
		cfg.Gate.CodeHash = ""
	}
	if v := os.Getenv("PARKICLE_JWT_SECRET"); v != "" {
		cfg.Identity.Secret = v
	}
	if v := os.Getenv("PARKICLE_STORE"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("PARKICLE_POSTGRES_DSN"); v != "" {
		cfg.Store.PostgresDSN = v
	}
	if v := os.Getenv("PARKICLE_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("PARKICLE_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.RedisDB = n
		}
	}
	if v := os.Getenv("PARKICLE_AREA"); v != "" {
		cfg.Board.Area = v
	}
	if v := os.Getenv("PARKICLE_THEME"); v != "" {
		cfg.Theme.Name = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "parkicle", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "parkicle", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgStateHome returns XDG_STATE_HOME or ~/.local/state as fallback.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".local", "state")
}
