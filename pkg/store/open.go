package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Options selects and configures a backend.
type Options struct {
	// Driver is one of "memory", "sqlite", "postgres", "redis".
	Driver string

	SQLitePath string

	PostgresDSN     string
	PostgresMigrate bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if opts.SQLitePath == "" {
			return nil, fmt.Errorf("store: sqlite driver needs a path")
		}
		if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("store: create sqlite directory: %w", err)
		}
		return OpenSQLite(ctx, opts.SQLitePath)
	case "postgres":
		return OpenPostgres(ctx, opts.PostgresDSN, opts.PostgresMigrate)
	case "redis":
		client, err := NewRedisClient(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q (supported: memory, sqlite, postgres, redis)", opts.Driver)
	}
}
