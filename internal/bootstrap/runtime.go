// Package bootstrap wires up runtime dependencies shared by the server
// and the auxiliary commands.
package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs AutoMigrate plus the versioned SQL migrations
	// before returning.
	ApplySchema bool
	// SeedDemoData populates a development database with sample authors
	// and articles. Ignored outside the development environment.
	SeedDemoData bool
	// MigrateTimeout bounds schema application; zero means 60s.
	MigrateTimeout time.Duration
}

// InitRuntime connects to the database and Redis and optionally applies
// schema and demo data. The Redis client may be nil when the cache is
// unreachable; rate limiting then fails open.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		timeout := opts.MigrateTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			return nil, nil, fmt.Errorf("schema migration failed: %w", err)
		}
	}

	// May leave a nil client if Redis is unreachable.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData && strings.EqualFold(cfg.Env, "development") {
		if err := seed.Seed(db, seed.Options{}); err != nil {
			return nil, nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return db, r, nil
}
