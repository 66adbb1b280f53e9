// Package bootstrap establishes runtime dependencies shared by the
// server and tooling entry points.
package bootstrap

import (
	"context"
	"fmt"

	"ayubo/internal/cache"
	"ayubo/internal/config"
	"ayubo/internal/database"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	ApplySchema bool
}

// InitRuntime connects to the database and Redis and optionally applies
// the configured schema policy.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis may be unreachable; the client is nil and callers degrade
	// to uncached reads and fail-open rate limits.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("schema apply failed: %w", err)
		}
	}

	return db, r, nil
}
