package memory

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"farelink/internal/config"
)

// NewStore selects a backend from configuration. Unused clients may be
// nil as long as the configured backend's client is present.
func NewStore(cfg config.MemoryConfig, redisClient *redis.Client, pool *pgxpool.Pool) (Store, error) {
	switch cfg.Backend {
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("memory: redis backend selected but no redis client configured")
		}
		return NewRedisStore(redisClient, cfg.Retention()), nil
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("memory: postgres backend selected but no database pool configured")
		}
		return NewPostgresStore(pool, cfg.Retention()), nil
	case "inmemory":
		return NewInMemoryStore(cfg.Retention()), nil
	default:
		return nil, fmt.Errorf("memory: unknown backend %q", cfg.Backend)
	}
}
