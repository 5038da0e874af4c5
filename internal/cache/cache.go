package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// Cache defines the interface for caching remote answers
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyPrefix namespaces factcheck entries in shared backends
const keyPrefix = "factcheck:v1:"

// CacheKey generates a cache key from one or more parts.
// Parts are lowercased so that name variants differing only in case share an entry.
func CacheKey(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "\x00"))
	hash := sha256.Sum256([]byte(joined))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New builds the cache backend named in the configuration.
// A disabled cache yields (nil, nil).
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewMemoryCache(cfg.TTL, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, cfg.TTL), nil
	case "layered":
		// memory in front of redis when an address is configured, disk otherwise
		var back Cache = NewDiskCache(cfg.Dir, cfg.TTL)
		if cfg.RedisAddr != "" {
			back = NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL)
		}
		return NewLayeredCache(NewMemoryCache(cfg.TTL, 10*time.Minute), back), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis cache requires cache.redis_addr")
		}
		return NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (supported: memory, disk, layered, redis)", cfg.Backend)
	}
}
