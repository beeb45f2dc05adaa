package storage

import (
	"context"
	"errors"
	"fmt"

	"go-chms/internal/config"
	"go-chms/internal/database"
)

// Well-known keys of the durable client state.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
	KeyModules   = "modules"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value store backing the session record and the
// module-registry mirror. Values are opaque bytes (JSON in practice).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// NewStore picks the driver named by STORE_DRIVER.
func NewStore(cfg *config.Config, mongodb *database.MongodbDB, rdb *database.RedisDB) (Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		if mongodb == nil || mongodb.DB == nil {
			return nil, errors.New("storage: mongo driver selected but no database connection")
		}
		return NewMongoStore(mongodb.DB), nil
	case "redis":
		if rdb == nil || rdb.Client == nil {
			return nil, errors.New("storage: redis driver selected but no redis client")
		}
		return NewRedisStore(rdb.Client), nil
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
	}
}
