package app

import (
	"log/slog"

	"github.com/oggyb/muzz-dating/internal/cache"
	"github.com/oggyb/muzz-dating/internal/store"
	"gorm.io/gorm"
)

// AppContext holds shared dependencies (DB, Store, Redis, Logger, etc.)
type AppContext struct {
	DB         *gorm.DB
	Store      *store.Store
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new AppContext. The document store is built on db.
func New(db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		DB:         db,
		Store:      store.New(db),
		RedisCache: rdb,
		Logger:     logger,
	}
}
