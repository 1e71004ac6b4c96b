// Package testutil holds shared fixtures for package tests: an isolated
// SQLite database, a miniredis-backed cache and a deterministic clock.
package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-dating/internal/app"
	"github.com/oggyb/muzz-dating/internal/cache"
	"github.com/oggyb/muzz-dating/internal/config"
	"github.com/oggyb/muzz-dating/internal/db"
	applog "github.com/oggyb/muzz-dating/internal/logger"
)

// Clock is a monotonic fake clock: every call to Now advances by one millisecond.
// Thread-safe.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a fixed UTC instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// OpenDB spins up an in-memory SQLite DB unique to t and applies migrations.
// A single connection is used so concurrent tests serialize at the driver
// instead of failing with "database is locked".
func OpenDB(t *testing.T, clock *Clock) *gorm.DB {
	t.Helper()

	if clock == nil {
		clock = NewClock()
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                clock.Now,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewRedis starts a miniredis and returns a cache bound to it.
func NewRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0

	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// NewAppContext wires a fresh DB, miniredis and a discarding logger.
// Each call gets its own isolated DB + Redis.
func NewAppContext(t *testing.T) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()

	database := OpenDB(t, nil)
	rc, mr := NewRedis(t)
	return app.New(database, rc, applog.Discard()), mr
}
