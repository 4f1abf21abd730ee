package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/synqtech/synq-site/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReleaseFunc gives a lease back.
type ReleaseFunc func(ctx context.Context) error

// RunGuard hands out a lease on a named job so that only one process runs
// it at a time. acquired is false when someone else holds the lease.
type RunGuard interface {
	Acquire(ctx context.Context, name string) (release ReleaseFunc, acquired bool, err error)
}

// DBGuard keeps leases as rows in the migration_locks table. Expired rows
// are taken over, so a crashed holder blocks others for at most TTL.
type DBGuard struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDBGuard(db *gorm.DB, ttl time.Duration) *DBGuard {
	return &DBGuard{db: db, ttl: ttl, now: time.Now}
}

func (g *DBGuard) Acquire(ctx context.Context, name string) (ReleaseFunc, bool, error) {
	owner := uuid.NewString()
	now := g.now().UTC()
	acquired := false

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ? AND expires_at < ?", name, now).
			Delete(&models.MigrationLock{}).Error; err != nil {
			return err
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.MigrationLock{
			Name:      name,
			Owner:     owner,
			ExpiresAt: now.Add(g.ttl),
		})
		if result.Error != nil {
			return result.Error
		}
		acquired = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %q: %w", name, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		return g.db.WithContext(ctx).
			Where("name = ? AND owner = ?", name, owner).
			Delete(&models.MigrationLock{}).Error
	}
	return release, true, nil
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard keeps leases as SET NX keys with a TTL.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, prefix: "synq:lock:"}
}

// NewRedisGuardFromURL parses a redis:// URL and connects lazily.
func NewRedisGuardFromURL(url string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisGuard(redis.NewClient(opts), ttl), nil
}

func (g *RedisGuard) Acquire(ctx context.Context, name string) (ReleaseFunc, bool, error) {
	key := g.prefix + name
	owner := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, owner, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %q: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, g.client, []string{key}, owner).Err()
	}
	return release, true, nil
}

func (g *RedisGuard) Close() error {
	return g.client.Close()
}
