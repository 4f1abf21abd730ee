package migration

import (
	"github.com/synqtech/synq-site/internal/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FromConfig wires a Migrator against db: snapshots from cfg.SnapshotDir,
// bundled defaults, and a Redis lease when REDIS_URL is set (a database
// lease otherwise). The returned closer releases the Redis client.
func FromConfig(cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*Migrator, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := NewGormStore(db)

	var guard RunGuard = NewDBGuard(db, cfg.MigrationLockTTL)
	closer := func() error { return nil }
	if cfg.RedisURL != "" {
		redisGuard, err := NewRedisGuardFromURL(cfg.RedisURL, cfg.MigrationLockTTL)
		if err != nil {
			return nil, nil, err
		}
		guard = redisGuard
		closer = redisGuard.Close
		logger.Info("Using redis migration lock")
	}

	migrator := NewMigrator(MigratorConfig{
		Loader:      NewLoader(NewFileSnapshotStore(cfg.SnapshotDir), BundledDefaults(), logger),
		Seeder:      NewSeeder(store),
		Guard:       guard,
		HealthCheck: store.Ping,
		Sequential:  !cfg.MigrationConcurrent,
		Logger:      logger,
	})
	return migrator, closer, nil
}
