package migration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synqtech/synq-site/internal/models"
	"github.com/synqtech/synq-site/internal/testutil"
)

func TestGormStoreExistsAndInsert(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	exists, err := store.Exists(ctx, models.KindTeamMembers)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.InsertMany(ctx, models.KindTeamMembers, []models.Record{
		&models.TeamMember{Name: "A", SocialLinks: models.SocialLinks{GitHub: "g"}},
		&models.TeamMember{Name: "B"},
	})
	require.NoError(t, err)

	exists, err = store.Exists(ctx, models.KindTeamMembers)
	require.NoError(t, err)
	assert.True(t, exists)

	var members []models.TeamMember
	require.NoError(t, db.Order("name").Find(&members).Error)
	require.Len(t, members, 2)
	assert.Equal(t, "g", members[0].SocialLinks.GitHub)
}

func TestGormStoreRoundTripsJSONColumns(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewGormStore(db)

	require.NoError(t, store.InsertMany(context.Background(), models.KindProjects, []models.Record{
		&models.Project{Title: "P", TechStack: []string{"Go", "Vue"}},
	}))

	var project models.Project
	require.NoError(t, db.First(&project).Error)
	assert.Equal(t, []string{"Go", "Vue"}, project.TechStack)
}

func TestGormStoreCountsSoftDeletedRows(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	comment := &models.Comment{Name: "A", Comment: "hi"}
	require.NoError(t, db.Create(comment).Error)
	require.NoError(t, db.Delete(comment).Error)

	exists, err := store.Exists(ctx, models.KindComments)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormStoreRejectsMismatchedRecords(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewGormStore(db)

	err := store.InsertMany(context.Background(), models.KindProjects, []models.Record{
		&models.Project{Title: "ok"},
		&models.Comment{Name: "wrong", Comment: "kind"},
	})
	require.Error(t, err)

	var count int64
	db.Model(&models.Project{}).Count(&count)
	assert.Zero(t, count)
}

func TestGormStoreUnknownKind(t *testing.T) {
	store := NewGormStore(testutil.NewDB(t))

	_, err := store.Exists(context.Background(), models.Kind("founders"))
	require.Error(t, err)
}

func TestDBGuardLease(t *testing.T) {
	db := testutil.NewDB(t)
	guard := NewDBGuard(db, time.Minute)
	ctx := context.Background()

	release, acquired, err := guard.Acquire(ctx, LockName)
	require.NoError(t, err)
	require.True(t, acquired)

	_, acquired, err = guard.Acquire(ctx, LockName)
	require.NoError(t, err)
	assert.False(t, acquired, "second holder must be refused while the lease is live")

	_, acquired, err = guard.Acquire(ctx, "another-job")
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, release(ctx))

	_, acquired, err = guard.Acquire(ctx, LockName)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestDBGuardTakesOverExpiredLease(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	guard := NewDBGuard(db, time.Minute)
	guard.now = func() time.Time { return now }
	ctx := context.Background()

	_, acquired, err := guard.Acquire(ctx, LockName)
	require.NoError(t, err)
	require.True(t, acquired)

	now = now.Add(2 * time.Minute)
	release, acquired, err := guard.Acquire(ctx, LockName)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, release(ctx))
	var count int64
	db.Model(&models.MigrationLock{}).Count(&count)
	assert.Zero(t, count)
}
