package migration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synqtech/synq-site/internal/models"
	"github.com/synqtech/synq-site/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestMigrator(snapshots SnapshotStore, store RemoteStore, guard RunGuard) *Migrator {
	return NewMigrator(MigratorConfig{
		Loader: NewLoader(snapshots, BundledDefaults(), zap.NewNop()),
		Seeder: NewSeeder(store),
		Guard:  guard,
		Logger: zap.NewNop(),
	})
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
	return n
}

func TestMigratorRunSeedsEveryKind(t *testing.T) {
	snapshots := &memSnapshots{data: map[string]string{
		"synqComments": `[{"name":"X","email":"e@x.com","comment":"hello world","status":"approved"},
		                  {"name":"Y","comment":"meh","status":"pending","likes":4}]`,
	}}
	store := newMemStore()

	report := newTestMigrator(snapshots, store, nil).Run(context.Background())

	require.False(t, report.Skipped)
	require.Len(t, report.Outcomes, 3)
	assert.Empty(t, report.Failed())

	team, ok := report.Outcome(models.KindTeamMembers)
	require.True(t, ok)
	assert.Equal(t, StateDone, team.State)
	assert.Equal(t, SourceDefaults, team.Source)
	assert.Equal(t, SeedStatusInserted, team.SeedStatus)

	comments, _ := report.Outcome(models.KindComments)
	assert.Equal(t, SourceSnapshot, comments.Source)
	assert.Equal(t, 2, comments.Inserted)
	assert.Equal(t, 2, store.count(models.KindComments))
}

func TestMigratorIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	migrator := newTestMigrator(nil, NewGormStore(db), NewDBGuard(db, time.Minute))

	first := migrator.Run(context.Background())
	require.Empty(t, first.Failed())

	teamAfterFirst := countRows(t, db, &models.TeamMember{})
	projectsAfterFirst := countRows(t, db, &models.Project{})
	require.NotZero(t, teamAfterFirst)
	require.NotZero(t, projectsAfterFirst)

	second := migrator.Run(context.Background())
	require.Empty(t, second.Failed())

	assert.Equal(t, teamAfterFirst, countRows(t, db, &models.TeamMember{}))
	assert.Equal(t, projectsAfterFirst, countRows(t, db, &models.Project{}))
	for _, o := range second.Outcomes {
		assert.NotEqual(t, SeedStatusInserted, o.SeedStatus, "%s was seeded twice", o.Kind)
	}
}

func TestMigratorSkipsPopulatedProjects(t *testing.T) {
	snapshots := &memSnapshots{data: map[string]string{
		"projects": `[{"title":"Local 1"},{"title":"Local 2"}]`,
	}}
	store := newMemStore()
	store.rows[models.KindProjects] = projectBatch("already there")

	report := newTestMigrator(snapshots, store, nil).Run(context.Background())

	projects, _ := report.Outcome(models.KindProjects)
	assert.Equal(t, StateDone, projects.State)
	assert.Equal(t, SeedStatusAlreadyPopulated, projects.SeedStatus)
	assert.Equal(t, 0, store.inserts(models.KindProjects))
	assert.Equal(t, 1, store.count(models.KindProjects))
}

func TestMigratorFallsBackWhenTeamSnapshotIsCorrupt(t *testing.T) {
	snapshots := &memSnapshots{data: map[string]string{"teamMembers": `[{"name": "broken"`}}
	store := newMemStore()

	report := newTestMigrator(snapshots, store, nil).Run(context.Background())

	defaults, err := BundledDefaults().Load(models.KindTeamMembers)
	require.NoError(t, err)

	team, _ := report.Outcome(models.KindTeamMembers)
	assert.Equal(t, StateDone, team.State)
	assert.Equal(t, SourceDefaults, team.Source)
	assert.Equal(t, len(defaults), team.Inserted)
	assert.Equal(t, len(defaults), store.count(models.KindTeamMembers))
}

func TestMigratorIsolatesFailingKind(t *testing.T) {
	store := newMemStore()
	store.existsErr[models.KindComments] = errConnRefused
	snapshots := &memSnapshots{data: map[string]string{
		"synqComments": `[{"name":"X","comment":"hello"}]`,
	}}

	report := newTestMigrator(snapshots, store, nil).Run(context.Background())

	assert.Equal(t, []models.Kind{models.KindComments}, report.Failed())

	comments, _ := report.Outcome(models.KindComments)
	assert.Equal(t, StateFailed, comments.State)
	var remoteErr *RemoteUnavailableError
	assert.ErrorAs(t, comments.Err, &remoteErr)
	assert.NotEmpty(t, comments.Error)
	assert.Equal(t, 0, store.inserts(models.KindComments))

	for _, kind := range []models.Kind{models.KindTeamMembers, models.KindProjects} {
		o, _ := report.Outcome(kind)
		assert.Equal(t, StateDone, o.State, kind)
		assert.NotZero(t, store.count(kind), kind)
	}
}

func TestMigratorDropsInvalidRecords(t *testing.T) {
	snapshots := &memSnapshots{data: map[string]string{
		"projects": `[{"title":"A"},{"category":"untitled"},{"title":"C"}]`,
	}}
	store := newMemStore()

	report := newTestMigrator(snapshots, store, nil).Run(context.Background())

	projects, _ := report.Outcome(models.KindProjects)
	assert.Equal(t, StateDone, projects.State)
	assert.Equal(t, 3, projects.Loaded)
	assert.Equal(t, 1, projects.Dropped)
	assert.Equal(t, 2, projects.Inserted)

	var titles []string
	for _, r := range store.rows[models.KindProjects] {
		titles = append(titles, r.(*models.Project).Title)
	}
	assert.Equal(t, []string{"A", "C"}, titles)
}

func TestMigratorContainsPanics(t *testing.T) {
	store := newMemStore()
	store.panicOn = models.KindProjects

	report := newTestMigrator(nil, store, nil).Run(context.Background())

	projects, _ := report.Outcome(models.KindProjects)
	assert.Equal(t, StateFailed, projects.State)
	assert.Contains(t, projects.Error, "panic")

	team, _ := report.Outcome(models.KindTeamMembers)
	assert.Equal(t, StateDone, team.State)
}

func TestMigratorInsertFailureIsNotRetried(t *testing.T) {
	store := newMemStore()
	store.insertErr[models.KindTeamMembers] = errors.New("timeout")

	report := newTestMigrator(nil, store, nil).Run(context.Background())

	team, _ := report.Outcome(models.KindTeamMembers)
	assert.Equal(t, StateFailed, team.State)
	var insertErr *InsertFailedError
	assert.ErrorAs(t, team.Err, &insertErr)
	assert.Equal(t, 1, store.inserts(models.KindTeamMembers))
}

func TestMigratorSequential(t *testing.T) {
	store := newMemStore()
	migrator := NewMigrator(MigratorConfig{
		Loader:     NewLoader(nil, BundledDefaults(), nil),
		Seeder:     NewSeeder(store),
		Sequential: true,
		Kinds:      []models.Kind{models.KindProjects},
	})

	report := migrator.Run(context.Background())

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, models.KindProjects, report.Outcomes[0].Kind)
	assert.Zero(t, store.count(models.KindTeamMembers))
}

// Two processes starting at once must not both seed the same table.
func TestMigratorConcurrentRunsDoNotDoubleSeed(t *testing.T) {
	db := testutil.NewDB(t)

	var wg sync.WaitGroup
	reports := make([]Report, 4)
	for i := range reports {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := newTestMigrator(nil, NewGormStore(db), NewDBGuard(db, time.Minute))
			reports[i] = m.Run(context.Background())
		}()
	}
	wg.Wait()

	defaults, err := BundledDefaults().Load(models.KindTeamMembers)
	require.NoError(t, err)
	assert.Equal(t, int64(len(defaults)), countRows(t, db, &models.TeamMember{}))

	projects, err := BundledDefaults().Load(models.KindProjects)
	require.NoError(t, err)
	assert.Equal(t, int64(len(projects)), countRows(t, db, &models.Project{}))

	for _, r := range reports {
		assert.Empty(t, r.Failed())
	}
}

type heldGuard struct{}

func (heldGuard) Acquire(context.Context, string) (ReleaseFunc, bool, error) {
	return nil, false, nil
}

func TestMigratorSkipsWhenLockHeld(t *testing.T) {
	store := newMemStore()

	report := newTestMigrator(nil, store, heldGuard{}).Run(context.Background())

	assert.True(t, report.Skipped)
	assert.Equal(t, "lock held elsewhere", report.SkipReason)
	assert.Empty(t, report.Outcomes)
	assert.Zero(t, store.inserts(models.KindTeamMembers))
}

func TestMigratorStartRunsOnce(t *testing.T) {
	store := newMemStore()
	migrator := newTestMigrator(nil, store, nil)

	first := migrator.Start(context.Background())
	second := migrator.Start(context.Background())

	select {
	case report, ok := <-first:
		require.True(t, ok)
		assert.False(t, report.Skipped)
		assert.Empty(t, report.Failed())
	case <-time.After(10 * time.Second):
		t.Fatal("migration did not finish")
	}

	_, ok := <-second
	assert.False(t, ok, "second Start must not run the migration again")
	assert.Equal(t, 1, store.inserts(models.KindProjects))
}

func TestMigratorStartSkipsWhenRemoteUnreachable(t *testing.T) {
	store := newMemStore()
	migrator := NewMigrator(MigratorConfig{
		Loader:      NewLoader(nil, BundledDefaults(), nil),
		Seeder:      NewSeeder(store),
		HealthCheck: func(context.Context) error { return errConnRefused },
	})

	report := <-migrator.Start(context.Background())

	assert.True(t, report.Skipped)
	assert.Equal(t, "remote store unreachable", report.SkipReason)
	assert.Zero(t, store.inserts(models.KindTeamMembers))
}
