package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synqtech/synq-site/internal/migration"
	"github.com/synqtech/synq-site/internal/models"
)

func TestDryRunCountsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	snapshot := `[{"name":"Ada","role":"CTO"},{"role":"nameless"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teamMembers.json"), []byte(snapshot), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects.json"), []byte("{broken"), 0o644))

	loader := migration.NewLoader(migration.NewFileSnapshotStore(dir), migration.BundledDefaults(), nil)
	rows, err := dryRun(context.Background(), loader, migration.NewNormalizer(), models.AllKinds())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	team := rows[0]
	assert.Equal(t, models.KindTeamMembers, team.Kind)
	assert.Equal(t, migration.SourceSnapshot, team.Source)
	assert.Equal(t, 2, team.Loaded)
	assert.Equal(t, 1, team.Valid)
	assert.Len(t, team.Dropped, 1)

	projects := rows[1]
	assert.Equal(t, migration.SourceDefaults, projects.Source, "corrupt snapshot falls back to defaults")
	assert.Equal(t, projects.Loaded, projects.Valid)
	assert.NotZero(t, projects.Loaded)

	comments := rows[2]
	assert.Equal(t, migration.SourceDefaults, comments.Source)
	assert.Zero(t, comments.Loaded)

	var out bytes.Buffer
	require.NoError(t, printDryRun(&out, rows, false))
	assert.Contains(t, out.String(), "team_members")
	assert.Contains(t, out.String(), "dropped team_members:")
}

func TestPrintReportSkipped(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printReport(&out, migration.Report{Skipped: true, SkipReason: "lock held elsewhere"}, false))
	assert.Equal(t, "skipped: lock held elsewhere\n", out.String())
}

func TestRunCommandFlags(t *testing.T) {
	cmd := newRunCommand()
	for _, name := range []string{"dry-run", "sequential", "snapshot-dir", "json"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
