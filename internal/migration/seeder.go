package migration

import (
	"context"

	"github.com/synqtech/synq-site/internal/models"
)

// RemoteStore is the table store the migration seeds.
type RemoteStore interface {
	// Exists reports whether the kind's table holds at least one record.
	Exists(ctx context.Context, kind models.Kind) (bool, error)
	// InsertMany writes the whole batch or fails.
	InsertMany(ctx context.Context, kind models.Kind, records []models.Record) error
}

type SeedStatus string

const (
	SeedStatusInserted         SeedStatus = "inserted"
	SeedStatusAlreadyPopulated SeedStatus = "already_populated"
	SeedStatusNothingToInsert  SeedStatus = "nothing_to_insert"
)

type SeedResult struct {
	Status   SeedStatus
	Inserted int
}

// Seeder populates a table once: only when it is empty. It never updates
// or deletes remote records and never retries.
type Seeder struct {
	store RemoteStore
}

func NewSeeder(store RemoteStore) *Seeder {
	return &Seeder{store: store}
}

func (s *Seeder) Seed(ctx context.Context, kind models.Kind, records []models.Record) (SeedResult, error) {
	exists, err := s.store.Exists(ctx, kind)
	if err != nil {
		return SeedResult{}, NewRemoteUnavailableError(kind, err)
	}
	if exists {
		return SeedResult{Status: SeedStatusAlreadyPopulated}, nil
	}
	if len(records) == 0 {
		return SeedResult{Status: SeedStatusNothingToInsert}, nil
	}

	if err := s.store.InsertMany(ctx, kind, records); err != nil {
		return SeedResult{}, NewInsertFailedError(kind, len(records), err)
	}
	return SeedResult{Status: SeedStatusInserted, Inserted: len(records)}, nil
}
