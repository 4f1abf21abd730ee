package migration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/synqtech/synq-site/internal/database"
	"github.com/synqtech/synq-site/internal/models"
	"gorm.io/gorm"
)

const defaultInsertBatchSize = 100

// GormStore is the RemoteStore backed by the site's own tables.
type GormStore struct {
	db        *gorm.DB
	batchSize int
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, batchSize: defaultInsertBatchSize}
}

// Exists counts soft-deleted rows too, so a table an admin has emptied is
// not seeded a second time.
func (s *GormStore) Exists(ctx context.Context, kind models.Kind) (bool, error) {
	model, err := modelFor(kind)
	if err != nil {
		return false, err
	}

	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).Unscoped().Model(model).Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// InsertMany writes the batch in one transaction.
func (s *GormStore) InsertMany(ctx context.Context, kind models.Kind, records []models.Record) error {
	rows, err := typedRows(kind, records)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, s.batchSize).Error
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	return database.Ping(ctx, s.db)
}

func modelFor(kind models.Kind) (any, error) {
	switch kind {
	case models.KindTeamMembers:
		return &models.TeamMember{}, nil
	case models.KindProjects:
		return &models.Project{}, nil
	case models.KindComments:
		return &models.Comment{}, nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// typedRows turns a batch into the concrete slice gorm needs, rejecting
// records of another kind.
func typedRows(kind models.Kind, records []models.Record) (any, error) {
	switch kind {
	case models.KindTeamMembers:
		return collect[*models.TeamMember](kind, records)
	case models.KindProjects:
		return collect[*models.Project](kind, records)
	case models.KindComments:
		return collect[*models.Comment](kind, records)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

func collect[T models.Record](kind models.Kind, records []models.Record) ([]T, error) {
	rows := make([]T, 0, len(records))
	for i, r := range records {
		row, ok := r.(T)
		if !ok {
			return nil, fmt.Errorf("record %d is %T, not a %s record", i, r, kind)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
