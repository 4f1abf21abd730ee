package migration

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/synqtech/synq-site/internal/models"
	"go.uber.org/zap"
)

// SnapshotStore holds previously persisted local record lists by key.
type SnapshotStore interface {
	Read(ctx context.Context, key string) (data []byte, found bool, err error)
}

// DefaultDataset is the read-only sample data bundled with the site.
type DefaultDataset interface {
	Load(kind models.Kind) ([]RawRecord, error)
}

type Source string

const (
	SourceSnapshot Source = "snapshot"
	SourceDefaults Source = "defaults"
)

// snapshotKeys are the storage keys the browser build persisted under.
var snapshotKeys = map[models.Kind]string{
	models.KindTeamMembers: "teamMembers",
	models.KindProjects:    "projects",
	models.KindComments:    "synqComments",
}

// SnapshotKey returns the storage key for a kind's local snapshot.
func SnapshotKey(kind models.Kind) string {
	if key, ok := snapshotKeys[kind]; ok {
		return key
	}
	return string(kind)
}

type LoadResult struct {
	Kind    models.Kind
	Source  Source
	Records []RawRecord
}

// Loader picks the candidate batch for a kind: the local snapshot when it
// is readable, the bundled defaults otherwise.
type Loader struct {
	snapshots SnapshotStore
	defaults  DefaultDataset
	logger    *zap.Logger
}

func NewLoader(snapshots SnapshotStore, defaults DefaultDataset, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{snapshots: snapshots, defaults: defaults, logger: logger}
}

// Load never fails because of the snapshot; only unreadable bundled
// defaults produce an error.
func (l *Loader) Load(ctx context.Context, kind models.Kind) (LoadResult, error) {
	if records, ok := l.readSnapshot(ctx, kind); ok {
		return LoadResult{Kind: kind, Source: SourceSnapshot, Records: records}, nil
	}

	if l.defaults == nil {
		return LoadResult{Kind: kind, Source: SourceDefaults}, nil
	}
	records, err := l.defaults.Load(kind)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load default %s: %w", kind, err)
	}
	return LoadResult{Kind: kind, Source: SourceDefaults, Records: records}, nil
}

func (l *Loader) readSnapshot(ctx context.Context, kind models.Kind) ([]RawRecord, bool) {
	if l.snapshots == nil {
		return nil, false
	}
	key := SnapshotKey(kind)

	data, found, err := l.snapshots.Read(ctx, key)
	if err != nil {
		l.logger.Warn("Snapshot read failed, using defaults",
			zap.String("kind", kind.String()),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	if !found || len(bytes.TrimSpace(data)) == 0 {
		return nil, false
	}

	records, err := decodeRecords(data)
	if err != nil {
		l.logger.Warn("Snapshot is corrupt, using defaults",
			zap.Error(NewParseError(kind, key, err)),
		)
		return nil, false
	}
	if records == nil {
		// A stored JSON null is treated like a missing snapshot.
		return nil, false
	}
	return records, true
}

func decodeRecords(data []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FileSnapshotStore reads snapshots from <Dir>/<key>.json.
type FileSnapshotStore struct {
	Dir string
}

func NewFileSnapshotStore(dir string) *FileSnapshotStore {
	return &FileSnapshotStore{Dir: dir}
}

func (s *FileSnapshotStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if s.Dir == "" {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, key+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

//go:embed defaults/*.json
var bundledDefaults embed.FS

// FSDefaults serves default datasets from <Dir>/<kind>.json inside FS.
type FSDefaults struct {
	FS  fs.FS
	Dir string
}

// BundledDefaults returns the sample data compiled into the binary.
func BundledDefaults() *FSDefaults {
	return &FSDefaults{FS: bundledDefaults, Dir: "defaults"}
}

func (d *FSDefaults) Load(kind models.Kind) ([]RawRecord, error) {
	data, err := fs.ReadFile(d.FS, path.Join(d.Dir, string(kind)+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return []RawRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s defaults: %w", kind, err)
	}
	if records == nil {
		records = []RawRecord{}
	}
	return records, nil
}
