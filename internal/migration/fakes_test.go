package migration

import (
	"context"
	"errors"
	"sync"

	"github.com/synqtech/synq-site/internal/models"
)

type memSnapshots struct {
	data map[string]string
	err  error
}

func (s *memSnapshots) Read(_ context.Context, key string) ([]byte, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

type memDefaults map[models.Kind][]RawRecord

func (d memDefaults) Load(kind models.Kind) ([]RawRecord, error) {
	return d[kind], nil
}

type memStore struct {
	mu          sync.Mutex
	rows        map[models.Kind][]models.Record
	existsErr   map[models.Kind]error
	insertErr   map[models.Kind]error
	panicOn     models.Kind
	existsCalls map[models.Kind]int
	insertCalls map[models.Kind]int
}

func newMemStore() *memStore {
	return &memStore{
		rows:        map[models.Kind][]models.Record{},
		existsErr:   map[models.Kind]error{},
		insertErr:   map[models.Kind]error{},
		existsCalls: map[models.Kind]int{},
		insertCalls: map[models.Kind]int{},
	}
}

func (s *memStore) Exists(_ context.Context, kind models.Kind) (bool, error) {
	if kind == s.panicOn {
		panic("store exploded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsCalls[kind]++
	if err := s.existsErr[kind]; err != nil {
		return false, err
	}
	return len(s.rows[kind]) > 0, nil
}

func (s *memStore) InsertMany(_ context.Context, kind models.Kind, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls[kind]++
	if err := s.insertErr[kind]; err != nil {
		return err
	}
	s.rows[kind] = append(s.rows[kind], records...)
	return nil
}

func (s *memStore) count(kind models.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows[kind])
}

func (s *memStore) inserts(kind models.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCalls[kind]
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
