package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"

	"github.com/hammamikhairi/ottoplan/internal/domain"
	"github.com/hammamikhairi/ottoplan/internal/logger"
)

// Compile-time interface check.
var _ domain.ScheduleStore = (*BadgerStore)(nil)

// BadgerStore persists schedules as JSON in a BadgerDB directory so previews
// survive restarts.
type BadgerStore struct {
	db  *badger.DB
	log *logger.Logger
}

// OpenBadger opens (or creates) a badger database in dir.
func OpenBadger(dir string, log *logger.Logger) (*BadgerStore, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve %s: %w", dir, err)
	}

	opts := badger.DefaultOptions(absPath)
	opts.Logger = nil // badger's own logger is noisy

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}

	log.Debug("badger cache opened at %s", absPath)
	return &BadgerStore{db: db, log: log}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores a schedule under key.
func (s *BadgerStore) Save(ctx context.Context, key string, schedule *domain.Schedule) error {
	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("storage: marshal schedule: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("storage: save %s: %w", key, err)
	}
	s.log.Debug("saved schedule %s (%d bytes)", key, len(data))
	return nil
}

// Load retrieves a schedule by key.
func (s *BadgerStore) Load(ctx context.Context, key string) (*domain.Schedule, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", key, err)
	}

	var sched domain.Schedule
	if err := json.Unmarshal(data, &sched); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return &sched, nil
}

// Delete removes a schedule by key.
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// Len counts stored schedules.
func (s *BadgerStore) Len(ctx context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("storage: count: %w", err)
	}
	return n, nil
}
