// Package storage persists learned Q-tables and training statistics in
// BadgerDB, as JSON values under fixed keys.
package storage

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v4"

	"github.com/Ahnani1Ali/chesshybrid/internal/qlearn"
)

// Storage keys.
const (
	keyQTable = "qtable"
	keyStats  = "training_stats"
)

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveQTable stores the learned values as one JSON blob.
func (s *Store) SaveQTable(table map[string]map[string]float64) error {
	return s.setJSON(keyQTable, table)
}

// LoadQTable loads the learned values. A missing key yields an empty table.
func (s *Store) LoadQTable() (map[string]map[string]float64, error) {
	table := make(map[string]map[string]float64)
	if err := s.getJSON(keyQTable, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// SaveStats stores the training counters.
func (s *Store) SaveStats(stats qlearn.Stats) error {
	return s.setJSON(keyStats, stats)
}

// LoadStats loads the training counters, zero-valued when absent.
func (s *Store) LoadStats() (qlearn.Stats, error) {
	var stats qlearn.Stats
	if err := s.getJSON(keyStats, &stats); err != nil {
		return qlearn.Stats{}, err
	}
	return stats, nil
}

func (s *Store) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON unmarshals the value under key into v. A missing key leaves v
// untouched and is not an error.
func (s *Store) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
