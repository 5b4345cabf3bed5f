// Package storage persists user preferences in a local BadgerDB.
// Games themselves are never stored.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

const prefsKey = "preferences"

// Preferences are the persisted analyzer settings.
type Preferences struct {
	EnginePath     string    `json:"engine_path"`
	MoveTimeMS     int       `json:"move_time_ms"`
	Depth          int       `json:"depth"` // 0 = movetime only
	WhiteBottom    bool      `json:"white_bottom"`
	AggressiveMate bool      `json:"aggressive_mate"`
	LastOpened     time.Time `json:"last_opened"`
}

// DefaultPreferences returns the settings used before anything is saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		EnginePath:  "stockfish",
		MoveTimeMS:  100,
		WhiteBottom: true,
	}
}

// Store wraps the preference database.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own logging is too chatty for a GUI app
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadPreferences reads the saved preferences. Missing keys yield the
// defaults, not an error.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefsKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, prefs)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences writes the preferences, stamping LastOpened.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastOpened = time.Now().UTC()
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefsKey), data)
	})
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
