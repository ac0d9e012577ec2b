// Package prefstore persists the user's recurring-payment preferences in a
// local bbolt database, keyed by normalized pattern key. The detection
// engine only ever reads the resulting ignore set; all writes come from the
// HTTP layer.
package prefstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when no preference exists for a pattern key.
var ErrNotFound = errors.New("preference not found")

const bucketPreferences = "preferences"

// Preference is the stored per-pattern state.
type Preference struct {
	PatternKey string `json:"pattern_key"`
	IsIgnored  bool   `json:"is_ignored"`
}

// Store wraps the bbolt database.
type Store struct {
	db *bolt.DB
}

// New opens (creating if necessary) the preference database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPreferences))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the preference for a pattern key.
func (s *Store) Get(patternKey string) (Preference, error) {
	var pref Preference
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketPreferences)).Get([]byte(normalizeKey(patternKey)))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &pref)
	})
	return pref, err
}

// Set stores the ignore flag for a pattern key.
func (s *Store) Set(patternKey string, ignored bool) error {
	key := normalizeKey(patternKey)
	return s.db.Update(func(tx *bolt.Tx) error {
		pref := Preference{PatternKey: key, IsIgnored: ignored}
		data, err := json.Marshal(pref)
		if err != nil {
			return fmt.Errorf("failed to marshal preference: %w", err)
		}
		return tx.Bucket([]byte(bucketPreferences)).Put([]byte(key), data)
	})
}

// Toggle flips the ignore flag for a pattern key and returns the new state.
// A key with no stored preference toggles to ignored.
func (s *Store) Toggle(patternKey string) (bool, error) {
	key := normalizeKey(patternKey)
	var ignored bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPreferences))

		pref := Preference{PatternKey: key}
		if data := b.Get([]byte(key)); data != nil {
			if err := json.Unmarshal(data, &pref); err != nil {
				return err
			}
		}
		pref.IsIgnored = !pref.IsIgnored
		ignored = pref.IsIgnored

		data, err := json.Marshal(pref)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
	return ignored, err
}

// IgnoredKeys returns the set of pattern keys currently flagged as ignored,
// in the lookup shape the detection engine's overlay step expects.
func (s *Store) IgnoredKeys() (map[string]bool, error) {
	ignored := make(map[string]bool)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPreferences)).ForEach(func(k, v []byte) error {
			var pref Preference
			if err := json.Unmarshal(v, &pref); err != nil {
				return err
			}
			if pref.IsIgnored {
				ignored[string(k)] = true
			}
			return nil
		})
	})
	return ignored, err
}

func normalizeKey(patternKey string) string {
	return strings.ToLower(strings.TrimSpace(patternKey))
}
