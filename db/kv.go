package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// KV is the SQL-backed key-value store. Last write wins; a single writer is
// assumed, so there are no transactions.
type KV struct {
	db *sql.DB
}

func NewKV(database *sql.DB) *KV {
	return &KV{db: database}
}

// Get returns the value for key and whether it exists.
func (s *KV) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KV) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every key under the given prefix.
func (s *KV) DeleteByPrefix(prefix string) error {
	// Escape LIKE metacharacters so the prefix matches literally.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key LIKE $1 ESCAPE '\'`, escaped+"%"); err != nil {
		return fmt.Errorf("kv delete prefix %q: %w", prefix, err)
	}
	return nil
}
