// internal/store/store.go
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"mcp-ibd-journal/internal/models"
)

// JournalKey is the fixed application key the entry collection is stored
// under. The whole collection is one JSON array value.
const JournalKey = "IBD_NEXUS_JOURNAL_ENTRIES"

// Store persists the canonical journal entry collection. It is the single
// source of truth for all analytics; consumers get value copies and never
// mutate through it.
type Store struct {
	db  *sql.DB
	log *logrus.Logger
}

func Open(dbPath string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS journal (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );
    `
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Load returns the persisted entry collection. A missing key or unreadable
// value substitutes the seed sample collection; corruption is logged and
// never surfaced to the caller.
func (s *Store) Load() []models.JournalEntry {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM journal WHERE key = ?`, JournalKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return SeedEntries()
	}
	if err != nil {
		s.log.WithError(err).Warn("failed to read journal entries, using sample data")
		return SeedEntries()
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.WithError(err).Warn("persisted journal entries are corrupt, using sample data")
		return SeedEntries()
	}
	return entries
}

// Save persists the full collection. Write failures are logged and non-fatal:
// the in-memory collection stays authoritative for the session.
func (s *Store) Save(entries []models.JournalEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		s.log.WithError(err).Error("failed to serialize journal entries")
		return
	}
	_, err = s.db.Exec(
		`INSERT INTO journal (key, value) VALUES (?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		JournalKey, string(raw))
	if err != nil {
		s.log.WithError(err).Error("failed to persist journal entries")
	}
}

// Append returns a new collection with entry added; the input is unchanged.
func Append(entries []models.JournalEntry, entry models.JournalEntry) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(entries)+1)
	out = append(out, entries...)
	return append(out, entry)
}

// ErrEntryNotFound is returned by UpdateByID when no entry has the given id.
var ErrEntryNotFound = errors.New("journal entry not found")

// UpdateByID returns a new collection in which mutate has been applied to a
// copy of the entry with the given id. The input collection is unchanged.
func UpdateByID(entries []models.JournalEntry, id string, mutate func(*models.JournalEntry)) ([]models.JournalEntry, error) {
	out := make([]models.JournalEntry, len(entries))
	copy(out, entries)
	for i := range out {
		if out[i].ID == id {
			mutate(&out[i])
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
}
