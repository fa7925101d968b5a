// Package persist records generation runs: one JSON file per document plus a
// SQLite index used for run history and skip-existing lookups.
package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed run index.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens (or creates) the index database at the given path.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			domain       TEXT NOT NULL,
			mode         TEXT NOT NULL,
			started_at   TEXT NOT NULL,
			finished_at  TEXT,
			generated    INTEGER NOT NULL DEFAULT 0,
			failed       INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS documents (
			doc_id       TEXT PRIMARY KEY,
			run_id       TEXT NOT NULL,
			doc_name     TEXT NOT NULL,
			profile      TEXT NOT NULL,
			timestamp    TEXT NOT NULL,
			has_content  INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
		CREATE INDEX IF NOT EXISTS idx_documents_profile ON documents(profile);
	`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun registers a new run and returns its ID.
func (s *Store) BeginRun(domain, mode string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, domain, mode, started_at) VALUES (?, ?, ?, ?)",
		id, domain, mode, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// FinishRun records the outcome counts of a run.
func (s *Store) FinishRun(runID string, generated, failed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"UPDATE runs SET finished_at = ?, generated = ?, failed = ? WHERE id = ?",
		time.Now().Format(time.RFC3339), generated, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// IndexDocument records one generated document under a run.
func (s *Store) IndexDocument(runID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO documents
		 (doc_id, run_id, doc_name, profile, timestamp, has_content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.DocID, runID, rec.DocName, rec.Profile, rec.Timestamp,
		boolToInt(rec.Content != ""), time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	return nil
}

// ExistingProfileIDs returns the set of profile names that already have at
// least one indexed document. Used by skip-existing runs.
func (s *Store) ExistingProfileIDs() (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT DISTINCT profile FROM documents")
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var profile string
		if err := rows.Scan(&profile); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		existing[profile] = true
	}
	return existing, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
