// Package fingerprint persists diagnostic fingerprints across runs,
// backing the "persisted fingerprints" carve-out spec.md §1 allows beyond
// a single-TU pass (project-wide suppression of already-seen findings
// across invocations, i.e. a baseline).
//
// It uses modernc.org/sqlite, the pure-Go SQLite driver the retrieval pack
// carries in funvibe-funxy and theRebelliousNerd-codenerd, so persisting a
// baseline needs no cgo toolchain.
package fingerprint

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cwbudde/cppgo/internal/diag"
)

// Fingerprint is a stable hash of a diagnostic, independent of anything
// that shifts between otherwise-identical runs (the call-stack's exact
// column is kept; ordering and the logger's run id are not).
type Fingerprint string

// Compute derives the fingerprint for m: sha256 of id + every call-stack
// location's file/line/column + the message text.
func Compute(m diag.Message) Fingerprint {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", m.ID)
	for _, loc := range m.CallStack {
		fmt.Fprintf(h, "%s:%d:%d\n", loc.File, loc.Line, loc.Col)
	}
	fmt.Fprintf(h, "%s\n", m.Message)
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Store is a baseline of fingerprints seen in prior runs, backed by a
// SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a fingerprint store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS fingerprints (
		hash TEXT PRIMARY KEY,
		first_seen_run TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("fingerprint: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Seen reports whether fp was already recorded by an earlier run.
func (s *Store) Seen(fp Fingerprint) (bool, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM fingerprints WHERE hash = ?`, string(fp)).Scan(&hash)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// Record persists fp as having been observed during runID, if not already
// present (first-seen wins).
func (s *Store) Record(fp Fingerprint, runID string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO fingerprints (hash, first_seen_run) VALUES (?, ?)`, string(fp), runID)
	return err
}

// NewFindings filters msgs down to those whose fingerprint is not yet in
// the store, recording every fingerprint (new or not) under runID so the
// next invocation sees a complete baseline.
func (s *Store) NewFindings(msgs []diag.Message, runID string) ([]diag.Message, error) {
	var fresh []diag.Message
	for _, m := range msgs {
		fp := Compute(m)
		seen, err := s.Seen(fp)
		if err != nil {
			return nil, err
		}
		if !seen {
			fresh = append(fresh, m)
		}
		if err := s.Record(fp, runID); err != nil {
			return nil, err
		}
	}
	return fresh, nil
}
