// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists a record of acquired papers in a SQLite index.
package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/esaruoho/papergrab/pkg/types"
)

const dbFile = "papergrab.db"

// Store manages the acquisition index database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index at libraryDir/papergrab.db and creates
// the schema if it does not exist.
func Open(cfg types.LibraryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.LibraryDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.LibraryDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS papers (
		doi TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		date TEXT,
		abstract TEXT,
		source_url TEXT,
		mirror TEXT,
		pdf_path TEXT,
		fetched_at TEXT
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts or replaces the paper's row, keyed by DOI.
func (s *Store) Record(rec *types.PaperRecord) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO papers
		 (doi, title, authors, date, abstract, source_url, mirror, pdf_path, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.DOI,
		rec.Title,
		strings.Join(rec.Authors, "; "),
		timeText(rec.Date),
		rec.Abstract,
		rec.SourceURL,
		rec.Mirror,
		rec.PDFPath,
		timeText(rec.FetchedAt),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.DOI, err)
	}
	return nil
}

// Get returns the record for a DOI, or sql.ErrNoRows when absent.
func (s *Store) Get(doi string) (*types.PaperRecord, error) {
	row := s.db.QueryRow(
		`SELECT doi, title, authors, date, abstract, source_url, mirror, pdf_path, fetched_at
		 FROM papers WHERE doi = ?`, doi)
	return scanRecord(row)
}

// List returns all records ordered by fetch time, newest first.
func (s *Store) List() ([]*types.PaperRecord, error) {
	rows, err := s.db.Query(
		`SELECT doi, title, authors, date, abstract, source_url, mirror, pdf_path, fetched_at
		 FROM papers ORDER BY fetched_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var recs []*types.PaperRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*types.PaperRecord, error) {
	var rec types.PaperRecord
	var authors, date, fetchedAt string
	if err := row.Scan(&rec.DOI, &rec.Title, &authors, &date, &rec.Abstract,
		&rec.SourceURL, &rec.Mirror, &rec.PDFPath, &fetchedAt); err != nil {
		return nil, err
	}
	if authors != "" {
		rec.Authors = strings.Split(authors, "; ")
	}
	rec.Date = parseTimeText(date)
	rec.FetchedAt = parseTimeText(fetchedAt)
	return &rec, nil
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimeText(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
