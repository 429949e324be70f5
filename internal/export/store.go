// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/opac-connector/pkg/types"
)

// ErrSnapshotNotFound is returned when a snapshot id is unknown.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is a listing saved to the store.
type Snapshot struct {
	ID           int64
	Query        string
	Page         int
	TakenAt      time.Time
	TotalResults int
	Omitted      int
	Warnings     []string
	Records      []types.BibliographicRecord
}

// Store keeps listing snapshots in a SQLite database. Records are shared
// between snapshots and hold their latest assembled form.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// OpenStore opens or creates the snapshot database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			title TEXT,
			author TEXT,
			date_created TEXT,
			detail_url TEXT,
			status TEXT,
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			page INTEGER NOT NULL,
			taken_at TEXT NOT NULL,
			total_results INTEGER,
			omitted INTEGER,
			warnings TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_items (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			record_id TEXT NOT NULL REFERENCES records(id),
			PRIMARY KEY (snapshot_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_items_record ON snapshot_items(record_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveListing stores res as a new snapshot for query and returns its id.
func (s *Store) SaveListing(ctx context.Context, query string, res types.ListingResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	takenAt := s.now().UTC().Format(time.RFC3339)
	warnings, err := json.Marshal(res.Warnings)
	if err != nil {
		return 0, fmt.Errorf("encoding warnings: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (query, page, taken_at, total_results, omitted, warnings)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		query, res.Page, takenAt, res.TotalResults, res.Omitted, string(warnings))
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}

	for i, rec := range res.Items {
		data, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("encoding record %s: %w", rec.RecordID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, title, author, date_created, detail_url, status, data, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   title = excluded.title,
			   author = excluded.author,
			   date_created = excluded.date_created,
			   detail_url = excluded.detail_url,
			   status = excluded.status,
			   data = excluded.data,
			   updated_at = excluded.updated_at`,
			rec.RecordID, rec.Title, rec.Author, rec.DateCreated, rec.DetailURL,
			string(rec.LendingStatus.Kind), string(data), takenAt,
		); err != nil {
			return 0, fmt.Errorf("upserting record %s: %w", rec.RecordID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_items (snapshot_id, position, record_id) VALUES (?, ?, ?)`,
			id, i, rec.RecordID,
		); err != nil {
			return 0, fmt.Errorf("linking record %s: %w", rec.RecordID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}
	return id, nil
}

// Snapshot loads a saved listing with its records in listing order.
func (s *Store) Snapshot(ctx context.Context, id int64) (Snapshot, error) {
	snap := Snapshot{ID: id}
	var takenAt, warnings string
	err := s.db.QueryRowContext(ctx,
		`SELECT query, page, taken_at, total_results, omitted, warnings FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.Query, &snap.Page, &takenAt, &snap.TotalResults, &snap.Omitted, &warnings)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying snapshot: %w", err)
	}
	if snap.TakenAt, err = time.Parse(time.RFC3339, takenAt); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot time: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &snap.Warnings); err != nil {
		return Snapshot{}, fmt.Errorf("decoding warnings: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.data FROM snapshot_items si
		 JOIN records r ON r.id = si.record_id
		 WHERE si.snapshot_id = ?
		 ORDER BY si.position`, id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("querying snapshot records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return Snapshot{}, fmt.Errorf("scanning record: %w", err)
		}
		var rec types.BibliographicRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return Snapshot{}, fmt.Errorf("decoding record: %w", err)
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, rows.Err()
}

// CountRecords returns the number of distinct records stored.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}
