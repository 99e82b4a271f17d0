package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/paydar/paydar/internal/model"
)

// SQLiteStore persists finished runs in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

var _ model.RunStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the runs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at  TEXT NOT NULL,
		kind        TEXT NOT NULL,
		title       TEXT NOT NULL,
		company     TEXT NOT NULL,
		location    TEXT NOT NULL,
		tier        TEXT NOT NULL,
		requested   INTEGER NOT NULL,
		valid       INTEGER NOT NULL,
		median      REAL NOT NULL,
		percentiles TEXT
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save records one finished run. A zero CreatedAt is stamped with the current
// time.
func (s *SQLiteStore) Save(rec model.RunRecord) error {
	var percentiles sql.NullString
	if rec.Percentiles != nil {
		data, err := json.Marshal(rec.Percentiles)
		if err != nil {
			return fmt.Errorf("encoding percentiles: %w", err)
		}
		percentiles = sql.NullString{String: string(data), Valid: true}
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (created_at, kind, title, company, location, tier, requested, valid, median, percentiles)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt.UTC().Format(time.RFC3339),
		rec.Kind, rec.Title, rec.Company, rec.Location, string(rec.Tier),
		rec.Requested, rec.Valid, rec.Median, percentiles,
	)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(limit int) ([]model.RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, kind, title, company, location, tier, requested, valid, median, percentiles
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var recs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var createdAt, tier string
		var percentiles sql.NullString
		if err := rows.Scan(
			&rec.ID, &createdAt, &rec.Kind, &rec.Title, &rec.Company, &rec.Location,
			&tier, &rec.Requested, &rec.Valid, &rec.Median, &percentiles,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		rec.Tier = model.Tier(tier)
		if percentiles.Valid {
			if err := json.Unmarshal([]byte(percentiles.String), &rec.Percentiles); err != nil {
				return nil, fmt.Errorf("decoding percentiles for run %d: %w", rec.ID, err)
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return recs, nil
}

// Prune deletes runs older than the given duration.
func (s *SQLiteStore) Prune(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UTC().Format(time.RFC3339)
	if _, err := s.db.Exec("DELETE FROM runs WHERE created_at < ?", cutoff); err != nil {
		return fmt.Errorf("pruning runs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
