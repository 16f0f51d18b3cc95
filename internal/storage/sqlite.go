package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meltforce/barload/internal/models"
	_ "modernc.org/sqlite"
)

// SQLite is a single-file history store for deployments without PostgreSQL.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS load_history (
		id            TEXT PRIMARY KEY,
		created_at    INTEGER NOT NULL,
		login         TEXT NOT NULL,
		target_kg     REAL NOT NULL,
		barbell       TEXT NOT NULL,
		barbell_kg    REAL NOT NULL,
		collar        INTEGER NOT NULL DEFAULT 0,
		plates        TEXT NOT NULL DEFAULT '[]',
		status        TEXT NOT NULL,
		error_message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_load_history_login_created
		ON load_history (login, created_at DESC)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// RecordLoad inserts one history row.
func (s *SQLite) RecordLoad(ctx context.Context, rec models.LoadRecord) error {
	plates := rec.Plates
	if plates == nil {
		plates = []float64{}
	}
	platesJSON, err := json.Marshal(plates)
	if err != nil {
		return fmt.Errorf("encoding plates: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO load_history (id, created_at, login, target_kg, barbell, barbell_kg,
		 collar, plates, status, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.CreatedAt.UnixMilli(), rec.User, rec.TargetKg, rec.Barbell, rec.BarbellKg,
		rec.Collar, string(platesJSON), rec.Status, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting load record: %w", err)
	}
	return nil
}

// RecentLoads returns the most recent loads for a user, newest first.
func (s *SQLite) RecentLoads(ctx context.Context, user string, limit int) ([]models.LoadRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, login, target_kg, barbell, barbell_kg, collar, plates, status, error_message
		 FROM load_history
		 WHERE login = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		user, limit)
	if err != nil {
		return nil, fmt.Errorf("querying load history: %w", err)
	}
	defer rows.Close()

	var result []models.LoadRecord
	for rows.Next() {
		var (
			r          models.LoadRecord
			createdAt  int64
			platesJSON string
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.User, &r.TargetKg, &r.Barbell, &r.BarbellKg,
			&r.Collar, &platesJSON, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning load record: %w", err)
		}
		if err := json.Unmarshal([]byte(platesJSON), &r.Plates); err != nil {
			return nil, fmt.Errorf("decoding plates for %s: %w", r.ID, err)
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

// ClearHistory deletes all loads for a user and returns how many were removed.
func (s *SQLite) ClearHistory(ctx context.Context, user string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM load_history WHERE login = ?`, user)
	if err != nil {
		return 0, fmt.Errorf("clearing load history: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns aggregate counts over a user's history.
func (s *SQLite) Stats(ctx context.Context, user string) (*LoadStats, error) {
	stats := &LoadStats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'infeasible' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = 'invalid' THEN 1 ELSE 0 END), 0),
		        MAX(CASE WHEN status = 'ok' THEN target_kg END)
		 FROM load_history WHERE login = ?`, user,
	).Scan(&stats.Total, &stats.OK, &stats.Infeasible, &stats.Invalid, &stats.HeaviestKg)
	if err != nil {
		return nil, fmt.Errorf("counting loads: %w", err)
	}

	var bar string
	err = s.db.QueryRowContext(ctx,
		`SELECT barbell FROM load_history
		 WHERE login = ? AND status = 'ok'
		 GROUP BY barbell
		 ORDER BY COUNT(*) DESC, barbell
		 LIMIT 1`, user,
	).Scan(&bar)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("querying favorite barbell: %w", err)
	default:
		stats.FavoriteBar = &bar
	}

	return stats, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
