package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/barload/internal/models"
)

// LoadStats summarizes a user's load history.
type LoadStats struct {
	Total       int64    `json:"total"`
	OK          int64    `json:"ok"`
	Infeasible  int64    `json:"infeasible"`
	Invalid     int64    `json:"invalid"`
	HeaviestKg  *float64 `json:"heaviest_kg"`
	FavoriteBar *string  `json:"favorite_barbell"`
}

// RecordLoad inserts one history row.
func (db *DB) RecordLoad(ctx context.Context, rec models.LoadRecord) error {
	// pgx sends a nil slice as NULL.
	if rec.Plates == nil {
		rec.Plates = []float64{}
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO load_history (id, created_at, login, target_kg, barbell, barbell_kg,
		 collar, plates, status, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT DO NOTHING`,
		rec.ID, rec.CreatedAt, rec.User, rec.TargetKg, rec.Barbell, rec.BarbellKg,
		rec.Collar, rec.Plates, rec.Status, rec.Error)
	if err != nil {
		return fmt.Errorf("inserting load record: %w", err)
	}
	return nil
}

// RecentLoads returns the most recent loads for a user, newest first.
func (db *DB) RecentLoads(ctx context.Context, user string, limit int) ([]models.LoadRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, created_at, login, target_kg, barbell, barbell_kg, collar, plates, status, error_message
		 FROM load_history
		 WHERE login = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		user, limit)
	if err != nil {
		return nil, fmt.Errorf("querying load history: %w", err)
	}
	defer rows.Close()

	var result []models.LoadRecord
	for rows.Next() {
		var r models.LoadRecord
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.User, &r.TargetKg, &r.Barbell, &r.BarbellKg,
			&r.Collar, &r.Plates, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning load record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// ClearHistory deletes all loads for a user and returns how many were removed.
func (db *DB) ClearHistory(ctx context.Context, user string) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM load_history WHERE login = $1`, user)
	if err != nil {
		return 0, fmt.Errorf("clearing load history: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats returns aggregate counts over a user's history.
func (db *DB) Stats(ctx context.Context, user string) (*LoadStats, error) {
	stats := &LoadStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'ok'),
		        COUNT(*) FILTER (WHERE status = 'infeasible'),
		        COUNT(*) FILTER (WHERE status = 'invalid'),
		        MAX(target_kg) FILTER (WHERE status = 'ok')
		 FROM load_history WHERE login = $1`, user,
	).Scan(&stats.Total, &stats.OK, &stats.Infeasible, &stats.Invalid, &stats.HeaviestKg)
	if err != nil {
		return nil, fmt.Errorf("counting loads: %w", err)
	}

	var bar string
	err = db.Pool.QueryRow(ctx,
		`SELECT barbell FROM load_history
		 WHERE login = $1 AND status = 'ok'
		 GROUP BY barbell
		 ORDER BY COUNT(*) DESC, barbell
		 LIMIT 1`, user,
	).Scan(&bar)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("querying favorite barbell: %w", err)
	}
	if err == nil {
		stats.FavoriteBar = &bar
	}

	return stats, nil
}
