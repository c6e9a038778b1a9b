package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glm-tools/glm-usage-tui/internal/models"
)

// Sample is one recorded observation of a quota limit.
type Sample struct {
	ID         int64
	Timestamp  time.Time
	LimitType  string
	Percentage *float64
	Usage      *int64
}

const timeFormat = "2006-01-02 15:04:05"

// InsertSnapshot records one sample row per limit in the snapshot.
func (db *DB) InsertSnapshot(snap *models.QuotaSnapshot, at time.Time) error {
	if snap == nil || len(snap.Limits) == 0 {
		return nil
	}
	if at.IsZero() {
		at = time.Now()
	}

	query := `
		INSERT INTO quota_samples (timestamp, limit_type, percentage, usage)
		VALUES (?, ?, ?, ?)
	`

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i := range snap.Limits {
		l := &snap.Limits[i]
		if _, err := tx.ExecContext(context.Background(), query,
			at.UTC().Format(timeFormat),
			l.Type,
			nullFloat(l.Percentage),
			nullInt(l.Usage),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	return tx.Commit()
}

// RecentSamples returns samples for one limit type within the given window,
// oldest first.
func (db *DB) RecentSamples(limitType string, window time.Duration) ([]Sample, error) {
	query := `
		SELECT id, timestamp, limit_type, percentage, usage
		FROM quota_samples
		WHERE limit_type = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`

	since := time.Now().Add(-window).UTC().Format(timeFormat)
	rows, err := db.QueryContext(context.Background(), query, limitType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSamples(rows)
}

// LimitTypes returns the distinct limit types seen so far, alphabetically.
func (db *DB) LimitTypes() ([]string, error) {
	rows, err := db.QueryContext(context.Background(),
		`SELECT DISTINCT limit_type FROM quota_samples ORDER BY limit_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to query limit types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan limit type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Prune deletes samples older than the retention window.
func (db *DB) Prune(retention time.Duration) error {
	cutoff := time.Now().Add(-retention).UTC().Format(timeFormat)
	if _, err := db.ExecContext(context.Background(),
		`DELETE FROM quota_samples WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("failed to prune samples: %w", err)
	}
	return nil
}

func scanSamples(rows *sql.Rows) ([]Sample, error) {
	var samples []Sample
	for rows.Next() {
		var s Sample
		var ts string
		var pct sql.NullFloat64
		var usage sql.NullInt64

		if err := rows.Scan(&s.ID, &ts, &s.LimitType, &pct, &usage); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}

		if t, err := time.ParseInLocation(timeFormat, ts, time.UTC); err == nil {
			s.Timestamp = t
		}
		if pct.Valid {
			v := pct.Float64
			s.Percentage = &v
		}
		if usage.Valid {
			v := usage.Int64
			s.Usage = &v
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
