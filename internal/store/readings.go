package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"paneld/internal/sensors"
)

var ErrQuery = errors.New("reading query failed")

// Readings wraps the sensor log table.
type Readings struct {
	db *sql.DB
}

func NewReadings(db *sql.DB) *Readings {
	return &Readings{db: db}
}

// Insert appends one sample to the log.
func (r *Readings) Insert(ctx context.Context, sample sensors.Sample) error {
	const query = `
		INSERT INTO readings (taken_at, cpu_percent, mem_percent, temp_c, battery_pct, battery_volt, uptime_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query,
		sample.At.Unix(), sample.CPUPercent, sample.MemPercent,
		sample.TempC, sample.BatteryPct, sample.BatteryVolt, sample.Uptime); err != nil {
		return errors.Join(err, ErrQuery)
	}

	return nil
}

// Recent returns the newest samples, oldest first.
func (r *Readings) Recent(ctx context.Context, limit int) ([]sensors.Sample, error) {
	const query = `
		SELECT taken_at, cpu_percent, mem_percent, temp_c, battery_pct, battery_volt, uptime_sec
		FROM readings
		ORDER BY taken_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Join(err, ErrQuery)
	}
	defer rows.Close()

	var out []sensors.Sample
	for rows.Next() {
		var (
			sample  sensors.Sample
			takenAt int64
		)
		if err := rows.Scan(&takenAt, &sample.CPUPercent, &sample.MemPercent,
			&sample.TempC, &sample.BatteryPct, &sample.BatteryVolt, &sample.Uptime); err != nil {
			return nil, errors.Join(err, ErrQuery)
		}
		sample.At = time.Unix(takenAt, 0)
		out = append(out, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(err, ErrQuery)
	}

	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out, nil
}

// Prune drops everything older than the cutoff so the log cannot grow
// without bound on flash storage.
func (r *Readings) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM readings WHERE taken_at < ?`, olderThan.Unix())
	if err != nil {
		return 0, errors.Join(err, ErrQuery)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Join(err, ErrQuery)
	}

	return affected, nil
}
