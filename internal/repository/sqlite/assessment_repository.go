package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"careerai/internal/domain"
	"careerai/internal/repository"
)

const (
	createResultsTable = `
CREATE TABLE IF NOT EXISTS results (
	username TEXT,
	career TEXT,
	logical INTEGER,
	coding INTEGER,
	communication INTEGER,
	creativity INTEGER,
	timestamp TEXT
);
`
	createResultsIndex = `
CREATE INDEX IF NOT EXISTS idx_results_username_timestamp ON results (username, timestamp);
`
)

// legacyTimestampLayout is the minute-precision form found in databases
// created before timestamps carried seconds.
const legacyTimestampLayout = "2006-01-02 15:04"

type AssessmentRepository struct {
	db *sql.DB
}

func NewAssessmentRepository(db *sql.DB) repository.AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createResultsTable); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createResultsIndex); err != nil {
		return fmt.Errorf("create results index: %w", err)
	}
	return nil
}

func (r *AssessmentRepository) Append(ctx context.Context, record *domain.AssessmentRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO results (username, career, logical, coding, communication, creativity, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Username,
		record.PredictedCareer,
		record.Logical,
		record.Coding,
		record.Communication,
		record.Creativity,
		record.Timestamp.UTC().Format(domain.TimestampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *AssessmentRepository) ListByUser(ctx context.Context, username string) ([]domain.AssessmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT username, career, logical, coding, communication, creativity, timestamp
FROM results
WHERE username = ?
ORDER BY timestamp DESC, rowid DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	records := []domain.AssessmentRecord{}
	for rows.Next() {
		var (
			rec domain.AssessmentRecord
			ts  string
		)
		if err := rows.Scan(
			&rec.Username,
			&rec.PredictedCareer,
			&rec.Logical,
			&rec.Coding,
			&rec.Communication,
			&rec.Creativity,
			&ts,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Timestamp, err = parseTimestamp(ts)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

// legacyLocation is the zone of minute-precision rows, which were written
// in the server's local time.
var legacyLocation = time.Local

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.TimestampLayout, value, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(legacyTimestampLayout, value, legacyLocation); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("parse result timestamp %q", value)
}
