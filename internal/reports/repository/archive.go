package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/terraverde/terraverde-api/internal/reports/domain"
)

// Archive records generated reports.
type Archive interface {
	Record(ctx context.Context, run *domain.Run) error
	Stats(ctx context.Context, since time.Time) (domain.Stats, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS report_runs (
	id            UUID PRIMARY KEY,
	format        TEXT NOT NULL,
	filters       JSONB NOT NULL DEFAULT '{}'::jsonb,
	species_count INTEGER NOT NULL DEFAULT 0,
	requested_by  TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// SQLArchive handles PostgreSQL operations for the report_runs table
type SQLArchive struct {
	db *sql.DB
}

func NewSQLArchive(db *sql.DB) *SQLArchive {
	return &SQLArchive{db: db}
}

func (a *SQLArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create report_runs table: %w", err)
	}
	return nil
}

// Record inserts run and fills in its id and creation time.
func (a *SQLArchive) Record(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	filtersJSON, err := json.Marshal(run.Filters)
	if err != nil || run.Filters == nil {
		filtersJSON = []byte("{}")
	}

	var requestedBy sql.NullString
	if run.RequestedBy != "" {
		requestedBy = sql.NullString{String: run.RequestedBy, Valid: true}
	}

	query := `
		INSERT INTO report_runs (id, format, filters, species_count, requested_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err = a.db.QueryRowContext(ctx, query,
		run.ID,
		run.Format,
		filtersJSON,
		run.SpeciesCount,
		requestedBy,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record report run: %w", err)
	}
	return nil
}

// Stats counts runs per format, and those created at or after since.
func (a *SQLArchive) Stats(ctx context.Context, since time.Time) (domain.Stats, error) {
	query := `
		SELECT format, COUNT(*), COUNT(*) FILTER (WHERE created_at >= $1)
		FROM report_runs
		GROUP BY format
		ORDER BY format
	`
	rows, err := a.db.QueryContext(ctx, query, since)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("failed to query report stats: %w", err)
	}
	defer rows.Close()

	st := domain.Stats{ByFormat: map[string]int{}}
	for rows.Next() {
		var (
			format       string
			total, today int
		)
		if err := rows.Scan(&format, &total, &today); err != nil {
			return domain.Stats{}, fmt.Errorf("failed to scan report stats: %w", err)
		}
		st.ByFormat[format] = total
		st.Total += total
		st.Today += today
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, fmt.Errorf("failed to read report stats: %w", err)
	}
	return st, nil
}

// NoopArchive is used when no database is configured.
type NoopArchive struct{}

func (NoopArchive) Record(context.Context, *domain.Run) error { return nil }

func (NoopArchive) Stats(context.Context, time.Time) (domain.Stats, error) {
	return domain.Stats{ByFormat: map[string]int{}}, nil
}
