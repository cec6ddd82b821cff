package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraverde/terraverde-api/internal/reports/domain"
)

func setupArchive(t *testing.T) (*SQLArchive, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewSQLArchive(db), mock, db
}

func TestSQLArchive_EnsureSchema(t *testing.T) {
	archive, mock, db := setupArchive(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS report_runs`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, archive.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLArchive_Record(t *testing.T) {
	archive, mock, db := setupArchive(t)
	defer db.Close()
	created := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)

	t.Run("records a run", func(t *testing.T) {
		run := &domain.Run{
			Format:       domain.FormatCSV,
			Filters:      map[string]string{"family": "Felidae"},
			SpeciesCount: 3,
			RequestedBy:  "uid-1",
		}

		mock.ExpectQuery(`INSERT INTO report_runs`).
			WithArgs(
				sqlmock.AnyArg(), // id (UUID)
				"csv",
				[]byte(`{"family":"Felidae"}`),
				3,
				sql.NullString{String: "uid-1", Valid: true},
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

		require.NoError(t, archive.Record(context.Background(), run))
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, created, run.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous run without filters", func(t *testing.T) {
		run := &domain.Run{Format: domain.FormatXLSX}

		mock.ExpectQuery(`INSERT INTO report_runs`).
			WithArgs(sqlmock.AnyArg(), "xlsx", []byte(`{}`), 0, sql.NullString{}).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

		require.NoError(t, archive.Record(context.Background(), run))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO report_runs`).WillReturnError(errors.New("connection reset"))

		err := archive.Record(context.Background(), &domain.Run{Format: domain.FormatCSV})
		assert.ErrorContains(t, err, "connection reset")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLArchive_Stats(t *testing.T) {
	archive, mock, db := setupArchive(t)
	defer db.Close()
	since := time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT format, COUNT\(\*\)`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"format", "total", "today"}).
			AddRow("csv", 4, 1).
			AddRow("xlsx", 2, 0))

	st, err := archive.Stats(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Total: 6, Today: 1, ByFormat: map[string]int{"csv": 4, "xlsx": 2}}, st)
	require.NoError(t, mock.ExpectationsWereMet())
}
