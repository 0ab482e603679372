package selarchive

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bmc-redfish/internal/snapshot"
)

// Repository persists SEL entries beyond the firmware's wrap-around
// window.
type Repository interface {
	LastArchivedID(ctx context.Context) (int64, error)
	Archive(ctx context.Context, entries []snapshot.LogEntry) (int, error)
}

// PostgresRepository stores archived entries in Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository constructs a PostgresRepository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	if db == nil {
		return nil
	}
	return &PostgresRepository{db: db}
}

// LastArchivedID returns the highest archived entry id, 0 when the
// archive is empty.
func (r *PostgresRepository) LastArchivedID(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("selarchive repo: nil db")
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(entry_id), 0) FROM sel_archive`).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Archive inserts entries, skipping ids already present. Returns the
// number of rows written.
func (r *PostgresRepository) Archive(ctx context.Context, entries []snapshot.LogEntry) (int, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("selarchive repo: nil db")
	}
	written := 0
	for _, entry := range entries {
		result, err := r.db.ExecContext(ctx, `
INSERT INTO sel_archive (entry_id, occurred_at, severity, source, message, archived_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (entry_id) DO NOTHING`,
			entry.ID, time.Unix(entry.Timestamp, 0).UTC(), entry.Severity, entry.Source, entry.Message, time.Now().UTC())
		if err != nil {
			return written, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return written, err
		}
		written += int(rows)
	}
	return written, nil
}
