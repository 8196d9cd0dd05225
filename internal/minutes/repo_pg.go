package minutes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements RunRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const runColumns = `id, action, status, file_name, declared_type, detected_type, source_sha256,
       source_bytes, transcript_chars, output_bytes, archive_key, error_code, duration_ms, created_at`

// Create inserts a run.
func (r *PGRepo) Create(ctx context.Context, run Run) error {
	const query = `
INSERT INTO minutes_runs (
	id, action, status, file_name, declared_type, detected_type, source_sha256,
	source_bytes, transcript_chars, output_bytes, archive_key, error_code, duration_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.ExecContext(ctx, query,
		run.ID,
		string(run.Action),
		run.Status,
		run.FileName,
		run.DeclaredType,
		run.DetectedType,
		run.SourceSHA256,
		run.SourceBytes,
		run.TranscriptChars,
		run.OutputBytes,
		nullString(run.ArchiveKey),
		nullString(run.ErrorCode),
		float64(run.Duration.Microseconds())/1000.0,
		run.CreatedAt,
	)
	return err
}

// GetByID returns a run by ID.
func (r *PGRepo) GetByID(ctx context.Context, runID string) (Run, error) {
	query := `SELECT ` + runColumns + ` FROM minutes_runs WHERE id = $1 LIMIT 1`
	run, err := scanRun(r.DB.QueryRowContext(ctx, query, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, ErrNotFound
		}
		return Run{}, err
	}
	return run, nil
}

// List returns runs newest first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM minutes_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]Run, 0, max(limit, 0))
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		action     string
		archiveKey sql.NullString
		errorCode  sql.NullString
		durationMs float64
	)
	err := row.Scan(
		&run.ID,
		&action,
		&run.Status,
		&run.FileName,
		&run.DeclaredType,
		&run.DetectedType,
		&run.SourceSHA256,
		&run.SourceBytes,
		&run.TranscriptChars,
		&run.OutputBytes,
		&archiveKey,
		&errorCode,
		&durationMs,
		&run.CreatedAt,
	)
	if err != nil {
		return Run{}, err
	}
	run.Action = Action(action)
	run.ArchiveKey = archiveKey.String
	run.ErrorCode = errorCode.String
	run.Duration = time.Duration(durationMs * float64(time.Millisecond))
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
