package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoLogPrefix = "db:repository"

// Repository provides database access for the dispatch audit log.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertDispatchParams holds parameters for InsertDispatch.
type InsertDispatchParams struct {
	Command       string
	Skill         string
	Category      string
	Status        string
	Confidence    float64
	ErrorKind     string
	ErrorField    string
	Message       string
	ExecutionTime float64
}

// InsertDispatch records one dispatch outcome.
func (r *Repository) InsertDispatch(ctx context.Context, params InsertDispatchParams) (*DispatchRecord, error) {
	slog.Debug(fmt.Sprintf("%s - InsertDispatch skill=%s status=%s", repoLogPrefix, params.Skill, params.Status))

	row := r.pool.QueryRow(ctx,
		`INSERT INTO dispatches (command, skill, category, status, confidence, error_kind, error_field, message, execution_time, created)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
		 RETURNING id, command, skill, category, status, confidence, error_kind, error_field, message, execution_time, created`,
		params.Command, params.Skill, params.Category, params.Status, params.Confidence,
		params.ErrorKind, params.ErrorField, params.Message, params.ExecutionTime, time.Now().UTC())

	return scanDispatch(row)
}

// ListRecent returns the most recent dispatch records, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]DispatchRecord, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, command, skill, category, status, confidence, error_kind, error_field, message, execution_time, created
		 FROM dispatches
		 ORDER BY created DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s - ListRecent query failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var out []DispatchRecord
	for rows.Next() {
		rec, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// CountByStatus summarizes the audit log by envelope status.
func (r *Repository) CountByStatus(ctx context.Context) (*StatusCounts, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM dispatches GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("%s - CountByStatus query failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	counts := &StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("%s - CountByStatus scan failed: %w", repoLogPrefix, err)
		}
		switch status {
		case "success":
			counts.Success = n
		case "error":
			counts.Error = n
		}
	}
	return counts, rows.Err()
}

// Ping verifies database connectivity for health checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanDispatch(row pgx.Row) (*DispatchRecord, error) {
	var rec DispatchRecord
	err := row.Scan(&rec.ID, &rec.Command, &rec.Skill, &rec.Category, &rec.Status, &rec.Confidence,
		&rec.ErrorKind, &rec.ErrorField, &rec.Message, &rec.ExecutionTime, &rec.Created)
	if err != nil {
		return nil, fmt.Errorf("%s - scan failed: %w", repoLogPrefix, err)
	}
	return &rec, nil
}
