package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gazecenter/internal/errors"
	"gazecenter/ports"
)

// summaryRepository implements ports.SummaryRepository on PostgreSQL
type summaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *sqlx.DB) ports.SummaryRepository {
	return &summaryRepository{db: db}
}

// Save inserts one summary
func (r *summaryRepository) Save(ctx context.Context, record ports.SummaryRecord) error {
	query := `INSERT INTO gaze_summaries (
		id, scope, label, radius_deg, radius_px, total, inside, outside, inside_ratio, created_at
	) VALUES (
		:id, :scope, :label, :radius_deg, :radius_px, :total, :inside, :outside, :inside_ratio, :created_at
	)`

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return errors.DatabaseError("failed to save summary", err)
	}
	return nil
}

// Recent returns the newest summaries first
func (r *summaryRepository) Recent(ctx context.Context, limit int) ([]ports.SummaryRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT
		id, scope, label, radius_deg, radius_px, total, inside, outside, inside_ratio, created_at
	FROM gaze_summaries
	ORDER BY created_at DESC
	LIMIT $1`

	var records []ports.SummaryRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, errors.DatabaseError("failed to list summaries", err)
	}
	return records, nil
}

// Connect opens the database, verifies it and applies migrations
func Connect(ctx context.Context, url string, migrate func(context.Context, *sqlx.DB) error) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, errors.DatabaseError("database migration failed", err)
	}
	return db, nil
}
