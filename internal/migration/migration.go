package migration

import (
	"context"

	"gazecenter/internal/errors"

	"github.com/jmoiron/sqlx"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSummariesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create gaze_summaries table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createSummariesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS gaze_summaries (
			id UUID PRIMARY KEY,
			scope VARCHAR(20) NOT NULL,
			label TEXT NOT NULL,
			radius_deg DOUBLE PRECISION NOT NULL,
			radius_px DOUBLE PRECISION NOT NULL,
			total INTEGER NOT NULL,
			inside INTEGER NOT NULL,
			outside INTEGER NOT NULL,
			inside_ratio DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_gaze_summaries_created_at ON gaze_summaries (created_at DESC)
	`)
	return err
}
