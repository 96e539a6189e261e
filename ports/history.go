package ports

import (
	"context"
	"time"

	"gazecenter/domain/core"
)

// Analysis scopes
const (
	ScopeIndividual = "individual"
	ScopeAggregate  = "aggregate"
)

// SummaryRecord is one completed analysis as kept in the history
type SummaryRecord struct {
	ID          core.AnalysisID `json:"id" db:"id"`
	Scope       string          `json:"scope" db:"scope"`
	Label       string          `json:"label" db:"label"`
	RadiusDeg   float64         `json:"radius_deg" db:"radius_deg"`
	RadiusPx    float64         `json:"radius_px" db:"radius_px"`
	Total       int             `json:"total" db:"total"`
	Inside      int             `json:"inside" db:"inside"`
	Outside     int             `json:"outside" db:"outside"`
	InsideRatio float64         `json:"inside_ratio" db:"inside_ratio"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// SummaryRepository stores analysis summaries
type SummaryRepository interface {
	Save(ctx context.Context, record SummaryRecord) error
	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]SummaryRecord, error)
}

// SummaryPublisher fans completed summaries out to external listeners
type SummaryPublisher interface {
	Publish(ctx context.Context, record SummaryRecord) error
	Close()
}
