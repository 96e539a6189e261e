package memory

import (
	"context"
	"sync"

	"gazecenter/ports"
)

// summaryRepository keeps a bounded in-process history. It is used when no
// database is configured.
type summaryRepository struct {
	mu       sync.RWMutex
	records  []ports.SummaryRecord
	capacity int
}

// NewSummaryRepository creates a repository holding at most capacity records
func NewSummaryRepository(capacity int) ports.SummaryRepository {
	if capacity < 1 {
		capacity = 1
	}
	return &summaryRepository{capacity: capacity}
}

func (r *summaryRepository) Save(ctx context.Context, record ports.SummaryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	if over := len(r.records) - r.capacity; over > 0 {
		r.records = append(r.records[:0:0], r.records[over:]...)
	}
	return nil
}

func (r *summaryRepository) Recent(ctx context.Context, limit int) ([]ports.SummaryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]ports.SummaryRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}
