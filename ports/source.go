package ports

import (
	"context"
	"io"

	"gazecenter/domain/core"
)

// ParticipantSource lists and opens raw participant recordings. Sources are
// read-only from this system's point of view.
type ParticipantSource interface {
	// List returns participant IDs in a stable order. Aggregates concatenate
	// datasets in exactly this order.
	List(ctx context.Context) ([]core.ParticipantID, error)

	// Open returns the raw recording for one participant. A missing
	// participant yields a NOT_FOUND error.
	Open(ctx context.Context, id core.ParticipantID) (io.ReadCloser, error)

	// Describe names the source for logs and reports
	Describe() string
}
