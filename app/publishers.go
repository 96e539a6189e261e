package app

import (
	"context"
	stderrors "errors"

	"gazecenter/ports"
)

// Publishers fans a summary out to several publishers. Every publisher is
// tried; the joined errors are returned.
type Publishers []ports.SummaryPublisher

func (p Publishers) Publish(ctx context.Context, record ports.SummaryRecord) error {
	var errs []error
	for _, pub := range p {
		if err := pub.Publish(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (p Publishers) Close() {
	for _, pub := range p {
		pub.Close()
	}
}
