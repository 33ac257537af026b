package calendar

import (
	"context"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy:
// the primary source is tried first, the fallback only when it fails.
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Fetch returns the primary dataset, or the fallback one when the primary fails
func (cs *CompositeSource) Fetch(ctx context.Context) (*Dataset, error) {
	ds, err := cs.primary.Fetch(ctx)
	if err == nil {
		return ds, nil
	}

	cs.logger.Warn("Primary holiday source failed, falling back",
		zap.Error(err))

	return cs.fallback.Fetch(ctx)
}
