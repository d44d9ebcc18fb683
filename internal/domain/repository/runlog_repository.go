package repository

import (
	"context"

	"leaseradar/internal/domain/entity"
)

// RunLogRepository is the append-only audit trail of orchestrator cycles.
type RunLogRepository interface {
	// Create opens a run record in started state.
	Create(ctx context.Context, run *entity.RunLog) error

	// Finish closes the run with its terminal status, counts and timestamps.
	Finish(ctx context.Context, run *entity.RunLog) error
}
