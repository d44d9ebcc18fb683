package usecase

import (
	"context"

	"leaseradar/internal/domain/entity"
)

// Orchestrator runs one full pipeline cycle: reconcile batches, fetch and
// upsert listings per batch, gate/match/dedup/fanout per member criterion,
// drain the dispatch queues and close the run log. Per-batch and
// per-criterion failures are isolated; only run-log bookkeeping failures
// escape as errors.
type Orchestrator interface {
	RunCycle(ctx context.Context) (*entity.RunLog, error)
}
