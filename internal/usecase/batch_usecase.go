// Package usecase defines the application-service interfaces of the pipeline.
package usecase

import "context"

// ReconcileResult summarizes one batch reconciliation pass.
type ReconcileResult struct {
	Batches int // Batches stored after reconciliation.
	Members int // Criteria covered by those batches.
}

// BatchUsecase keeps stored batch definitions in sync with the active
// criteria set. Reconciliation is idempotent: rerunning it from scratch is
// always safe.
type BatchUsecase interface {
	Reconcile(ctx context.Context) (*ReconcileResult, error)
}
