// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/errors"

	"github.com/google/uuid"
)

// ErrCriterionNotFound is returned when a criterion is not found.
var ErrCriterionNotFound = errors.New("criterion not found")

// CriterionRepository defines read access to saved searches plus the single
// mutation the pipeline owns: advancing the last-checked timestamp.
type CriterionRepository interface {
	// ListActive retrieves every active criterion.
	ListActive(ctx context.Context) ([]*entity.Criterion, error)

	// ListByBatch retrieves the member criteria of one batch.
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Criterion, error)

	// UpdateLastChecked advances a criterion's last-checked timestamp.
	UpdateLastChecked(ctx context.Context, id uuid.UUID, checkedAt time.Time) error
}
