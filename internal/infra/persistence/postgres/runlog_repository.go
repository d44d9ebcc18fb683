package postgres

import (
	"context"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// runLogRepository implements the repository.RunLogRepository interface.
type runLogRepository struct {
	db *gorm.DB
}

// NewRunLogRepository is the constructor for runLogRepository.
func NewRunLogRepository(db *gorm.DB) repository.RunLogRepository {
	return &runLogRepository{
		db: db,
	}
}

// Create opens a run record in started state.
func (repo *runLogRepository) Create(ctx context.Context, run *entity.RunLog) error {
	runM := &model.RunLogModel{
		Status:    string(run.Status),
		StartedAt: run.StartedAt,
	}

	if err := repo.db.WithContext(ctx).Create(runM).Error; err != nil {
		return errors.Wrap(err, "failed to create run log")
	}

	run.ID = runM.ID

	return nil
}

// Finish closes the run with its terminal status, counts and timestamps.
func (repo *runLogRepository) Finish(ctx context.Context, run *entity.RunLog) error {
	updates := map[string]any{
		"status":                string(run.Status),
		"finished_at":           run.FinishedAt,
		"criteria_checked":      run.CriteriaChecked,
		"batches_fetched":       run.BatchesFetched,
		"listings_found":        run.ListingsFound,
		"notifications_created": run.NotificationsCreated,
		"error_detail":          run.ErrorDetail,
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.RunLogModel{}).
		Where("id = ?", run.ID).
		Updates(updates).Error; err != nil {
		return errors.Wrap(err, "failed to finish run log")
	}

	return nil
}
