package postgres

import (
	"context"
	"strings"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// criterionRepository implements the repository.CriterionRepository interface.
type criterionRepository struct {
	db *gorm.DB
}

// NewCriterionRepository is the constructor for criterionRepository.
func NewCriterionRepository(db *gorm.DB) repository.CriterionRepository {
	return &criterionRepository{
		db: db,
	}
}

// ListActive retrieves every active criterion.
func (repo *criterionRepository) ListActive(ctx context.Context) ([]*entity.Criterion, error) {
	var criterionModels []*model.CriterionModel

	if err := repo.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&criterionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active criteria")
	}

	return toCriterionDomains(criterionModels), nil
}

// ListByBatch retrieves the member criteria of one batch via the membership
// join table.
func (repo *criterionRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*entity.Criterion, error) {
	var criterionModels []*model.CriterionModel

	if err := repo.db.WithContext(ctx).
		Joins("JOIN batch_memberships ON batch_memberships.criterion_id = criteria.id").
		Where("batch_memberships.batch_id = ?", batchID).
		Where("criteria.is_active = ?", true).
		Find(&criterionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list criteria by batch")
	}

	return toCriterionDomains(criterionModels), nil
}

// UpdateLastChecked advances a criterion's last-checked timestamp.
func (repo *criterionRepository) UpdateLastChecked(ctx context.Context, id uuid.UUID, checkedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CriterionModel{}).
		Where("id = ?", id).
		Update("last_checked_at", checkedAt)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update last-checked timestamp")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCriterionNotFound
	}

	return nil
}

func toCriterionDomains(criterionModels []*model.CriterionModel) []*entity.Criterion {
	criteria := make([]*entity.Criterion, 0, len(criterionModels))
	for _, criterionM := range criterionModels {
		criteria = append(criteria, toCriterionDomain(criterionM))
	}

	return criteria
}

func toCriterionDomain(criterionM *model.CriterionModel) *entity.Criterion {
	var areas []string
	if criterionM.Areas != "" {
		areas = strings.Split(criterionM.Areas, ",")
	}

	return &entity.Criterion{
		ID:             criterionM.ID,
		OwnerID:        criterionM.OwnerID,
		Name:           criterionM.Name,
		Areas:          areas,
		MinPrice:       criterionM.MinPrice,
		MaxPrice:       criterionM.MaxPrice,
		MinBeds:        criterionM.MinBeds,
		MaxBeds:        criterionM.MaxBeds,
		MinBaths:       criterionM.MinBaths,
		NoFee:          criterionM.NoFee,
		StabilizedOnly: criterionM.StabilizedOnly,
		NotifySMS:      criterionM.NotifySMS,
		NotifyEmail:    criterionM.NotifyEmail,
		NotifyInApp:    criterionM.NotifyInApp,
		Tier:           entity.Tier(criterionM.Tier),
		IsActive:       criterionM.IsActive,
		LastCheckedAt:  criterionM.LastCheckedAt,
		CreatedAt:      criterionM.CreatedAt,
		UpdatedAt:      criterionM.UpdatedAt,
	}
}
