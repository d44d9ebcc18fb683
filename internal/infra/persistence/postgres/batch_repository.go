package postgres

import (
	"context"
	"time"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchRepository implements the repository.BatchRepository interface.
type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository is the constructor for batchRepository.
func NewBatchRepository(db *gorm.DB) repository.BatchRepository {
	return &batchRepository{
		db: db,
	}
}

// ListAll retrieves every stored batch.
func (repo *batchRepository) ListAll(ctx context.Context) ([]*entity.Batch, error) {
	var batchModels []*model.BatchModel

	if err := repo.db.WithContext(ctx).
		Order("area_key ASC").
		Find(&batchModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list batches")
	}

	batches := make([]*entity.Batch, 0, len(batchModels))
	for _, batchM := range batchModels {
		batches = append(batches, toBatchDomain(batchM))
	}

	return batches, nil
}

// UpsertByHash inserts the batch or refreshes the existing row carrying the
// same content hash. The entity picks up the stored row's ID either way.
func (repo *batchRepository) UpsertByHash(ctx context.Context, batch *entity.Batch) error {
	batchM := fromBatchDomain(batch)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "hash"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"area_key", "min_price", "max_price", "min_beds", "max_beds",
				"min_baths", "no_fee", "member_count", "updated_at",
			}),
		}).
		Create(batchM).Error; err != nil {
		return errors.Wrap(err, "failed to upsert batch")
	}

	// The conflict path keeps the existing primary key, so read it back by
	// hash rather than trusting the in-memory model.
	var stored model.BatchModel
	if err := repo.db.WithContext(ctx).
		Where("hash = ?", batch.Hash).
		First(&stored).Error; err != nil {
		return errors.Wrap(err, "failed to reload upserted batch")
	}

	batch.ID = stored.ID
	batch.LastFetchedAt = stored.LastFetchedAt
	batch.CreatedAt = stored.CreatedAt
	batch.UpdatedAt = stored.UpdatedAt

	return nil
}

// ReplaceMemberships swaps the full membership set of one batch.
func (repo *batchRepository) ReplaceMemberships(ctx context.Context, batchID uuid.UUID, criterionIDs []uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Delete(&model.BatchMembershipModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to clear batch memberships")
	}

	if len(criterionIDs) == 0 {
		return nil
	}

	memberships := make([]*model.BatchMembershipModel, 0, len(criterionIDs))
	for _, criterionID := range criterionIDs {
		memberships = append(memberships, &model.BatchMembershipModel{
			BatchID:     batchID,
			CriterionID: criterionID,
		})
	}

	if err := repo.db.WithContext(ctx).Create(&memberships).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCriterionNotFound
		}

		return errors.Wrap(err, "failed to create batch memberships")
	}

	return nil
}

// DeleteWhereHashNotIn removes batches whose hash is absent from the given
// set, memberships included. An empty set purges everything.
func (repo *batchRepository) DeleteWhereHashNotIn(ctx context.Context, hashes []string) error {
	var staleIDs []uuid.UUID

	query := repo.db.WithContext(ctx).
		Model(&model.BatchModel{})
	if len(hashes) > 0 {
		query = query.Where("hash NOT IN ?", hashes)
	}
	if err := query.Pluck("id", &staleIDs).Error; err != nil {
		return errors.Wrap(err, "failed to find stale batches")
	}

	if len(staleIDs) == 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).
		Where("batch_id IN ?", staleIDs).
		Delete(&model.BatchMembershipModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete stale batch memberships")
	}

	if err := repo.db.WithContext(ctx).
		Where("id IN ?", staleIDs).
		Delete(&model.BatchModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete stale batches")
	}

	return nil
}

// UpdateLastFetched records a successful upstream fetch for the batch.
func (repo *batchRepository) UpdateLastFetched(ctx context.Context, id uuid.UUID, fetchedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BatchModel{}).
		Where("id = ?", id).
		Update("last_fetched_at", fetchedAt)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update last-fetched timestamp")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBatchNotFound
	}

	return nil
}

func fromBatchDomain(batch *entity.Batch) *model.BatchModel {
	return &model.BatchModel{
		ID:            batch.ID,
		Hash:          batch.Hash,
		AreaKey:       batch.AreaKey,
		MinPrice:      batch.MinPrice,
		MaxPrice:      batch.MaxPrice,
		MinBeds:       batch.MinBeds,
		MaxBeds:       batch.MaxBeds,
		MinBaths:      batch.MinBaths,
		NoFee:         batch.NoFee,
		MemberCount:   batch.MemberCount,
		LastFetchedAt: batch.LastFetchedAt,
	}
}

func toBatchDomain(batchM *model.BatchModel) *entity.Batch {
	return &entity.Batch{
		ID:            batchM.ID,
		Hash:          batchM.Hash,
		AreaKey:       batchM.AreaKey,
		MinPrice:      batchM.MinPrice,
		MaxPrice:      batchM.MaxPrice,
		MinBeds:       batchM.MinBeds,
		MaxBeds:       batchM.MaxBeds,
		MinBaths:      batchM.MinBaths,
		NoFee:         batchM.NoFee,
		MemberCount:   batchM.MemberCount,
		LastFetchedAt: batchM.LastFetchedAt,
		CreatedAt:     batchM.CreatedAt,
		UpdatedAt:     batchM.UpdatedAt,
	}
}
