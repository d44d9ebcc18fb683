package postgres

import (
	"context"

	"leaseradar/internal/domain/repository"
	"leaseradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seenRepository implements the repository.SeenRepository interface.
type seenRepository struct {
	db *gorm.DB
}

// NewSeenRepository is the constructor for seenRepository.
func NewSeenRepository(db *gorm.DB) repository.SeenRepository {
	return &seenRepository{
		db: db,
	}
}

// FilterNew returns the subset of listingIDs with no seen record for the
// (user, criterion) pair, preserving input order.
func (repo *seenRepository) FilterNew(ctx context.Context, userID, criterionID uuid.UUID, listingIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}

	var seenIDs []uuid.UUID
	if err := repo.db.WithContext(ctx).
		Model(&model.SeenRecordModel{}).
		Where("user_id = ?", userID).
		Where("criterion_id = ?", criterionID).
		Where("listing_id IN ?", listingIDs).
		Pluck("listing_id", &seenIDs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query seen records")
	}

	seen := make(map[uuid.UUID]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = struct{}{}
	}

	fresh := make([]uuid.UUID, 0, len(listingIDs))
	for _, id := range listingIDs {
		if _, ok := seen[id]; !ok {
			fresh = append(fresh, id)
		}
	}

	return fresh, nil
}

// MarkSeen inserts seen records for the given listings. Rows that already
// exist are skipped via ON CONFLICT DO NOTHING, never an error.
func (repo *seenRepository) MarkSeen(ctx context.Context, userID, criterionID uuid.UUID, listingIDs []uuid.UUID) error {
	if len(listingIDs) == 0 {
		return nil
	}

	records := make([]*model.SeenRecordModel, 0, len(listingIDs))
	for _, listingID := range listingIDs {
		records = append(records, &model.SeenRecordModel{
			UserID:      userID,
			CriterionID: criterionID,
			ListingID:   listingID,
		})
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return nil
		}

		return errors.Wrap(err, "failed to create seen records")
	}

	return nil
}
