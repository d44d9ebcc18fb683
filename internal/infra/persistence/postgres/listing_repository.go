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

// listingRepository implements the repository.ListingRepository interface.
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository is the constructor for listingRepository.
func NewListingRepository(db *gorm.DB) repository.ListingRepository {
	return &listingRepository{
		db: db,
	}
}

// UpsertBatch inserts or refreshes listings keyed by upstream source ID, then
// returns the full stored rows so callers see enrichment fields persisted by
// earlier cycles.
func (repo *listingRepository) UpsertBatch(ctx context.Context, listings []*entity.Listing, now time.Time) ([]*entity.Listing, error) {
	if len(listings) == 0 {
		return nil, nil
	}

	listingModels := make([]*model.ListingModel, 0, len(listings))
	sourceIDs := make([]string, 0, len(listings))
	for _, listing := range listings {
		listingM := fromListingDomain(listing)
		listingM.FirstSeenAt = now
		listingM.LastSeenAt = now
		listingM.IsActive = true
		listingModels = append(listingModels, listingM)
		sourceIDs = append(sourceIDs, listing.SourceID)
	}

	// Conflicting rows keep their first-seen timestamp and enrichment data;
	// only the listing facts and liveness fields are refreshed.
	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price", "bedrooms", "bathrooms", "no_fee", "address",
				"neighborhood", "latitude", "longitude", "url",
				"last_seen_at", "is_active",
			}),
		}).
		Create(&listingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to upsert listings")
	}

	var storedModels []*model.ListingModel
	if err := repo.db.WithContext(ctx).
		Where("source_id IN ?", sourceIDs).
		Find(&storedModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to reload upserted listings")
	}

	stored := make([]*entity.Listing, 0, len(storedModels))
	for _, listingM := range storedModels {
		stored = append(stored, toListingDomain(listingM))
	}

	return stored, nil
}

// UpdateStabilization writes back one enrichment result.
func (repo *listingRepository) UpdateStabilization(ctx context.Context, id uuid.UUID, status entity.StabilizationStatus, probability float64, source string, checkedAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stabilization_status":      string(status),
			"stabilization_probability": probability,
			"stabilization_source":      source,
			"stabilization_checked_at":  checkedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update stabilization fields")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// MarkInactiveOlderThan deactivates listings not re-seen since the cutoff.
func (repo *listingRepository) MarkInactiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Where("is_active = ?", true).
		Where("last_seen_at < ?", cutoff).
		Update("is_active", false)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to mark stale listings inactive")
	}

	return result.RowsAffected, nil
}

func fromListingDomain(listing *entity.Listing) *model.ListingModel {
	return &model.ListingModel{
		ID:           listing.ID,
		SourceID:     listing.SourceID,
		Price:        listing.Price,
		Bedrooms:     listing.Bedrooms,
		Bathrooms:    listing.Bathrooms,
		NoFee:        listing.NoFee,
		Address:      listing.Address,
		Neighborhood: listing.Neighborhood,
		Latitude:     listing.Latitude,
		Longitude:    listing.Longitude,
		URL:          listing.URL,

		StabilizationStatus:      string(listing.StabilizationStatus),
		StabilizationProbability: listing.StabilizationProbability,
		StabilizationSource:      listing.StabilizationSource,
		StabilizationCheckedAt:   listing.StabilizationCheckedAt,

		FirstSeenAt: listing.FirstSeenAt,
		LastSeenAt:  listing.LastSeenAt,
		IsActive:    listing.IsActive,
	}
}

func toListingDomain(listingM *model.ListingModel) *entity.Listing {
	return &entity.Listing{
		ID:           listingM.ID,
		SourceID:     listingM.SourceID,
		Price:        listingM.Price,
		Bedrooms:     listingM.Bedrooms,
		Bathrooms:    listingM.Bathrooms,
		NoFee:        listingM.NoFee,
		Address:      listingM.Address,
		Neighborhood: listingM.Neighborhood,
		Latitude:     listingM.Latitude,
		Longitude:    listingM.Longitude,
		URL:          listingM.URL,

		StabilizationStatus:      entity.StabilizationStatus(listingM.StabilizationStatus),
		StabilizationProbability: listingM.StabilizationProbability,
		StabilizationSource:      listingM.StabilizationSource,
		StabilizationCheckedAt:   listingM.StabilizationCheckedAt,

		FirstSeenAt: listingM.FirstSeenAt,
		LastSeenAt:  listingM.LastSeenAt,
		IsActive:    listingM.IsActive,
	}
}
