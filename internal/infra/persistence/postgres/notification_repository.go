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
)

// notificationRepository implements the repository.NotificationRepository interface.
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository is the constructor for notificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// CreateBatch persists new notification records.
func (repo *notificationRepository) CreateBatch(ctx context.Context, records []*entity.NotificationRecord) error {
	if len(records) == 0 {
		return nil
	}

	recordModels := make([]*model.NotificationRecordModel, 0, len(records))
	for _, record := range records {
		recordModels = append(recordModels, fromNotificationDomain(record))
	}

	if err := repo.db.WithContext(ctx).Create(&recordModels).Error; err != nil {
		return errors.Wrap(err, "failed to create notification records")
	}

	return nil
}

// ListPending retrieves up to limit pending records for one channel, oldest
// first.
func (repo *notificationRepository) ListPending(ctx context.Context, channel entity.Channel, limit int) ([]*entity.NotificationRecord, error) {
	var recordModels []*model.NotificationRecordModel

	if err := repo.db.WithContext(ctx).
		Where("channel = ?", string(channel)).
		Where("status = ?", string(entity.NotificationPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&recordModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list pending notifications")
	}

	records := make([]*entity.NotificationRecord, 0, len(recordModels))
	for _, recordM := range recordModels {
		records = append(records, toNotificationDomain(recordM))
	}

	return records, nil
}

// MarkSent transitions a record to sent with the provider's message ID.
func (repo *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID string, sentAt time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationRecordModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              string(entity.NotificationSent),
			"provider_message_id": providerMessageID,
			"sent_at":             sentAt,
			"attempt_count":       gorm.Expr("attempt_count + 1"),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark notification sent")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

// MarkFailed transitions a record to failed with the error message.
func (repo *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.NotificationRecordModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        string(entity.NotificationFailed),
			"error_message": errorMessage,
			"attempt_count": gorm.Expr("attempt_count + 1"),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark notification failed")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}

	return nil
}

func fromNotificationDomain(record *entity.NotificationRecord) *model.NotificationRecordModel {
	return &model.NotificationRecordModel{
		ID:          record.ID,
		UserID:      record.UserID,
		CriterionID: record.CriterionID,
		ListingID:   record.ListingID,
		Channel:     string(record.Channel),
		Status:      string(record.Status),
		Recipient:   record.Recipient,
		Subject:     record.Subject,
		Body:        record.Body,

		ProviderMessageID: record.ProviderMessageID,
		ErrorMessage:      record.ErrorMessage,
		AttemptCount:      record.AttemptCount,
		SentAt:            record.SentAt,
	}
}

func toNotificationDomain(recordM *model.NotificationRecordModel) *entity.NotificationRecord {
	return &entity.NotificationRecord{
		ID:          recordM.ID,
		UserID:      recordM.UserID,
		CriterionID: recordM.CriterionID,
		ListingID:   recordM.ListingID,
		Channel:     entity.Channel(recordM.Channel),
		Status:      entity.NotificationStatus(recordM.Status),
		Recipient:   recordM.Recipient,
		Subject:     recordM.Subject,
		Body:        recordM.Body,

		ProviderMessageID: recordM.ProviderMessageID,
		ErrorMessage:      recordM.ErrorMessage,
		AttemptCount:      recordM.AttemptCount,
		CreatedAt:         recordM.CreatedAt,
		SentAt:            recordM.SentAt,
	}
}
