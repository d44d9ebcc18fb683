package model

import (
	"time"

	"github.com/google/uuid"
)

// SeenRecordModel is the GORM struct for the 'seen_records' table. The
// composite unique index is what makes duplicate inserts a guaranteed no-op
// rather than a second notification.
type SeenRecordModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_criterion_listing"`
	CriterionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_criterion_listing"`
	ListingID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_criterion_listing"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (SeenRecordModel) TableName() string {
	return "seen_records"
}
