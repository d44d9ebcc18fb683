package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationRecordModel is the GORM struct for the 'notification_records'
// table, the pending queue drained by the channel dispatchers.
type NotificationRecordModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CriterionID uuid.UUID `gorm:"type:uuid;not null;index"`
	ListingID   uuid.UUID `gorm:"type:uuid;not null"`
	Channel     string    `gorm:"type:varchar(16);not null;index:idx_channel_status"`
	Status      string    `gorm:"type:varchar(16);not null;default:'pending';index:idx_channel_status"`
	Recipient   string    `gorm:"type:varchar(320)"`
	Subject     string    `gorm:"type:varchar(512)"`
	Body        string    `gorm:"type:text"`

	ProviderMessageID string `gorm:"type:varchar(128)"`
	ErrorMessage      string `gorm:"type:text"`
	AttemptCount      int    `gorm:"not null;default:0"`
	CreatedAt         time.Time
	SentAt            *time.Time
}

// TableName explicitly sets the table name for GORM.
func (NotificationRecordModel) TableName() string {
	return "notification_records"
}
