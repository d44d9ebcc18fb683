package model

import (
	"time"

	"github.com/google/uuid"
)

// UserContactModel is the GORM struct for the 'user_contacts' table, synced
// from the external identity and billing surfaces. Read-only here.
type UserContactModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primary_key"`
	Email     string    `gorm:"type:varchar(320)"`
	Phone     string    `gorm:"type:varchar(20)"`
	Plan      string    `gorm:"type:varchar(16);not null;default:'free'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserContactModel) TableName() string {
	return "user_contacts"
}
