// Package model holds the GORM-specific structs for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// CriterionModel is the GORM struct for the 'criteria' table. Rows are owned
// by the alert-management surface; the pipeline only updates last_checked_at.
type CriterionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Areas          string    `gorm:"type:text;not null"` // Comma-separated raw area list.
	MinPrice       *int
	MaxPrice       *int
	MinBeds        *int
	MaxBeds        *int
	MinBaths       *float64  `gorm:"type:decimal(3,1)"`
	NoFee          bool      `gorm:"not null;default:false"`
	StabilizedOnly bool      `gorm:"not null;default:false"`
	NotifySMS      bool      `gorm:"column:notify_sms;not null;default:false"`
	NotifyEmail    bool      `gorm:"not null;default:true"`
	NotifyInApp    bool      `gorm:"not null;default:true"`
	Tier           string    `gorm:"type:varchar(16);not null;default:'1hour'"`
	IsActive       bool      `gorm:"not null;default:true;index"`
	LastCheckedAt  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (CriterionModel) TableName() string {
	return "criteria"
}
