package model

import (
	"time"

	"github.com/google/uuid"
)

// RunLogModel is the GORM struct for the 'run_logs' audit table.
type RunLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Status     string    `gorm:"type:varchar(16);not null;default:'started'"`
	StartedAt  time.Time `gorm:"not null;index"`
	FinishedAt *time.Time

	CriteriaChecked      int `gorm:"not null;default:0"`
	BatchesFetched       int `gorm:"not null;default:0"`
	ListingsFound        int `gorm:"not null;default:0"`
	NotificationsCreated int `gorm:"not null;default:0"`

	ErrorDetail string `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (RunLogModel) TableName() string {
	return "run_logs"
}
