package model

import (
	"time"

	"github.com/google/uuid"
)

// BatchModel is the GORM struct for the 'batches' table.
type BatchModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Hash          string    `gorm:"type:char(64);not null;uniqueIndex"`
	AreaKey       string    `gorm:"type:text;not null;index"`
	MinPrice      *int
	MaxPrice      *int
	MinBeds       *int
	MaxBeds       *int
	MinBaths      *float64 `gorm:"type:decimal(3,1)"`
	NoFee         bool     `gorm:"not null;default:false"`
	MemberCount   int      `gorm:"not null;default:0"`
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (BatchModel) TableName() string {
	return "batches"
}

// BatchMembershipModel is the GORM struct for the 'batch_memberships' join
// table. Unique per (criterion, batch) pair.
type BatchMembershipModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BatchID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_batch_criterion"`
	CriterionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_batch_criterion"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (BatchMembershipModel) TableName() string {
	return "batch_memberships"
}
