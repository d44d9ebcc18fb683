package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingModel is the GORM struct for the 'listings' table, keyed internally
// by UUID with a unique index on the upstream source ID.
type ListingModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	SourceID     string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	Price        int       `gorm:"not null"`
	Bedrooms     int       `gorm:"not null;default:0"`
	Bathrooms    float64   `gorm:"type:decimal(3,1);not null;default:0"`
	NoFee        bool      `gorm:"not null;default:false"`
	Address      string    `gorm:"type:varchar(512)"`
	Neighborhood string    `gorm:"type:varchar(255);index"`
	Latitude     float64   `gorm:"type:decimal(9,6)"`
	Longitude    float64   `gorm:"type:decimal(9,6)"`
	URL          string    `gorm:"type:text"`

	StabilizationStatus      string  `gorm:"type:varchar(16)"`
	StabilizationProbability float64 `gorm:"type:decimal(3,2);default:0"`
	StabilizationSource      string  `gorm:"type:varchar(64)"`
	StabilizationCheckedAt   *time.Time

	FirstSeenAt time.Time `gorm:"not null"`
	LastSeenAt  time.Time `gorm:"not null;index"`
	IsActive    bool      `gorm:"not null;default:true;index"`
}

// TableName explicitly sets the table name for GORM.
func (ListingModel) TableName() string {
	return "listings"
}
