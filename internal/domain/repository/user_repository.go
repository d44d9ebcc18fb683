package repository

import (
	"context"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/errors"

	"github.com/google/uuid"
)

// ErrUserContactNotFound is returned when no contact row exists for a user.
var ErrUserContactNotFound = errors.New("user contact not found")

// UserRepository reads the contact and plan data synced from the external
// identity and billing surfaces.
type UserRepository interface {
	// FindContact retrieves the contact record for one user.
	FindContact(ctx context.Context, userID uuid.UUID) (*entity.UserContact, error)
}
