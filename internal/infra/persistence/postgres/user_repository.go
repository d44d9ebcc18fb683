package postgres

import (
	"context"

	"leaseradar/internal/domain/entity"
	"leaseradar/internal/domain/repository"
	"leaseradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindContact retrieves the contact record for one user.
func (repo *userRepository) FindContact(ctx context.Context, userID uuid.UUID) (*entity.UserContact, error) {
	var contactM model.UserContactModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&contactM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserContactNotFound
		}

		return nil, errors.Wrap(err, "failed to find user contact")
	}

	return &entity.UserContact{
		UserID: contactM.UserID,
		Email:  contactM.Email,
		Phone:  contactM.Phone,
		Plan:   entity.Plan(contactM.Plan),
	}, nil
}
