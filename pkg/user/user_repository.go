package user

import (
	"context"
	"errors"

	"grocery-budget-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		GetByAuthID(ctx context.Context, authID string) (*entities.User, error)
		CreateOrUpdate(ctx context.Context, authID, email string) (*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByAuthID(ctx context.Context, authID string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("auth_id = ?", authID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateOrUpdate resolves the upstream auth identifier into a local user row,
// creating it on first sight and refreshing the email when it changed.
func (r *userRepository) CreateOrUpdate(ctx context.Context, authID, email string) (*entities.User, error) {
	user, err := r.GetByAuthID(ctx, authID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user = &entities.User{ID: uuid.New(), AuthID: authID, Email: email}
		if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return r.GetByAuthID(ctx, authID)
			}
			return nil, err
		}
		return user, nil
	}

	if email != "" && user.Email != email {
		user.Email = email
		if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}
