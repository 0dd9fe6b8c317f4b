package supermarket

import (
	"context"

	"grocery-budget-backend/entities"

	"gorm.io/gorm"
)

type (
	SupermarketRepository interface {
		FindByNormalizedName(ctx context.Context, normalized string) (*entities.Supermarket, error)
		Create(ctx context.Context, supermarket *entities.Supermarket) error
		GetAll(ctx context.Context, search string, page, limit int) ([]*entities.Supermarket, int64, error)
	}

	supermarketRepository struct {
		db *gorm.DB
	}
)

func NewSupermarketRepository(db *gorm.DB) SupermarketRepository {
	return &supermarketRepository{db: db}
}

func (r *supermarketRepository) FindByNormalizedName(ctx context.Context, normalized string) (*entities.Supermarket, error) {
	var supermarket entities.Supermarket
	if err := r.db.WithContext(ctx).
		Where("normalized_name = ?", normalized).
		First(&supermarket).Error; err != nil {
		return nil, err
	}
	return &supermarket, nil
}

func (r *supermarketRepository) Create(ctx context.Context, supermarket *entities.Supermarket) error {
	return r.db.WithContext(ctx).Create(supermarket).Error
}

func (r *supermarketRepository) GetAll(ctx context.Context, search string, page, limit int) ([]*entities.Supermarket, int64, error) {
	var supermarkets []*entities.Supermarket
	var count int64

	offset := (page - 1) * limit
	query := r.db.WithContext(ctx).Model(&entities.Supermarket{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("name asc").Offset(offset).Limit(limit).Find(&supermarkets).Error; err != nil {
		return nil, 0, err
	}
	return supermarkets, count, nil
}
