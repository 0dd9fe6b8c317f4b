package category

import (
	"context"

	"grocery-budget-backend/entities"

	"gorm.io/gorm"
)

type (
	CategoryRepository interface {
		GetAll(ctx context.Context) ([]*entities.Category, error)
		GetByName(ctx context.Context, name string) (*entities.Category, error)
		FirstOrCreate(ctx context.Context, category *entities.Category) error
	}

	categoryRepository struct {
		db *gorm.DB
	}
)

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*entities.Category, error) {
	var categories []*entities.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entities.Category, error) {
	var category entities.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FirstOrCreate(ctx context.Context, category *entities.Category) error {
	return r.db.WithContext(ctx).
		Where("name = ?", category.Name).
		FirstOrCreate(category).Error
}
