package category

import (
	"context"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"

	"github.com/google/uuid"
)

// CategoryGroceries is the expense category every receipt upload lands in.
const CategoryGroceries = "groceries"

var defaultCategories = []entities.Category{
	{Name: CategoryGroceries, Description: "Supermarket and grocery purchases"},
	{Name: "dining", Description: "Restaurants and takeout"},
	{Name: "transport", Description: "Fuel and public transport"},
	{Name: "utilities", Description: "Bills and utilities"},
	{Name: "entertainment", Description: "Leisure and subscriptions"},
	{Name: "health", Description: "Pharmacy and medical"},
	{Name: "other", Description: "Everything else"},
}

type (
	CategoryService interface {
		GetCategories(ctx context.Context) ([]domain.CategoryResponse, error)
		EnsureDefaults(ctx context.Context) error
	}

	categoryService struct {
		categoryRepository CategoryRepository
	}
)

func NewCategoryService(categoryRepository CategoryRepository) CategoryService {
	return &categoryService{categoryRepository: categoryRepository}
}

func (s *categoryService) GetCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	categories, err := s.categoryRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var response []domain.CategoryResponse
	for _, category := range categories {
		response = append(response, domain.CategoryResponse{
			ID:          category.ID.String(),
			Name:        category.Name,
			Description: category.Description,
		})
	}
	return response, nil
}

func (s *categoryService) EnsureDefaults(ctx context.Context) error {
	for _, category := range defaultCategories {
		category.ID = uuid.New()
		if err := s.categoryRepository.FirstOrCreate(ctx, &category); err != nil {
			return err
		}
	}
	return nil
}
