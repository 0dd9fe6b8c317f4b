package grocery

import (
	"context"
	"errors"
	"time"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	GroceryService interface {
		CreateFromExtracted(ctx context.Context, expenseID uuid.UUID, items []domain.ExtractedItem) error
		GetByExpenseID(ctx context.Context, expenseID uuid.UUID) ([]domain.GroceryItemResponse, error)
		GetCategorySpending(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CategorySpendingRow, error)
	}

	groceryService struct {
		groceryRepository GroceryRepository
	}
)

func NewGroceryService(groceryRepository GroceryRepository) GroceryService {
	return &groceryService{groceryRepository: groceryRepository}
}

// CreateFromExtracted bulk-inserts the normalized line items against the new
// expense, resolving each product by name and creating it when absent.
func (s *groceryService) CreateFromExtracted(ctx context.Context, expenseID uuid.UUID, items []domain.ExtractedItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]*entities.GroceryItem, 0, len(items))
	for _, item := range items {
		product, err := s.getOrCreateProduct(ctx, item.ItemName)
		if err != nil {
			return err
		}
		rows = append(rows, &entities.GroceryItem{
			ID:         uuid.New(),
			ExpenseID:  expenseID,
			ProductID:  product.ID,
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Category:   item.Category,
		})
	}

	return s.groceryRepository.CreateBulk(ctx, rows)
}

func (s *groceryService) getOrCreateProduct(ctx context.Context, name string) (*entities.Product, error) {
	product, err := s.groceryRepository.FindProductByName(ctx, name)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	product = &entities.Product{ID: uuid.New(), Name: name}
	if err := s.groceryRepository.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.groceryRepository.FindProductByName(ctx, name)
		}
		return nil, err
	}
	return product, nil
}

func (s *groceryService) GetByExpenseID(ctx context.Context, expenseID uuid.UUID) ([]domain.GroceryItemResponse, error) {
	items, err := s.groceryRepository.GetByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	var response []domain.GroceryItemResponse
	for _, item := range items {
		response = append(response, domain.GroceryItemResponse{
			ID:         item.ID.String(),
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Category:   item.Category,
		})
	}
	return response, nil
}

func (s *groceryService) GetCategorySpending(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CategorySpendingRow, error) {
	return s.groceryRepository.GetCategorySpending(ctx, userID, start, end)
}
