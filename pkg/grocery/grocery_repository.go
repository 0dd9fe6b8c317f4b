package grocery

import (
	"context"
	"time"

	"grocery-budget-backend/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	CategorySpendingRow struct {
		Category string
		Total    decimal.Decimal
		Items    int64
	}

	GroceryRepository interface {
		CreateBulk(ctx context.Context, items []*entities.GroceryItem) error
		GetByExpenseID(ctx context.Context, expenseID uuid.UUID) ([]*entities.GroceryItem, error)
		FindProductByName(ctx context.Context, name string) (*entities.Product, error)
		CreateProduct(ctx context.Context, product *entities.Product) error
		GetCategorySpending(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CategorySpendingRow, error)
	}

	groceryRepository struct {
		db *gorm.DB
	}
)

func NewGroceryRepository(db *gorm.DB) GroceryRepository {
	return &groceryRepository{db: db}
}

func (r *groceryRepository) CreateBulk(ctx context.Context, items []*entities.GroceryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *groceryRepository) GetByExpenseID(ctx context.Context, expenseID uuid.UUID) ([]*entities.GroceryItem, error) {
	var items []*entities.GroceryItem
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("item_name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *groceryRepository) FindProductByName(ctx context.Context, name string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *groceryRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetCategorySpending rolls grocery spend up by the advisory item category
// for one user inside [start, end).
func (r *groceryRepository) GetCategorySpending(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]CategorySpendingRow, error) {
	var rows []CategorySpendingRow
	err := r.db.WithContext(ctx).
		Model(&entities.GroceryItem{}).
		Select("grocery_items.category as category, SUM(grocery_items.total_price) as total, COUNT(*) as items").
		Joins("JOIN expenses ON expenses.id = grocery_items.expense_id").
		Where("expenses.user_id = ? AND expenses.expense_date >= ? AND expenses.expense_date < ?", userID, start, end).
		Group("grocery_items.category").
		Order("total desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
