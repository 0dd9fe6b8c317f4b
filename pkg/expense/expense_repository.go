package expense

import (
	"context"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ExpenseRepository interface {
		Create(ctx context.Context, expense *entities.Expense) error
		GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error)
		GetByUserID(ctx context.Context, userID uuid.UUID, query domain.ExpenseListQuery) ([]*entities.Expense, int64, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ClearReceiptImage(ctx context.Context, id uuid.UUID) error
	}

	expenseRepository struct {
		db *gorm.DB
	}
)

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *entities.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	var expense entities.Expense
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supermarket").
		Preload("GroceryItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("grocery_items.item_name asc")
		}).
		Preload("GroceryItems.Product").
		Where("id = ?", id).
		First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) GetByUserID(ctx context.Context, userID uuid.UUID, query domain.ExpenseListQuery) ([]*entities.Expense, int64, error) {
	var expenses []*entities.Expense
	var count int64

	offset := (query.Page - 1) * query.Limit

	tx := r.db.WithContext(ctx).Model(&entities.Expense{}).Where("user_id = ?", userID)
	if query.StartDate != "" {
		tx = tx.Where("expense_date >= ?", query.StartDate)
	}
	if query.EndDate != "" {
		tx = tx.Where("expense_date <= ?", query.EndDate)
	}
	if query.Category != "" {
		tx = tx.Joins("JOIN categories ON categories.id = expenses.category_id").
			Where("categories.name = ?", query.Category)
	}
	if query.IsGrocery != nil {
		tx = tx.Where("is_grocery = ?", *query.IsGrocery)
	}

	if err := tx.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Preload("Category").
		Preload("Supermarket").
		Order("expense_date desc").
		Offset(offset).
		Limit(query.Limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, count, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("expense_id = ?", id).
		Delete(&entities.GroceryItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Expense{}).Error
}

func (r *expenseRepository) ClearReceiptImage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entities.Expense{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"receipt_image_path": "",
			"receipt_parsed":     false,
		}).Error
}
