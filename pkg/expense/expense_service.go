package expense

import (
	"context"
	"errors"
	"time"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"
	"grocery-budget-backend/pkg/files"
	"grocery-budget-backend/pkg/grocery"
	"grocery-budget-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	ExpenseService interface {
		GetExpenses(ctx context.Context, authID string, query domain.ExpenseListQuery) ([]domain.ExpenseResponse, int64, error)
		GetExpenseByID(ctx context.Context, id string, authID string) (domain.ExpenseResponse, error)
		GetExpenseItems(ctx context.Context, id string, authID string) ([]domain.GroceryItemResponse, error)
		DeleteExpense(ctx context.Context, id string, authID string) error
		GetDashboard(ctx context.Context, authID string, month string) (domain.DashboardResponse, error)
	}

	expenseService struct {
		expenseRepository ExpenseRepository
		groceryService    grocery.GroceryService
		userRepository    user.UserRepository
		files             files.FileUtils
	}
)

func NewExpenseService(
	expenseRepository ExpenseRepository,
	groceryService grocery.GroceryService,
	userRepository user.UserRepository,
	fileUtils files.FileUtils,
) ExpenseService {
	return &expenseService{
		expenseRepository: expenseRepository,
		groceryService:    groceryService,
		userRepository:    userRepository,
		files:             fileUtils,
	}
}

// ToResponse maps an expense row (with whatever associations were preloaded)
// into its API shape.
func ToResponse(expense *entities.Expense) domain.ExpenseResponse {
	response := domain.ExpenseResponse{
		ID:               expense.ID.String(),
		Title:            expense.Title,
		Description:      expense.Description,
		CategoryID:       expense.CategoryID.String(),
		TotalAmount:      expense.TotalAmount,
		TaxAmount:        expense.TaxAmount,
		Currency:         expense.Currency,
		ExpenseDate:      expense.ExpenseDate.Format("2006-01-02"),
		ReceiptImagePath: expense.ReceiptImagePath,
		ReceiptParsed:    expense.ReceiptParsed,
		IsGrocery:        expense.IsGrocery,
		CreatedAt:        expense.CreatedAt,
	}
	if expense.Category != nil {
		response.CategoryName = expense.Category.Name
	}
	if expense.SupermarketID != nil {
		response.SupermarketID = expense.SupermarketID.String()
	}
	if expense.Supermarket != nil {
		response.SupermarketName = expense.Supermarket.Name
	}
	for _, item := range expense.GroceryItems {
		response.GroceryItems = append(response.GroceryItems, domain.GroceryItemResponse{
			ID:         item.ID.String(),
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Category:   item.Category,
		})
	}
	return response
}

func (s *expenseService) GetExpenses(ctx context.Context, authID string, query domain.ExpenseListQuery) ([]domain.ExpenseResponse, int64, error) {
	owner, err := s.userRepository.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrUserNotFound
		}
		return nil, 0, err
	}

	expenses, count, err := s.expenseRepository.GetByUserID(ctx, owner.ID, query)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.ExpenseResponse
	for _, expense := range expenses {
		response = append(response, ToResponse(expense))
	}
	return response, count, nil
}

func (s *expenseService) getOwned(ctx context.Context, id string, authID string) (*entities.Expense, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	owner, err := s.userRepository.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	expense, err := s.expenseRepository.GetByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	if expense.UserID != owner.ID {
		return nil, domain.ErrAccessDenied
	}
	return expense, nil
}

func (s *expenseService) GetExpenseByID(ctx context.Context, id string, authID string) (domain.ExpenseResponse, error) {
	expense, err := s.getOwned(ctx, id, authID)
	if err != nil {
		return domain.ExpenseResponse{}, err
	}
	return ToResponse(expense), nil
}

// GetExpenseItems lists the grocery line items of one owned expense.
func (s *expenseService) GetExpenseItems(ctx context.Context, id string, authID string) ([]domain.GroceryItemResponse, error) {
	expense, err := s.getOwned(ctx, id, authID)
	if err != nil {
		return nil, err
	}
	return s.groceryService.GetByExpenseID(ctx, expense.ID)
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string, authID string) error {
	expense, err := s.getOwned(ctx, id, authID)
	if err != nil {
		return err
	}

	if expense.ReceiptImagePath != "" {
		_ = s.files.DeleteFile(expense.ReceiptImagePath)
	}
	return s.expenseRepository.Delete(ctx, expense.ID)
}

// GetDashboard returns the month's grocery spend rolled up by the advisory
// item category. Month format is "2006-01"; empty means the current month.
func (s *expenseService) GetDashboard(ctx context.Context, authID string, month string) (domain.DashboardResponse, error) {
	owner, err := s.userRepository.GetByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DashboardResponse{}, domain.ErrUserNotFound
		}
		return domain.DashboardResponse{}, err
	}

	start := time.Now().UTC()
	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return domain.DashboardResponse{}, domain.ErrInvalidExpenseDate
		}
		start = parsed
	}
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.groceryService.GetCategorySpending(ctx, owner.ID, start, end)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	response := domain.DashboardResponse{
		Month:      start.Format("2006-01"),
		TotalSpent: decimal.Zero,
	}
	for _, row := range rows {
		response.TotalSpent = response.TotalSpent.Add(row.Total)
		response.ByCategory = append(response.ByCategory, domain.CategorySpendingResponse{
			Category: row.Category,
			Total:    row.Total,
			Items:    row.Items,
		})
	}
	return response, nil
}
