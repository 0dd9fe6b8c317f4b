package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessGetExpenses     = "expenses retrieved successfully"
	MessageSuccessGetExpense      = "expense retrieved successfully"
	MessageSuccessGetExpenseItems = "grocery items retrieved successfully"
	MessageSuccessDeleteExpense   = "expense deleted successfully"
	MessageSuccessGetDashboard    = "dashboard statistics retrieved successfully"

	MessageFailedGetExpenses     = "failed to retrieve expenses"
	MessageFailedGetExpenseItems = "failed to retrieve grocery items"
	MessageFailedDeleteExpense   = "failed to delete expense"
	MessageFailedGetDashboard    = "failed to retrieve dashboard statistics"

	ErrInvalidExpenseDate = errors.New("invalid expense date")
)

type (
	ExpenseResponse struct {
		ID               string                `json:"id"`
		Title            string                `json:"title"`
		Description      string                `json:"description,omitempty"`
		CategoryID       string                `json:"category_id"`
		CategoryName     string                `json:"category_name,omitempty"`
		SupermarketID    string                `json:"supermarket_id,omitempty"`
		SupermarketName  string                `json:"supermarket_name,omitempty"`
		TotalAmount      decimal.Decimal       `json:"total_amount"`
		TaxAmount        decimal.Decimal       `json:"tax_amount"`
		Currency         string                `json:"currency"`
		ExpenseDate      string                `json:"expense_date"`
		ReceiptImagePath string                `json:"receipt_image_path,omitempty"`
		ReceiptParsed    bool                  `json:"receipt_parsed"`
		IsGrocery        bool                  `json:"is_grocery"`
		GroceryItems     []GroceryItemResponse `json:"grocery_items,omitempty"`
		CreatedAt        time.Time             `json:"created_at"`
	}

	GroceryItemResponse struct {
		ID         string           `json:"id"`
		ItemName   string           `json:"item_name"`
		Quantity   float64          `json:"quantity"`
		UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
		TotalPrice decimal.Decimal  `json:"total_price"`
		Category   string           `json:"category"`
	}

	ExpenseListQuery struct {
		Page      int
		Limit     int
		StartDate string
		EndDate   string
		Category  string
		IsGrocery *bool
	}

	CategorySpendingResponse struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
		Items    int64           `json:"items"`
	}

	DashboardResponse struct {
		Month      string                     `json:"month"`
		TotalSpent decimal.Decimal            `json:"total_spent"`
		ByCategory []CategorySpendingResponse `json:"by_category"`
	}
)
