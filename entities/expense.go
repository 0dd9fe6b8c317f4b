package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	CategoryID       uuid.UUID       `json:"category_id"`
	SupermarketID    *uuid.UUID      `json:"supermarket_id,omitempty"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	TotalAmount      decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_amount"`
	TaxAmount        decimal.Decimal `gorm:"type:numeric(12,2)" json:"tax_amount"`
	Currency         string          `gorm:"default:USD" json:"currency"`
	ExpenseDate      time.Time       `gorm:"type:date" json:"expense_date"`
	ReceiptImagePath string          `json:"receipt_image_path,omitempty"`
	ReceiptParsed    bool            `json:"receipt_parsed"`
	IsGrocery        bool            `json:"is_grocery"`

	User         *User          `gorm:"foreignKey:UserID" json:"-"`
	Category     *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Supermarket  *Supermarket   `gorm:"foreignKey:SupermarketID" json:"supermarket,omitempty"`
	GroceryItems []*GroceryItem `gorm:"foreignKey:ExpenseID" json:"grocery_items,omitempty"`
	Timestamp
}
