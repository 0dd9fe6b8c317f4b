package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GroceryItem belongs to exactly one Expense. Category is the advisory
// keyword-classified spending category, not a schema-enforced reference.
type GroceryItem struct {
	ID         uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ExpenseID  uuid.UUID        `json:"expense_id"`
	ProductID  uuid.UUID        `json:"product_id"`
	ItemName   string           `json:"item_name"`
	Quantity   float64          `gorm:"default:1" json:"quantity"`
	UnitPrice  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price,omitempty"`
	TotalPrice decimal.Decimal  `gorm:"type:numeric(12,2)" json:"total_price"`
	Category   string           `gorm:"default:other" json:"category"`

	Expense *Expense `gorm:"foreignKey:ExpenseID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Timestamp
}
