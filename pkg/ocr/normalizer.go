package ocr

import (
	"math"
	"regexp"
	"strings"
	"time"

	"grocery-budget-backend/domain"

	"github.com/shopspring/decimal"
)

// Normalize converts a raw OCRResult into validated, typed receipt data.
// It is deterministic and does no I/O. Numeric fields are either absent or
// strictly validated; items failing validation are dropped, not nulled.
func Normalize(result domain.OCRResult) domain.ExtractedReceiptData {
	cleaned := domain.ExtractedReceiptData{}

	if result.Merchant != nil {
		cleaned.MerchantName = strings.TrimSpace(result.Merchant.Name)
	}

	if result.Total != nil && !math.IsNaN(*result.Total) && *result.Total > 0 {
		total := decimal.NewFromFloat(*result.Total).Round(2)
		cleaned.TotalAmount = &total
	}

	if result.Tax != nil && !math.IsNaN(*result.Tax) && *result.Tax >= 0 {
		tax := decimal.NewFromFloat(*result.Tax).Round(2)
		cleaned.TaxAmount = &tax
	}

	if result.Date != "" {
		cleaned.ExpenseDate = ParseReceiptDate(result.Date)
	}

	for _, item := range result.Items {
		name := strings.TrimSpace(item.Description)
		if name == "" {
			continue
		}
		if item.Amount == nil || math.IsNaN(*item.Amount) || *item.Amount <= 0 {
			continue
		}

		quantity := 1.0
		if item.Quantity != nil && !math.IsNaN(*item.Quantity) && *item.Quantity > 0 {
			quantity = *item.Quantity
		}

		var unitPrice *decimal.Decimal
		if item.UnitPrice != nil && !math.IsNaN(*item.UnitPrice) {
			p := decimal.NewFromFloat(*item.UnitPrice).Round(2)
			unitPrice = &p
		}

		cleaned.Items = append(cleaned.Items, domain.ExtractedItem{
			ItemName:   name,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: decimal.NewFromFloat(*item.Amount).Round(2),
			Category:   CategorizeItem(name),
		})
	}

	return cleaned
}

type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

// Pattern families tried in order; the first match that parses wins.
// Ambiguous NN/NN/YYYY strings are read month-first, matching the provider's
// predominant locale. That is a known precision limitation, not a defect.
var datePatterns = []datePattern{
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), []string{"1/2/2006"}},
	{regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`), []string{"2006-1-2"}},
	{regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`), []string{"2-1-2006"}},
}

var genericLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02.01.2006",
}

// ParseReceiptDate extracts and parses a date from noisy receipt text.
// Returns nil when nothing parses; the orchestrator substitutes today.
func ParseReceiptDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, pattern := range datePatterns {
		match := pattern.re.FindString(raw)
		if match == "" {
			continue
		}
		for _, layout := range pattern.layouts {
			if t, err := time.Parse(layout, match); err == nil {
				return &t
			}
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	return nil
}

type categoryKeywords struct {
	name     string
	keywords []string
}

// Keyword table scanned in declaration order; the first category with any
// matching substring wins. Best-effort heuristic: miscategorization is
// expected and acceptable, the field is advisory.
var groceryCategories = []categoryKeywords{
	{"produce", []string{"apple", "banana", "orange", "tomato", "lettuce", "carrot", "onion", "potato", "fruit", "vegetable"}},
	{"dairy", []string{"milk", "cheese", "yogurt", "butter", "cream", "egg"}},
	{"meat", []string{"chicken", "beef", "pork", "fish", "turkey", "ham", "bacon"}},
	{"bakery", []string{"bread", "bagel", "cake", "cookie", "muffin", "croissant"}},
	{"beverages", []string{"water", "soda", "juice", "coffee", "tea", "beer", "wine"}},
	{"frozen", []string{"frozen", "ice cream", "pizza"}},
	{"pantry", []string{"rice", "pasta", "cereal", "flour", "sugar", "oil", "sauce", "spice"}},
	{"household", []string{"soap", "detergent", "shampoo", "toothpaste", "tissue", "paper towel"}},
	{"snacks", []string{"chips", "candy", "nuts", "crackers", "chocolate"}},
}

const CategoryOther = "other"

func CategorizeItem(description string) string {
	lower := strings.ToLower(description)
	for _, category := range groceryCategories {
		for _, keyword := range category.keywords {
			if strings.Contains(lower, keyword) {
				return category.name
			}
		}
	}
	return CategoryOther
}
