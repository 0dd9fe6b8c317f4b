package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessUploadReceipt      = "receipt uploaded successfully"
	MessageSuccessDeleteReceiptImage = "receipt image deleted successfully"

	MessageFailedUploadReceipt   = "failed to upload receipt"
	MessageFailedNoFileUploaded  = "no file uploaded"
	MessageFailedTooManyFiles    = "too many files, only one file allowed per upload"
	MessageFailedFileTooLarge    = "file too large, maximum size allowed is 10MB"
	MessageFailedFileType        = "file type not allowed"
	MessageFailedInvalidImage    = "invalid image file"
	MessageFailedGetReceiptImage = "failed to get receipt image"
	MessageFailedReceiptNotFound = "receipt image not found"

	ErrNoFileUploaded     = errors.New("no file uploaded")
	ErrTooManyFiles       = errors.New("only one file allowed per upload")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrInvalidImage       = errors.New("invalid image file")

	// ErrOcrUnavailable marks provider unreachable/timeout/non-2xx. The
	// orchestrator recovers from it by degrading, it is never user-facing.
	ErrOcrUnavailable = errors.New("ocr provider unavailable")

	ErrReceiptImageNotFound = errors.New("receipt image not found")
	ErrExpenseNotFound      = errors.New("expense not found")
)

type (
	// OCRResult is the provider response mapped into a neutral shape.
	// Success=false means the provider answered but found no parsable
	// receipt; that is a valid outcome, not an error.
	OCRResult struct {
		Success  bool            `json:"success"`
		Merchant *OCRMerchant    `json:"merchant,omitempty"`
		Total    *float64        `json:"total,omitempty"`
		Tax      *float64        `json:"tax,omitempty"`
		Date     string          `json:"date,omitempty"`
		Items    []OCRItem       `json:"items"`
		RawData  json.RawMessage `json:"-"`
	}

	OCRMerchant struct {
		Name    string `json:"name"`
		Address string `json:"address,omitempty"`
		Phone   string `json:"phone,omitempty"`
	}

	OCRItem struct {
		Description string   `json:"description"`
		Quantity    *float64 `json:"qty,omitempty"`
		UnitPrice   *float64 `json:"unit_price,omitempty"`
		Amount      *float64 `json:"amount,omitempty"`
	}

	// ExtractedReceiptData is the validated projection of an OCRResult.
	// Absent fields stay nil; the orchestrator substitutes defaults.
	ExtractedReceiptData struct {
		MerchantName string           `json:"merchant_name,omitempty"`
		TotalAmount  *decimal.Decimal `json:"total_amount,omitempty"`
		TaxAmount    *decimal.Decimal `json:"tax_amount,omitempty"`
		ExpenseDate  *time.Time       `json:"expense_date,omitempty"`
		Items        []ExtractedItem  `json:"items"`
	}

	ExtractedItem struct {
		ItemName   string           `json:"item_name"`
		Quantity   float64          `json:"quantity"`
		UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
		TotalPrice decimal.Decimal  `json:"total_price"`
		Category   string           `json:"category"`
	}

	// ProcessReceiptRequest points at the raw upload already persisted to
	// disk by the handler. The orchestrator owns the file from here on.
	ProcessReceiptRequest struct {
		FilePath string `validate:"required"`
	}

	ProcessReceiptResponse struct {
		Expense      ExpenseResponse `json:"expense"`
		OcrProcessed bool            `json:"ocr_processed"`
		ItemsFound   int             `json:"items_found"`
	}
)
