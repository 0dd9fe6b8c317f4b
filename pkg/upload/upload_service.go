package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"
	"grocery-budget-backend/internal/utils/logging"
	"grocery-budget-backend/pkg/category"
	"grocery-budget-backend/pkg/expense"
	"grocery-budget-backend/pkg/files"
	"grocery-budget-backend/pkg/grocery"
	"grocery-budget-backend/pkg/ocr"
	"grocery-budget-backend/pkg/supermarket"
	"grocery-budget-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	// UploadService sequences one receipt upload: preparation, OCR,
	// normalization, merchant resolution, expense creation, item bulk
	// insert and file cleanup. OCR is an enhancement: when it fails the
	// expense is still created with placeholder values.
	UploadService interface {
		ProcessReceipt(ctx context.Context, req domain.ProcessReceiptRequest, authID, email string) (domain.ProcessReceiptResponse, error)
		GetReceiptImagePath(ctx context.Context, expenseID, authID string, thumbnail bool) (string, error)
		DeleteReceiptImage(ctx context.Context, expenseID, authID string) error
	}

	uploadService struct {
		userRepository     user.UserRepository
		expenseRepository  expense.ExpenseRepository
		categoryRepository category.CategoryRepository
		supermarketService supermarket.SupermarketService
		groceryService     grocery.GroceryService
		ocrClient          ocr.Client
		files              files.FileUtils
	}
)

func NewUploadService(
	userRepository user.UserRepository,
	expenseRepository expense.ExpenseRepository,
	categoryRepository category.CategoryRepository,
	supermarketService supermarket.SupermarketService,
	groceryService grocery.GroceryService,
	ocrClient ocr.Client,
	fileUtils files.FileUtils,
) UploadService {
	return &uploadService{
		userRepository:     userRepository,
		expenseRepository:  expenseRepository,
		categoryRepository: categoryRepository,
		supermarketService: supermarketService,
		groceryService:     groceryService,
		ocrClient:          ocrClient,
		files:              fileUtils,
	}
}

func (s *uploadService) ProcessReceipt(ctx context.Context, req domain.ProcessReceiptRequest, authID, email string) (domain.ProcessReceiptResponse, error) {
	rawPath := req.FilePath
	// The raw upload is consumed here no matter how the pipeline exits.
	defer s.files.DeleteFile(rawPath)

	owner, err := s.userRepository.CreateOrUpdate(ctx, authID, email)
	if err != nil {
		return domain.ProcessReceiptResponse{}, err
	}

	validation := s.files.ValidateImage(rawPath)
	if !validation.Valid {
		return domain.ProcessReceiptResponse{}, domain.ErrInvalidImage
	}

	optimizedPath := filepath.Join(filepath.Dir(rawPath), "optimized_"+filepath.Base(rawPath))
	if !s.files.OptimizeImage(rawPath, optimizedPath, files.OptimizeOptions{}) {
		return domain.ProcessReceiptResponse{}, domain.ErrInvalidImage
	}

	extracted := domain.ExtractedReceiptData{}
	ocrProcessed := false

	result, err := s.ocrClient.Recognize(ctx, optimizedPath)
	switch {
	case err != nil:
		// Degraded ingestion: the upload is accepted without extraction.
		logging.GetLogger().WithField("module", "upload").
			Warnf("ocr degraded, continuing without extraction: %v", err)
	case result.Success:
		extracted = ocr.Normalize(result)
		ocrProcessed = true
	}

	expenseDate := time.Now()
	if extracted.ExpenseDate != nil {
		expenseDate = *extracted.ExpenseDate
	}
	totalAmount := decimal.Zero
	if extracted.TotalAmount != nil {
		totalAmount = *extracted.TotalAmount
	}
	taxAmount := decimal.Zero
	if extracted.TaxAmount != nil {
		taxAmount = *extracted.TaxAmount
	}

	groceries, err := s.categoryRepository.GetByName(ctx, category.CategoryGroceries)
	if err != nil {
		s.files.DeleteFile(optimizedPath)
		return domain.ProcessReceiptResponse{}, err
	}

	row := &entities.Expense{
		ID:               uuid.New(),
		UserID:           owner.ID,
		CategoryID:       groceries.ID,
		Title:            "Receipt Upload",
		Description:      "Uploaded receipt pending processing",
		TotalAmount:      totalAmount,
		TaxAmount:        taxAmount,
		Currency:         "USD",
		ExpenseDate:      expenseDate,
		ReceiptImagePath: optimizedPath,
		ReceiptParsed:    ocrProcessed,
		IsGrocery:        true,
	}

	if extracted.MerchantName != "" {
		resolved, err := s.supermarketService.GetOrCreate(ctx, extracted.MerchantName)
		if err != nil {
			s.files.DeleteFile(optimizedPath)
			return domain.ProcessReceiptResponse{}, err
		}
		row.SupermarketID = &resolved.ID
		row.Title = resolved.Name + " - Receipt"
	}

	if err := s.expenseRepository.Create(ctx, row); err != nil {
		// The optimized image is only retained once the expense row
		// referencing it has committed.
		s.files.DeleteFile(optimizedPath)
		return domain.ProcessReceiptResponse{}, err
	}

	if len(extracted.Items) > 0 {
		if err := s.groceryService.CreateFromExtracted(ctx, row.ID, extracted.Items); err != nil {
			return domain.ProcessReceiptResponse{}, err
		}
	}

	complete, err := s.expenseRepository.GetByID(ctx, row.ID)
	if err != nil {
		return domain.ProcessReceiptResponse{}, err
	}

	return domain.ProcessReceiptResponse{
		Expense:      expense.ToResponse(complete),
		OcrProcessed: ocrProcessed,
		ItemsFound:   len(extracted.Items),
	}, nil
}

func (s *uploadService) getOwnedExpense(ctx context.Context, expenseID, authID string) (*entities.Expense, error) {
	id, err := uuid.Parse(expenseID)
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

	row, err := s.expenseRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	if row.UserID != owner.ID {
		return nil, domain.ErrAccessDenied
	}
	return row, nil
}

// GetReceiptImagePath resolves the on-disk path served for an expense's
// receipt, generating the thumbnail lazily when one is requested.
func (s *uploadService) GetReceiptImagePath(ctx context.Context, expenseID, authID string, thumbnail bool) (string, error) {
	row, err := s.getOwnedExpense(ctx, expenseID, authID)
	if err != nil {
		return "", err
	}

	if row.ReceiptImagePath == "" {
		return "", domain.ErrReceiptImageNotFound
	}
	if _, err := os.Stat(row.ReceiptImagePath); err != nil {
		return "", domain.ErrReceiptImageNotFound
	}

	if !thumbnail {
		return row.ReceiptImagePath, nil
	}

	thumbPath := filepath.Join(filepath.Dir(row.ReceiptImagePath), "thumb_"+filepath.Base(row.ReceiptImagePath))
	if _, err := os.Stat(thumbPath); err != nil {
		if !s.files.GenerateThumbnail(row.ReceiptImagePath, thumbPath, files.ThumbnailSize) {
			return row.ReceiptImagePath, nil
		}
	}
	return thumbPath, nil
}

func (s *uploadService) DeleteReceiptImage(ctx context.Context, expenseID, authID string) error {
	row, err := s.getOwnedExpense(ctx, expenseID, authID)
	if err != nil {
		return err
	}

	if row.ReceiptImagePath != "" {
		s.files.DeleteFile(row.ReceiptImagePath)
		thumbPath := filepath.Join(filepath.Dir(row.ReceiptImagePath), "thumb_"+filepath.Base(row.ReceiptImagePath))
		s.files.DeleteFile(thumbPath)
	}
	return s.expenseRepository.ClearReceiptImage(ctx, row.ID)
}
