package upload

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"
	"grocery-budget-backend/pkg/files"
	"grocery-budget-backend/pkg/grocery"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	user *entities.User
}

func (f *fakeUserRepo) GetByAuthID(ctx context.Context, authID string) (*entities.User, error) {
	if f.user == nil || f.user.AuthID != authID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) CreateOrUpdate(ctx context.Context, authID, email string) (*entities.User, error) {
	if f.user == nil {
		f.user = &entities.User{ID: uuid.New(), AuthID: authID, Email: email}
	}
	return f.user, nil
}

type fakeExpenseRepo struct {
	created   *entities.Expense
	createErr error
}

func (f *fakeExpenseRepo) Create(ctx context.Context, expense *entities.Expense) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = expense
	return nil
}

func (f *fakeExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	if f.created == nil || f.created.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.created, nil
}

func (f *fakeExpenseRepo) GetByUserID(ctx context.Context, userID uuid.UUID, query domain.ExpenseListQuery) ([]*entities.Expense, int64, error) {
	return nil, 0, nil
}

func (f *fakeExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeExpenseRepo) ClearReceiptImage(ctx context.Context, id uuid.UUID) error {
	if f.created != nil && f.created.ID == id {
		f.created.ReceiptImagePath = ""
		f.created.ReceiptParsed = false
	}
	return nil
}

type fakeCategoryRepo struct {
	groceries entities.Category
}

func (f *fakeCategoryRepo) GetAll(ctx context.Context) ([]*entities.Category, error) {
	return []*entities.Category{&f.groceries}, nil
}

func (f *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*entities.Category, error) {
	if name != f.groceries.Name {
		return nil, gorm.ErrRecordNotFound
	}
	return &f.groceries, nil
}

func (f *fakeCategoryRepo) FirstOrCreate(ctx context.Context, category *entities.Category) error {
	return nil
}

type fakeSupermarketService struct {
	resolved *entities.Supermarket
	calls    []string
}

func (f *fakeSupermarketService) GetOrCreate(ctx context.Context, name string) (*entities.Supermarket, error) {
	f.calls = append(f.calls, name)
	if f.resolved == nil {
		f.resolved = &entities.Supermarket{ID: uuid.New(), Name: name}
	}
	return f.resolved, nil
}

func (f *fakeSupermarketService) GetSupermarkets(ctx context.Context, search string, page, limit int) ([]domain.SupermarketResponse, int64, error) {
	return nil, 0, nil
}

type fakeGroceryService struct {
	received []domain.ExtractedItem
}

func (f *fakeGroceryService) CreateFromExtracted(ctx context.Context, expenseID uuid.UUID, items []domain.ExtractedItem) error {
	f.received = append(f.received, items...)
	return nil
}

func (f *fakeGroceryService) GetByExpenseID(ctx context.Context, expenseID uuid.UUID) ([]domain.GroceryItemResponse, error) {
	return nil, nil
}

func (f *fakeGroceryService) GetCategorySpending(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]grocery.CategorySpendingRow, error) {
	return nil, nil
}

type fakeOCRClient struct {
	result   domain.OCRResult
	err      error
	lastPath string
}

func (f *fakeOCRClient) Recognize(ctx context.Context, imagePath string) (domain.OCRResult, error) {
	f.lastPath = imagePath
	if f.err != nil {
		return domain.OCRResult{}, f.err
	}
	return f.result, nil
}

type fixture struct {
	service      UploadService
	userRepo     *fakeUserRepo
	expenseRepo  *fakeExpenseRepo
	supermarkets *fakeSupermarketService
	groceries    *fakeGroceryService
	ocrClient    *fakeOCRClient
}

func newFixture(ocrClient *fakeOCRClient) *fixture {
	f := &fixture{
		userRepo:     &fakeUserRepo{},
		expenseRepo:  &fakeExpenseRepo{},
		supermarkets: &fakeSupermarketService{},
		groceries:    &fakeGroceryService{},
		ocrClient:    ocrClient,
	}
	f.service = NewUploadService(
		f.userRepo,
		f.expenseRepo,
		&fakeCategoryRepo{groceries: entities.Category{ID: uuid.New(), Name: "groceries"}},
		f.supermarkets,
		f.groceries,
		f.ocrClient,
		files.NewFileUtils(),
	)
	return f
}

func writeUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receipt.jpg")
	img := imaging.New(400, 600, image.White.C)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save upload image: %v", err)
	}
	return path
}

func floatPtr(f float64) *float64 { return &f }

func TestProcessReceipt_DegradesWhenOcrUnavailable(t *testing.T) {
	f := newFixture(&fakeOCRClient{err: domain.ErrOcrUnavailable})
	rawPath := writeUpload(t)

	res, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "u@example.com")
	if err != nil {
		t.Fatalf("ocr failure must not fail the upload: %v", err)
	}

	if res.OcrProcessed {
		t.Fatal("ocr_processed should be false")
	}
	if res.ItemsFound != 0 {
		t.Fatalf("items_found = %d, want 0", res.ItemsFound)
	}

	created := f.expenseRepo.created
	if created == nil {
		t.Fatal("expense must still be created")
	}
	if created.ReceiptParsed {
		t.Fatal("receipt_parsed should be false")
	}
	if !created.TotalAmount.IsZero() || !created.TaxAmount.IsZero() {
		t.Fatalf("placeholder totals expected, got %s / %s", created.TotalAmount, created.TaxAmount)
	}
	if !created.IsGrocery {
		t.Fatal("is_grocery should be true")
	}
	if created.Title != "Receipt Upload" {
		t.Fatalf("title = %q", created.Title)
	}

	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Fatal("raw upload must be deleted")
	}
	if _, err := os.Stat(created.ReceiptImagePath); err != nil {
		t.Fatalf("optimized image must be retained: %v", err)
	}
}

func TestProcessReceipt_FullExtraction(t *testing.T) {
	ocrClient := &fakeOCRClient{result: domain.OCRResult{
		Success:  true,
		Merchant: &domain.OCRMerchant{Name: "Fresh Mart"},
		Total:    floatPtr(12.50),
		Tax:      floatPtr(1.00),
		Date:     "03/15/2024",
		Items: []domain.OCRItem{
			{Description: "Organic Milk", Amount: floatPtr(4.99)},
		},
	}}
	f := newFixture(ocrClient)
	rawPath := writeUpload(t)

	res, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "u@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.OcrProcessed {
		t.Fatal("ocr_processed should be true")
	}
	if res.ItemsFound != 1 {
		t.Fatalf("items_found = %d, want 1", res.ItemsFound)
	}

	created := f.expenseRepo.created
	if created.Title != "Fresh Mart - Receipt" {
		t.Fatalf("title = %q", created.Title)
	}
	if created.TotalAmount.String() != "12.5" || created.TaxAmount.String() != "1" {
		t.Fatalf("amounts = %s / %s", created.TotalAmount, created.TaxAmount)
	}
	if created.ExpenseDate.Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("expense_date = %s", created.ExpenseDate.Format("2006-01-02"))
	}
	if !created.ReceiptParsed {
		t.Fatal("receipt_parsed should be true")
	}
	if created.SupermarketID == nil {
		t.Fatal("supermarket should be resolved")
	}
	if len(f.supermarkets.calls) != 1 || f.supermarkets.calls[0] != "Fresh Mart" {
		t.Fatalf("merchant resolution calls = %v", f.supermarkets.calls)
	}

	if len(f.groceries.received) != 1 {
		t.Fatalf("persisted items = %d, want 1", len(f.groceries.received))
	}
	item := f.groceries.received[0]
	if item.ItemName != "Organic Milk" || item.Category != "dairy" {
		t.Fatalf("item = %+v", item)
	}

	if ocrClient.lastPath == rawPath {
		t.Fatal("ocr must receive the optimized image, not the raw upload")
	}
	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Fatal("raw upload must be deleted")
	}
}

func TestProcessReceipt_RejectsInvalidImage(t *testing.T) {
	f := newFixture(&fakeOCRClient{})
	rawPath := filepath.Join(t.TempDir(), "garbage.jpg")
	if err := os.WriteFile(rawPath, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	_, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "")
	if !errors.Is(err, domain.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}

	if f.expenseRepo.created != nil {
		t.Fatal("no expense row may exist after validation rejection")
	}
	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Fatal("rejected upload must be deleted")
	}
}

func TestProcessReceipt_PersistenceFailureCleansUp(t *testing.T) {
	f := newFixture(&fakeOCRClient{err: domain.ErrOcrUnavailable})
	f.expenseRepo.createErr = errors.New("db down")
	rawPath := writeUpload(t)
	optimizedPath := filepath.Join(filepath.Dir(rawPath), "optimized_"+filepath.Base(rawPath))

	_, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "")
	if err == nil {
		t.Fatal("persistence failure must surface")
	}

	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Fatal("raw upload must be deleted")
	}
	if _, err := os.Stat(optimizedPath); !os.IsNotExist(err) {
		t.Fatal("optimized image must not be retained without a committed expense row")
	}
}

func TestGetReceiptImagePath_Thumbnail(t *testing.T) {
	f := newFixture(&fakeOCRClient{err: domain.ErrOcrUnavailable})
	rawPath := writeUpload(t)

	res, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	path, err := f.service.GetReceiptImagePath(context.Background(), res.Expense.ID, "auth-1", true)
	if err != nil {
		t.Fatalf("thumbnail path: %v", err)
	}
	if filepath.Base(path)[:6] != "thumb_" {
		t.Fatalf("expected thumb_ file, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("thumbnail not generated: %v", err)
	}
}

func TestGetReceiptImagePath_DeniesForeignExpense(t *testing.T) {
	f := newFixture(&fakeOCRClient{err: domain.ErrOcrUnavailable})
	rawPath := writeUpload(t)

	res, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	// another identity maps to another user row
	f.userRepo.user = &entities.User{ID: uuid.New(), AuthID: "auth-2"}
	_, err = f.service.GetReceiptImagePath(context.Background(), res.Expense.ID, "auth-2", false)
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestDeleteReceiptImage(t *testing.T) {
	f := newFixture(&fakeOCRClient{err: domain.ErrOcrUnavailable})
	rawPath := writeUpload(t)

	res, err := f.service.ProcessReceipt(context.Background(), domain.ProcessReceiptRequest{FilePath: rawPath}, "auth-1", "")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	imagePath := f.expenseRepo.created.ReceiptImagePath

	if err := f.service.DeleteReceiptImage(context.Background(), res.Expense.ID, "auth-1"); err != nil {
		t.Fatalf("delete receipt image: %v", err)
	}

	if _, err := os.Stat(imagePath); !os.IsNotExist(err) {
		t.Fatal("receipt image file should be gone")
	}
	if f.expenseRepo.created.ReceiptImagePath != "" || f.expenseRepo.created.ReceiptParsed {
		t.Fatal("expense should no longer reference the image")
	}
}
