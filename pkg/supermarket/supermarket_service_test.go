package supermarket

import (
	"context"
	"testing"

	"grocery-budget-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeSupermarketRepo struct {
	rows      map[string]*entities.Supermarket
	createErr error
	creates   int
}

func newFakeSupermarketRepo() *fakeSupermarketRepo {
	return &fakeSupermarketRepo{rows: map[string]*entities.Supermarket{}}
}

func (f *fakeSupermarketRepo) FindByNormalizedName(ctx context.Context, normalized string) (*entities.Supermarket, error) {
	if row, ok := f.rows[normalized]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSupermarketRepo) Create(ctx context.Context, supermarket *entities.Supermarket) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.rows[supermarket.NormalizedName]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.rows[supermarket.NormalizedName] = supermarket
	return nil
}

func (f *fakeSupermarketRepo) GetAll(ctx context.Context, search string, page, limit int) ([]*entities.Supermarket, int64, error) {
	var rows []*entities.Supermarket
	for _, row := range f.rows {
		rows = append(rows, row)
	}
	return rows, int64(len(rows)), nil
}

func TestGetOrCreate_CreatesNewMerchant(t *testing.T) {
	repo := newFakeSupermarketRepo()
	service := NewSupermarketService(repo)

	row, err := service.GetOrCreate(context.Background(), "  Fresh Mart  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Name != "Fresh Mart" {
		t.Fatalf("name = %q, want trimmed display name", row.Name)
	}
	if row.NormalizedName != "fresh mart" {
		t.Fatalf("normalized = %q", row.NormalizedName)
	}
}

func TestGetOrCreate_CaseInsensitiveReuse(t *testing.T) {
	repo := newFakeSupermarketRepo()
	service := NewSupermarketService(repo)

	first, err := service.GetOrCreate(context.Background(), "Fresh Mart")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := service.GetOrCreate(context.Background(), "FRESH MART")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("case variants resolved to different rows: %s vs %s", first.ID, second.ID)
	}
	if repo.creates != 1 {
		t.Fatalf("creates = %d, want 1", repo.creates)
	}
}

// racingSupermarketRepo loses the insert race: the first lookup misses,
// the create hits the uniqueness constraint because another writer
// committed in between, and the refetch sees the winner's row.
type racingSupermarketRepo struct {
	fakeSupermarketRepo
	winner  *entities.Supermarket
	lookups int
}

func (f *racingSupermarketRepo) FindByNormalizedName(ctx context.Context, normalized string) (*entities.Supermarket, error) {
	f.lookups++
	if f.lookups == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return f.winner, nil
}

func (f *racingSupermarketRepo) Create(ctx context.Context, supermarket *entities.Supermarket) error {
	return gorm.ErrDuplicatedKey
}

func TestGetOrCreate_RefetchesOnDuplicateKey(t *testing.T) {
	winner := &entities.Supermarket{ID: uuid.New(), Name: "Fresh Mart", NormalizedName: "fresh mart"}
	repo := &racingSupermarketRepo{winner: winner}
	service := NewSupermarketService(repo)

	row, err := service.GetOrCreate(context.Background(), "Fresh Mart")
	if err != nil {
		t.Fatalf("losing the insert race must not surface an error: %v", err)
	}
	if row.ID != winner.ID {
		t.Fatalf("expected the committed row, got %s", row.ID)
	}
	if repo.lookups != 2 {
		t.Fatalf("lookups = %d, want miss then refetch", repo.lookups)
	}
}
