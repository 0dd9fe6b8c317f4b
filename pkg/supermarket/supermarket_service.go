package supermarket

import (
	"context"
	"errors"
	"strings"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SupermarketService interface {
		GetOrCreate(ctx context.Context, name string) (*entities.Supermarket, error)
		GetSupermarkets(ctx context.Context, search string, page, limit int) ([]domain.SupermarketResponse, int64, error)
	}

	supermarketService struct {
		supermarketRepository SupermarketRepository
	}
)

func NewSupermarketService(supermarketRepository SupermarketRepository) SupermarketService {
	return &supermarketService{supermarketRepository: supermarketRepository}
}

// GetOrCreate maps a free-text merchant name to its canonical row,
// case-insensitively. Concurrent uploads naming the same new merchant race
// on the normalized-name uniqueness constraint; the loser re-fetches the now
// existing row instead of surfacing the conflict.
func (s *supermarketService) GetOrCreate(ctx context.Context, name string) (*entities.Supermarket, error) {
	trimmed := strings.TrimSpace(name)
	normalized := strings.ToLower(trimmed)

	existing, err := s.supermarketRepository.FindByNormalizedName(ctx, normalized)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	supermarket := &entities.Supermarket{
		ID:             uuid.New(),
		Name:           trimmed,
		NormalizedName: normalized,
	}
	if err := s.supermarketRepository.Create(ctx, supermarket); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.supermarketRepository.FindByNormalizedName(ctx, normalized)
		}
		return nil, err
	}
	return supermarket, nil
}

func (s *supermarketService) GetSupermarkets(ctx context.Context, search string, page, limit int) ([]domain.SupermarketResponse, int64, error) {
	supermarkets, count, err := s.supermarketRepository.GetAll(ctx, search, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.SupermarketResponse
	for _, supermarket := range supermarkets {
		response = append(response, domain.SupermarketResponse{
			ID:       supermarket.ID.String(),
			Name:     supermarket.Name,
			Location: supermarket.Location,
		})
	}
	return response, count, nil
}
