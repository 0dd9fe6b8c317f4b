package handlers

import (
	"strconv"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/internal/api/presenters"
	"grocery-budget-backend/pkg/category"
	"grocery-budget-backend/pkg/supermarket"

	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		GetCategories(c *fiber.Ctx) error
		GetSupermarkets(c *fiber.Ctx) error
	}

	catalogHandler struct {
		categoryService    category.CategoryService
		supermarketService supermarket.SupermarketService
	}
)

func NewCatalogHandler(categoryService category.CategoryService, supermarketService supermarket.SupermarketService) CatalogHandler {
	return &catalogHandler{
		categoryService:    categoryService,
		supermarketService: supermarketService,
	}
}

func (h *catalogHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.GetCategories(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetCategories, err)
	}
	return presenters.SuccessResponse(c, categories, fiber.StatusOK, domain.MessageSuccessGetCategories)
}

func (h *catalogHandler) GetSupermarkets(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	supermarkets, count, err := h.supermarketService.GetSupermarkets(c.Context(), c.Query("search"), page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetSupermarkets, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"supermarkets": supermarkets,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": count,
		},
	}, fiber.StatusOK, domain.MessageSuccessGetSupermarkets)
}
