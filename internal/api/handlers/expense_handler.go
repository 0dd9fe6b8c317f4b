package handlers

import (
	"strconv"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/internal/api/presenters"
	"grocery-budget-backend/pkg/expense"

	"github.com/gofiber/fiber/v2"
)

type (
	ExpenseHandler interface {
		GetExpenses(c *fiber.Ctx) error
		GetExpenseDetails(c *fiber.Ctx) error
		GetExpenseItems(c *fiber.Ctx) error
		DeleteExpense(c *fiber.Ctx) error
		GetDashboard(c *fiber.Ctx) error
	}

	expenseHandler struct {
		expenseService expense.ExpenseService
	}
)

func NewExpenseHandler(expenseService expense.ExpenseService) ExpenseHandler {
	return &expenseHandler{expenseService: expenseService}
}

func (h *expenseHandler) GetExpenses(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	query := domain.ExpenseListQuery{
		Page:      page,
		Limit:     limit,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Category:  c.Query("category"),
	}
	if raw := c.Query("is_grocery"); raw != "" {
		isGrocery := raw == "true"
		query.IsGrocery = &isGrocery
	}

	expenses, count, err := h.expenseService.GetExpenses(c.Context(), authID, query)
	if err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), domain.MessageFailedGetExpenses, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"expenses": expenses,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetExpenses)
}

func (h *expenseHandler) GetExpenseDetails(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	res, err := h.expenseService.GetExpenseByID(c.Context(), expenseID, authID)
	if err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), domain.MessageFailedGetExpenses, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetExpense)
}

func (h *expenseHandler) GetExpenseItems(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	items, err := h.expenseService.GetExpenseItems(c.Context(), expenseID, authID)
	if err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), domain.MessageFailedGetExpenseItems, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusOK, domain.MessageSuccessGetExpenseItems)
}

func (h *expenseHandler) DeleteExpense(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	if err := h.expenseService.DeleteExpense(c.Context(), expenseID, authID); err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), domain.MessageFailedDeleteExpense, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteExpense)
}

func (h *expenseHandler) GetDashboard(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	month := c.Query("month")

	res, err := h.expenseService.GetDashboard(c.Context(), authID, month)
	if err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}
