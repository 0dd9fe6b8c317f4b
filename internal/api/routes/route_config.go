package routes

import (
	"grocery-budget-backend/internal/api/handlers"
	"grocery-budget-backend/internal/middleware"
	"grocery-budget-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UploadHandler  handlers.UploadHandler
	ExpenseHandler handlers.ExpenseHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Upload()
	c.Expenses()
	c.Catalog()
	c.GuestRoute()
}

func (c *Config) Upload() {
	upload := c.App.Group("/api/v1/upload", c.Middleware.AuthMiddleware(c.JWTService))
	{
		upload.Post("/receipt", c.UploadHandler.UploadReceipt)
		upload.Get("/receipt/:id/image", c.UploadHandler.GetReceiptImage)
		upload.Delete("/receipt/:id/image", c.UploadHandler.DeleteReceiptImage)
	}
}

func (c *Config) Expenses() {
	expenses := c.App.Group("/api/v1/expenses", c.Middleware.AuthMiddleware(c.JWTService))
	{
		expenses.Get("/dashboard", c.ExpenseHandler.GetDashboard)
		expenses.Get("", c.ExpenseHandler.GetExpenses)
		expenses.Get("/:id", c.ExpenseHandler.GetExpenseDetails)
		expenses.Get("/:id/items", c.ExpenseHandler.GetExpenseItems)
		expenses.Delete("/:id", c.ExpenseHandler.DeleteExpense)
	}
}

func (c *Config) Catalog() {
	api := c.App.Group("/api/v1", c.Middleware.AuthMiddleware(c.JWTService))
	{
		api.Get("/categories", c.CatalogHandler.GetCategories)
		api.Get("/supermarkets", c.CatalogHandler.GetSupermarkets)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
