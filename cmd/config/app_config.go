package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"grocery-budget-backend/internal/api/handlers"
	"grocery-budget-backend/internal/api/routes"
	"grocery-budget-backend/internal/middleware"
	"grocery-budget-backend/internal/utils"
	"grocery-budget-backend/pkg/category"
	"grocery-budget-backend/pkg/expense"
	"grocery-budget-backend/pkg/files"
	"grocery-budget-backend/pkg/grocery"
	"grocery-budget-backend/pkg/jwt"
	"grocery-budget-backend/pkg/ocr"
	"grocery-budget-backend/pkg/supermarket"
	"grocery-budget-backend/pkg/upload"
	"grocery-budget-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         12 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	fileUtils := files.NewFileUtils()
	uploadDir := utils.GetConfig("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	receiptsDir := filepath.Join(uploadDir, "receipts")
	if err := fileUtils.EnsureDir(receiptsDir); err != nil {
		log.Fatalf("error creating receipts directory: %v", err)
	}

	maxAgeDays := 30
	if raw := utils.GetConfig("RECEIPT_MAX_AGE_DAYS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxAgeDays = parsed
		}
	}
	fileUtils.StartSweeper(receiptsDir, time.Duration(maxAgeDays)*24*time.Hour, 24*time.Hour)

	ocrTimeout := 30 * time.Second
	if raw := utils.GetConfig("OCR_TIMEOUT_SECONDS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ocrTimeout = time.Duration(parsed) * time.Second
		}
	}
	ocrClient := ocr.NewClient(ocr.Config{
		APIURL:  utils.GetConfig("OCR_API_URL"),
		APIKey:  utils.GetConfig("OCR_API_KEY"),
		Timeout: ocrTimeout,
	})

	// Repository
	userRepository := user.NewUserRepository(db)
	categoryRepository := category.NewCategoryRepository(db)
	supermarketRepository := supermarket.NewSupermarketRepository(db)
	groceryRepository := grocery.NewGroceryRepository(db)
	expenseRepository := expense.NewExpenseRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	categoryService := category.NewCategoryService(categoryRepository)
	supermarketService := supermarket.NewSupermarketService(supermarketRepository)
	groceryService := grocery.NewGroceryService(groceryRepository)
	expenseService := expense.NewExpenseService(expenseRepository, groceryService, userRepository, fileUtils)
	uploadService := upload.NewUploadService(
		userRepository,
		expenseRepository,
		categoryRepository,
		supermarketService,
		groceryService,
		ocrClient,
		fileUtils,
	)

	// Handler
	uploadHandler := handlers.NewUploadHandler(uploadService, validator, receiptsDir)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	catalogHandler := handlers.NewCatalogHandler(categoryService, supermarketService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UploadHandler:  uploadHandler,
		ExpenseHandler: expenseHandler,
		CatalogHandler: catalogHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
