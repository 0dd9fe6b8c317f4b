package main

import (
	"context"
	"log"

	"grocery-budget-backend/cmd/config"
	migration "grocery-budget-backend/cmd/database/migrate"
	"grocery-budget-backend/internal/utils"
	"grocery-budget-backend/pkg/category"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	categoryService := category.NewCategoryService(category.NewCategoryRepository(db))
	if err := categoryService.EnsureDefaults(context.Background()); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	port := utils.GetConfig("PORT")
	if port == "" {
		port = "3000"
	}
	log.Fatal(app.Listen(":" + port))
}
