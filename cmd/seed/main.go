package main

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var sampleProducts = []domain.Product{
	{
		Name:        "Wireless Bluetooth Headphones",
		Description: "Premium over-ear wireless headphones with active noise cancellation and 30-hour battery life. Perfect for music lovers and professionals.",
		Price:       decimal.NewFromFloat(299.99),
		ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500&h=500&fit=crop",
	},
	{
		Name:        "Smart Fitness Watch",
		Description: "Advanced fitness tracker with heart rate monitoring, GPS, sleep tracking, and 7-day battery life. Water-resistant design.",
		Price:       decimal.NewFromFloat(249.99),
		ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500&h=500&fit=crop",
	},
	{
		Name:        "USB-C Laptop Charger",
		Description: "Universal 65W USB-C laptop charger compatible with most modern laptops. Compact design with fast charging technology.",
		Price:       decimal.NewFromFloat(49.99),
		ImageURL:    "https://images.unsplash.com/photo-1583394838336-acd977736f90?w=500&h=500&fit=crop",
	},
	{
		Name:        "Mechanical Gaming Keyboard",
		Description: "RGB backlit mechanical keyboard with custom switches. Perfect for gaming and typing with premium build quality.",
		Price:       decimal.NewFromFloat(159.99),
		ImageURL:    "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=500&h=500&fit=crop",
	},
	{
		Name:        "Wireless Mouse",
		Description: "Ergonomic wireless mouse with precision tracking and long-lasting battery. Comfortable grip for extended use.",
		Price:       decimal.NewFromFloat(79.99),
		ImageURL:    "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500&h=500&fit=crop",
	},
	{
		Name:        "Portable Phone Stand",
		Description: "Adjustable aluminum phone stand for desk use. Compatible with all smartphone sizes and tablets up to 11 inches.",
		Price:       decimal.NewFromFloat(24.99),
		ImageURL:    "https://images.unsplash.com/photo-1512820790803-83ca734da794?w=500&h=500&fit=crop",
	},
	{
		Name:        "Wireless Charging Pad",
		Description: "15W fast wireless charging pad with LED indicator. Compatible with all Qi-enabled devices including latest smartphones.",
		Price:       decimal.NewFromFloat(39.99),
		ImageURL:    "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=500&h=500&fit=crop",
	},
	{
		Name:        "Bluetooth Speaker",
		Description: "Portable waterproof Bluetooth speaker with 360-degree sound and 12-hour battery. Perfect for outdoor activities.",
		Price:       decimal.NewFromFloat(89.99),
		ImageURL:    "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=500&h=500&fit=crop",
	},
	{
		Name:        "Laptop Stand",
		Description: "Adjustable aluminum laptop stand with cooling design. Improves posture and increases airflow for better performance.",
		Price:       decimal.NewFromFloat(69.99),
		ImageURL:    "https://images.unsplash.com/photo-1527906190468-7a720c80a3b8?w=500&h=500&fit=crop",
	},
	{
		Name:        "Cable Management Kit",
		Description: "Complete cable organization solution with various clips, ties, and holders. Keep your workspace clean and organized.",
		Price:       decimal.NewFromFloat(19.99),
		ImageURL:    "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=500&h=500&fit=crop",
	},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	db := dbService.DB()

	// Clearing products cascades to any cart lines referencing them
	if _, err := db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		log.Fatal("Failed to clear existing products", zap.Error(err))
	}
	log.Info("Cleared existing catalog")

	productRepo := repository.NewProductRepository(db)

	total := decimal.Zero
	for i := range sampleProducts {
		product := sampleProducts[i]
		if err := productRepo.Create(ctx, &product); err != nil {
			log.Fatal("Failed to seed product",
				zap.String("name", product.Name),
				zap.Error(err),
			)
		}
		total = total.Add(product.Price)
		log.Info("Seeded product",
			zap.Int64("id", product.ID),
			zap.String("name", product.Name),
			zap.String("price", product.Price.String()),
		)
	}

	log.Info("Database seeding completed",
		zap.Int("products", len(sampleProducts)),
		zap.String("catalog_value", total.String()),
	)
}
