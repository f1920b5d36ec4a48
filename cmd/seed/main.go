package main

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"calorista/internal/config"
	"calorista/internal/db"
	"calorista/internal/model"
	"calorista/internal/repository"
)

const (
	demoEmail    = "demo@calorista.dev"
	demoPassword = "password123"
	demoName     = "Demo User"
)

// Staple products so a fresh install can exercise barcode lookups without
// hitting Open Food Facts.
var stapleProducts = []model.Product{
	product("7622210449283", "Milka Alpine Milk Chocolate", "Milka", 530, 6.3, 29.5, 59),
	product("3017620422003", "Nutella", "Ferrero", 539, 6.3, 30.9, 57.5),
	product("5449000000996", "Coca-Cola", "Coca-Cola", 42, 0, 0, 10.6),
	product("4000417025005", "Ritter Sport Marzipan", "Ritter Sport", 497, 6.7, 26, 55),
	product("8076809513753", "Fusilli", "Barilla", 359, 12, 2, 71.7),
	product("737628064502", "Rice Noodles", "Thai Kitchen", 385, 7.5, 1.5, 83.3),
}

func product(barcode, name, brand string, kcal, protein, fat, carbs float64) model.Product {
	return model.Product{
		Barcode:  barcode,
		Name:     name,
		Brand:    &brand,
		Calories: &kcal,
		Protein:  &protein,
		Fat:      &fat,
		Carbs:    &carbs,
	}
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Meal{}, &model.Product{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	if err := seedDemoUser(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}

	created, skipped, err := seedProducts(ctx, productRepo)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Products created: %d", created)
	log.Printf("  - Products already present: %d", skipped)
}

func seedDemoUser(ctx context.Context, repo repository.UserRepository) error {
	if _, err := repo.FindByEmail(ctx, demoEmail); err == nil {
		log.Printf("Demo user %s already exists", demoEmail)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:        demoEmail,
		Name:         demoName,
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Created demo user %s (password: %s)", demoEmail, demoPassword)
	return nil
}

func seedProducts(ctx context.Context, repo repository.ProductRepository) (created, skipped int, err error) {
	for _, p := range stapleProducts {
		if _, err := repo.FindByBarcode(ctx, p.Barcode); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, err
		}

		product := p
		if err := repo.Create(ctx, &product); err != nil {
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
