package queries

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

// setupTestDB opens an in-memory SQLite database with foreign keys
// enforced and all tables migrated. One connection max, so the pragma
// applies to every statement.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ServiceRequest{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	user, err := CreateUser(db, CreateUserParams{
		Name:     name,
		Email:    email,
		Phone:    "09120000000",
		Role:     role,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name, category string, price float64) *models.Product {
	t.Helper()

	product, err := CreateProduct(db, CreateProductParams{
		Name:     name,
		Category: category,
		Price:    price,
	})
	if err != nil {
		t.Fatalf("Failed to create test product %s: %v", name, err)
	}
	return product
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func uintPtr(u uint) *uint { return &u }
