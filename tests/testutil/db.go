package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// SetupTestDB opens an in-memory store with foreign keys enforced, all
// tables migrated, and the config globals pointing at it.
func SetupTestDB(t *testing.T) *gorm.DB {
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

	config.SetDB(db)
	config.SetConfig(TestConfig())

	return db
}

// TestConfig returns the configuration the integration suites run with.
func TestConfig() *config.Config {
	return &config.Config{
		Port:      "8080",
		GoEnv:     "test",
		JWTSecret: "test-secret",
		LogLevel:  "error",
	}
}

// CreateUser inserts a user through the data-access layer so the
// password round-trips through bcrypt like production accounts.
func CreateUser(t *testing.T, db *gorm.DB, name, email, role, password string) *models.User {
	t.Helper()

	user, err := queries.CreateUser(db, queries.CreateUserParams{
		Name:     name,
		Email:    email,
		Phone:    "09120000000",
		Role:     role,
		Password: password,
	})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", email, err)
	}
	return user
}

// CreateProduct inserts a catalog product.
func CreateProduct(t *testing.T, db *gorm.DB, name, category string, price float64) *models.Product {
	t.Helper()

	product, err := queries.CreateProduct(db, queries.CreateProductParams{
		Name:     name,
		Category: category,
		Price:    price,
	})
	if err != nil {
		t.Fatalf("Failed to create test product %s: %v", name, err)
	}
	return product
}
