package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

var DB *gorm.DB

// ConnectDatabase establishes the database connection. The embedded
// sqlite store is the default; a postgres:// DATABASE_URL switches to
// PostgreSQL without any other code change.
func ConnectDatabase() error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to the local embedded store for development
		databaseURL = "file:ctrlmarket.db?_foreign_keys=on"
		log.Println("DATABASE_URL not set, using embedded sqlite store:", databaseURL)
	}

	var err error
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
		if err == nil {
			// Referential integrity is opt-in on sqlite; the cascade and
			// restrict rules in the schema depend on it.
			err = DB.Exec("PRAGMA foreign_keys = ON").Error
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// MigrateDatabase creates or updates all tables
func MigrateDatabase() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ServiceRequest{},
	)
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
