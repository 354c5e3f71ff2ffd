package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// setupControllerTest wires an in-memory database and a test config
// into the package globals the handlers read.
func setupControllerTest(t *testing.T) *gorm.DB {
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
	config.SetConfig(&config.Config{
		JWTSecret: "test-secret",
		GoEnv:     "test",
		Port:      "8080",
	})

	return db
}

func createUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()

	user, err := queries.CreateUser(db, queries.CreateUserParams{
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

func createProduct(t *testing.T, db *gorm.DB, name, category string, price float64) *models.Product {
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

func sessionFor(user *models.User) queries.SessionUser {
	return queries.SessionUserFrom(user)
}

// newTestRouter builds a bare router; when a session is given, every
// request runs with that identity already in context.
func newTestRouter(session *queries.SessionUser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if session != nil {
		router.Use(func(c *gin.Context) {
			middleware.SetSessionForTesting(c, *session)
		})
	}
	return router
}

// doRequest performs a JSON request and decodes the envelope.
func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}

func responseData(t *testing.T, response map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no data object: %v", response)
	}
	return data
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()

	if w.Code != expected {
		t.Fatalf("Expected status %d, got %d: %s", expected, w.Code, w.Body.String())
	}
}
