package config

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// SeedDatabase loads the fixed initial dataset on first run. If any
// user rows already exist the store is considered initialized and
// nothing is touched. Returns true when seeding actually happened.
func SeedDatabase(db *gorm.DB) (bool, error) {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return false, fmt.Errorf("failed to check for existing data: %w", err)
	}
	if userCount > 0 {
		log.Println("Existing data found, skipping seed")
		return false, nil
	}

	log.Println("Empty store detected, loading seed dataset")

	users := []queries.CreateUserParams{
		{Name: "Sara Ahmadi", Email: "admin@ctrlmarket.com", Phone: "09120000001", Role: models.RoleAdmin, Password: "admin123"},
		{Name: "Reza Karimi", Email: "reza@ctrlmarket.com", Phone: "09120000002", Role: models.RoleSpecialist, Password: "specialist123"},
		{Name: "Neda Hosseini", Email: "neda@ctrlmarket.com", Phone: "09120000003", Role: models.RoleSpecialist, Password: "specialist123"},
		{Name: "Mohammad Rahimi", Email: "mohammad@example.com", Phone: "09123456789", Role: models.RoleCustomer, Password: "customer123"},
		{Name: "Ali Akbari", Email: "ali@example.com", Phone: "09121112233", Role: models.RoleCustomer, Password: "customer123"},
		{Name: "Maryam Sadeghi", Email: "maryam@example.com", Phone: "09124445566", Role: models.RoleCustomer, Password: "customer123"},
	}

	created := make(map[string]*models.User, len(users))
	for _, p := range users {
		user, err := queries.CreateUser(db, p)
		if err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", p.Email, err)
		}
		created[p.Email] = user
	}

	products := []queries.CreateProductParams{
		{Name: "Smart Door Lock", Category: "Security", Price: 89.99},
		{Name: "Security Camera", Category: "Security", Price: 129.99},
		{Name: "Video Doorbell", Category: "Security", Price: 99.99},
		{Name: "Smart Thermostat", Category: "Climate Control", Price: 149.99},
		{Name: "Smart Light Bulb Pack", Category: "Lighting", Price: 39.99},
		{Name: "Smart Plug", Category: "Energy", Price: 19.99},
		{Name: "Mesh WiFi Router", Category: "Networking", Price: 199.99},
		{Name: "Ceiling Speaker", Category: "Audio", Price: 79.99},
		{Name: "Robot Vacuum", Category: "Appliances", Price: 299.99},
	}

	productIDs := make([]uint, 0, len(products))
	for _, p := range products {
		product, err := queries.CreateProduct(db, p)
		if err != nil {
			return false, fmt.Errorf("failed to seed product %s: %w", p.Name, err)
		}
		productIDs = append(productIDs, product.ID)
	}

	mohammad := created["mohammad@example.com"]
	ali := created["ali@example.com"]
	maryam := created["maryam@example.com"]
	reza := created["reza@ctrlmarket.com"]

	// Sample orders: one pending, one completed.
	pendingOrder := queries.CreateOrderParams{
		UserID: mohammad.ID,
		Items: []queries.OrderItemInput{
			{ProductID: productIDs[0], Quantity: 1},
			{ProductID: productIDs[4], Quantity: 2},
		},
	}
	if _, err := queries.CreateOrder(db, pendingOrder); err != nil {
		return false, fmt.Errorf("failed to seed order: %w", err)
	}

	completedOrder := queries.CreateOrderParams{
		UserID: ali.ID,
		Items: []queries.OrderItemInput{
			{ProductID: productIDs[3], Quantity: 1},
		},
	}
	order, err := queries.CreateOrder(db, completedOrder)
	if err != nil {
		return false, fmt.Errorf("failed to seed order: %w", err)
	}
	if _, err := queries.CompleteOrder(db, order.ID); err != nil {
		return false, fmt.Errorf("failed to seed completed order: %w", err)
	}

	// Sample service requests: one claimed, one still unassigned.
	claimed, err := queries.CreateServiceRequest(db, queries.CreateServiceRequestParams{
		ServiceType: models.ServiceTypeInstallation,
		CustomerID:  mohammad.ID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed service request: %w", err)
	}
	if _, err := queries.AssignSpecialist(db, claimed.ID, reza.ID); err != nil {
		return false, fmt.Errorf("failed to seed specialist assignment: %w", err)
	}

	if _, err := queries.CreateServiceRequest(db, queries.CreateServiceRequestParams{
		ServiceType: models.ServiceTypeSupport,
		CustomerID:  maryam.ID,
	}); err != nil {
		return false, fmt.Errorf("failed to seed service request: %w", err)
	}

	log.Println("Seed dataset loaded successfully")
	return true, nil
}
