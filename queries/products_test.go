package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

func TestCreateAndGetProduct(t *testing.T) {
	db := setupTestDB(t)

	product, err := CreateProduct(db, CreateProductParams{
		Name:     "Smart Thermostat",
		Category: "Climate Control",
		Price:    149.99,
	})

	assert.NoError(t, err)
	assert.NotZero(t, product.ID)

	fetched, err := GetProductByID(db, product.ID)
	assert.NoError(t, err)
	assert.NotNil(t, fetched)
	assert.Equal(t, "Smart Thermostat", fetched.Name)
	assert.Equal(t, 149.99, fetched.Price)
	assert.Nil(t, fetched.ImageS3Key)
}

func TestGetProductByIDMissing(t *testing.T) {
	db := setupTestDB(t)

	product, err := GetProductByID(db, 99999)

	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestListProductsFilters(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "Smart Door Lock", "Security", 89.99)
	createTestProduct(t, db, "Security Camera", "Security", 129.99)
	createTestProduct(t, db, "Smart Light Bulb Pack", "Lighting", 39.99)

	tests := []struct {
		name          string
		filter        ProductFilter
		expectedCount int
		expectedFirst string
	}{
		{
			name:          "no filter returns catalog ordered by name",
			filter:        ProductFilter{},
			expectedCount: 3,
			expectedFirst: "Security Camera",
		},
		{
			name:          "category filter",
			filter:        ProductFilter{Category: "Security"},
			expectedCount: 2,
			expectedFirst: "Security Camera",
		},
		{
			name:          "search is case-insensitive on name",
			filter:        ProductFilter{Search: "SMART"},
			expectedCount: 2,
			expectedFirst: "Smart Door Lock",
		},
		{
			name:          "search matches category",
			filter:        ProductFilter{Search: "light"},
			expectedCount: 1,
			expectedFirst: "Smart Light Bulb Pack",
		},
		{
			name:          "category and search combine with AND",
			filter:        ProductFilter{Category: "Lighting", Search: "camera"},
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := ListProducts(db, tt.filter)
			assert.NoError(t, err)
			assert.Len(t, products, tt.expectedCount)
			if tt.expectedCount > 0 {
				assert.Equal(t, tt.expectedFirst, products[0].Name)
			}
		})
	}
}

func TestListProductCategories(t *testing.T) {
	db := setupTestDB(t)
	createTestProduct(t, db, "Smart Door Lock", "Security", 89.99)
	createTestProduct(t, db, "Security Camera", "Security", 129.99)
	createTestProduct(t, db, "Smart Plug", "Energy", 19.99)
	createTestProduct(t, db, "Smart Light Bulb Pack", "Lighting", 39.99)

	categories, err := ListProductCategories(db)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Energy", "Lighting", "Security"}, categories,
		"Categories must be distinct and ordered")
}

func TestUpdateProductPartial(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "Robot Vacuum", "Appliances", 299.99)

	updated, err := UpdateProduct(db, product.ID, UpdateProductParams{
		Price: floatPtr(249.99),
	})

	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, 249.99, updated.Price)
	assert.Equal(t, "Robot Vacuum", updated.Name)
	assert.Equal(t, "Appliances", updated.Category)
}

func TestUpdateProductNoFieldsReturnsCurrentRow(t *testing.T) {
	db := setupTestDB(t)
	product := createTestProduct(t, db, "Mesh WiFi Router", "Networking", 199.99)

	updated, err := UpdateProduct(db, product.ID, UpdateProductParams{})

	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.Equal(t, product.ID, updated.ID)
	assert.Equal(t, 199.99, updated.Price)
}

func TestUpdateProductMissing(t *testing.T) {
	db := setupTestDB(t)

	updated, err := UpdateProduct(db, 99999, UpdateProductParams{Price: floatPtr(10)})

	assert.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateProductPriceKeepsOrderSnapshots(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "Mohammad Rahimi", "mohammad@example.com", models.RoleCustomer)
	product := createTestProduct(t, db, "Ceiling Speaker", "Audio", 79.99)

	order, err := CreateOrder(db, CreateOrderParams{
		UserID: customer.ID,
		Items:  []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	_, err = UpdateProduct(db, product.ID, UpdateProductParams{Price: floatPtr(999.99)})
	assert.NoError(t, err)

	reloaded, err := GetOrderByID(db, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 79.99, reloaded.Items[0].UnitPrice,
		"Unit prices are snapshots and must survive catalog price changes")
	assert.Equal(t, 79.99, reloaded.TotalPrice)
}

func TestDeleteProductRestrictedByOrderItem(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "Ali Akbari", "ali@example.com", models.RoleCustomer)
	referenced := createTestProduct(t, db, "Smart Door Lock", "Security", 89.99)
	unreferenced := createTestProduct(t, db, "Video Doorbell", "Security", 99.99)

	_, err := CreateOrder(db, CreateOrderParams{
		UserID: customer.ID,
		Items:  []OrderItemInput{{ProductID: referenced.ID, Quantity: 1}},
	})
	assert.NoError(t, err)

	// Referenced product: refused, reported as not deleted, still there.
	deleted, err := DeleteProduct(db, referenced.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)

	still, err := GetProductByID(db, referenced.ID)
	assert.NoError(t, err)
	assert.NotNil(t, still, "A refused delete must leave the product untouched")

	// Unreferenced product: deleted normally.
	deleted, err = DeleteProduct(db, unreferenced.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	gone, err := GetProductByID(db, unreferenced.ID)
	assert.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeleteProductMissing(t *testing.T) {
	db := setupTestDB(t)

	deleted, err := DeleteProduct(db, 99999)

	assert.NoError(t, err)
	assert.False(t, deleted)
}
