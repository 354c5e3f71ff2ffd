package queries

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

// CreateProductParams carries the validated payload for creating a product.
type CreateProductParams struct {
	Name     string
	Category string
	Price    float64
}

// UpdateProductParams is a field-level PATCH: only non-nil fields are written.
type UpdateProductParams struct {
	Name       *string
	Category   *string
	Price      *float64
	ImageS3Key *string
}

// ProductFilter narrows ListProducts. Search matches name and category.
type ProductFilter struct {
	Category string
	Search   string
}

// CreateProduct creates a new catalog product.
func CreateProduct(db *gorm.DB, p CreateProductParams) (*models.Product, error) {
	product := models.Product{
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByID returns the product or nil when no row matches.
func GetProductByID(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListProducts lists products, filters combined with AND, ordered by name.
func ListProducts(db *gorm.DB, f ProductFilter) ([]models.Product, error) {
	query := db.Model(&models.Product{})

	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?)",
			pattern, pattern,
		)
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListProductCategories lists the distinct categories, ordered.
func ListProductCategories(db *gorm.DB) ([]string, error) {
	var categories []string
	err := db.Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateProduct applies the supplied fields only. A zero-field update is
// a no-op that returns the current row. Returns nil when no row matches.
// Changing the price never touches existing order items: their unit
// price is a snapshot taken at order time.
func UpdateProduct(db *gorm.DB, id uint, p UpdateProductParams) (*models.Product, error) {
	updates := make(map[string]interface{})
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Category != nil {
		updates["category"] = *p.Category
	}
	if p.Price != nil {
		updates["price"] = *p.Price
	}
	if p.ImageS3Key != nil {
		updates["image_s3_key"] = *p.ImageS3Key
	}

	if len(updates) == 0 {
		return GetProductByID(db, id)
	}

	result := db.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return GetProductByID(db, id)
}

// DeleteProduct deletes a product. A product still referenced by an
// order item is protected by ON DELETE RESTRICT; that violation is
// reported as "not deleted" rather than an error, same as a missing row.
func DeleteProduct(db *gorm.DB, id uint) (bool, error) {
	result := db.Delete(&models.Product{}, id)
	if result.Error != nil {
		if IsForeignKeyViolation(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
