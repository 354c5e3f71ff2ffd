package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/permissions"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
	"github.com/ctrlmarket/ctrlmarket-api/services"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name     string   `json:"name" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
}

// UpdateProductRequest represents the request body for updating a
// product. Every field is optional; absent fields are left untouched.
type UpdateProductRequest struct {
	Name     *string  `json:"name" binding:"omitempty,min=1"`
	Category *string  `json:"category" binding:"omitempty,min=1"`
	Price    *float64 `json:"price" binding:"omitempty,gte=0"`
}

// attachImageURL fills the computed ImageURL field from the image
// service when the product has a stored image key.
func attachImageURL(product *models.Product) {
	imageService := services.GetImageService()
	if imageService == nil || product.ImageS3Key == nil {
		return
	}
	if url, err := imageService.GetImageURL(*product.ImageS3Key); err == nil && url != "" {
		product.ImageURL = &url
	}
}

// ListProducts handles GET /api/v1/products - lists the catalog with
// optional category/search filters
func ListProducts(c *gin.Context) {
	filter := queries.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	products, err := queries.ListProducts(config.GetDB(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch products")
		return
	}

	for i := range products {
		attachImageURL(&products[i])
	}

	respondData(c, http.StatusOK, products)
}

// ListProductCategories handles GET /api/v1/products/categories
func ListProductCategories(c *gin.Context) {
	categories, err := queries.ListProductCategories(config.GetDB())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch categories")
		return
	}

	respondData(c, http.StatusOK, categories)
}

// GetProduct handles GET /api/v1/products/:id
func GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	product, err := queries.GetProductByID(config.GetDB(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	attachImageURL(product)
	respondData(c, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products (specialist/admin)
func CreateProduct(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	if !permissions.Allowed(session, permissions.ActionManageProducts, permissions.Ownership{}) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only specialists and admins can manage products")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product, err := queries.CreateProduct(config.GetDB(), queries.CreateProductParams{
		Name:     req.Name,
		Category: req.Category,
		Price:    *req.Price,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
		return
	}

	respondData(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/products/:id (specialist/admin).
// Price changes never rewrite existing order items.
func UpdateProduct(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	if !permissions.Allowed(session, permissions.ActionManageProducts, permissions.Ownership{}) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only specialists and admins can manage products")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product, err := queries.UpdateProduct(config.GetDB(), id, queries.UpdateProductParams{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	respondData(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/:id (specialist/admin).
// The queries layer reports both "missing" and "still referenced by an
// order item" as not-deleted; an existence probe here keeps the two
// apart so the API can answer 404 vs 409.
func DeleteProduct(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	if !permissions.Allowed(session, permissions.ActionManageProducts, permissions.Ownership{}) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only specialists and admins can manage products")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	product, err := queries.GetProductByID(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	deleted, err := queries.DeleteProduct(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
		return
	}
	if !deleted {
		respondError(c, http.StatusConflict, "PRODUCT_IN_USE", "Product is referenced by existing orders")
		return
	}

	// Remove the catalog image too; a failure here only leaves an
	// orphan object behind, so it is logged inside the service and the
	// delete still succeeds.
	if imageService := services.GetImageService(); imageService != nil && product.ImageS3Key != nil {
		_ = imageService.DeleteImage(*product.ImageS3Key)
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadProductImage handles POST /api/v1/products/:id/image - attaches
// a PNG catalog image to a product (specialist/admin)
func UploadProductImage(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	if !permissions.Allowed(session, permissions.ActionManageProducts, permissions.Ownership{}) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only specialists and admins can manage products")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	product, err := queries.GetProductByID(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch product")
		return
	}
	if product == nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required")
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		respondError(c, http.StatusBadRequest, "UPLOAD_FAILED", err.Error())
		return
	}

	// Replace a previous image rather than accumulating old objects.
	oldKey := product.ImageS3Key

	product, err = queries.UpdateProduct(db, id, queries.UpdateProductParams{ImageS3Key: &imageKey})
	if err != nil || product == nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store image reference")
		return
	}

	if oldKey != nil && *oldKey != imageKey {
		_ = imageService.DeleteImage(*oldKey)
	}

	attachImageURL(product)
	respondData(c, http.StatusOK, product)
}
