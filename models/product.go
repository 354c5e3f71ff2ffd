package models

import "time"

// Product represents a sellable catalog item
type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Category   string    `gorm:"not null;index" json:"category"`
	Price      float64   `gorm:"not null;check:price >= 0" json:"price"`
	ImageS3Key *string   `json:"image_s3_key,omitempty"` // nullable, S3 key for the catalog image
	ImageURL   *string   `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
