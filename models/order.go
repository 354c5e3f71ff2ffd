package models

import "time"

// Order statuses. Pending is the only non-terminal state.
const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// Order represents a purchase transaction owned by one user
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OrderDate  time.Time   `gorm:"not null;autoCreateTime" json:"order_date"` // set once at creation
	TotalPrice float64     `gorm:"not null;check:total_price >= 0" json:"total_price"`
	Status     string      `gorm:"not null;index;default:'Pending';check:status IN ('Pending','Completed','Cancelled')" json:"status"`
	UserID     uint        `gorm:"not null;index" json:"user_id"`
	Customer   User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line item on an order. UnitPrice is a snapshot
// of the product price at order time and is never updated afterwards.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Quantity  int     `gorm:"not null;check:quantity >= 1" json:"quantity"`
	UnitPrice float64 `gorm:"not null;check:unit_price >= 0" json:"unit_price"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
