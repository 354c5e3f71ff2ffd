package queries

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

// OrderItemInput is one requested line item. The unit price is not part
// of the input: it is snapshotted from the product inside CreateOrder.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderParams carries the validated payload for creating an order.
type CreateOrderParams struct {
	UserID uint
	Items  []OrderItemInput
}

// OrderFilter narrows ListOrders. Search matches the customer name and
// the order id.
type OrderFilter struct {
	UserID uint
	Status string
	Search string
}

// OrderItemView is a line item joined with its product details.
type OrderItemView struct {
	ID              uint    `json:"id"`
	OrderID         uint    `json:"order_id"`
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	ProductCategory string  `json:"product_category"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
}

// OrderView is the denormalized read model returned to callers: the
// order row plus the customer name and the item/product details.
type OrderView struct {
	ID           uint            `json:"id"`
	OrderDate    time.Time       `json:"order_date"`
	TotalPrice   float64         `json:"total_price"`
	Status       string          `json:"status"`
	UserID       uint            `json:"user_id"`
	CustomerName string          `json:"customer_name"`
	Items        []OrderItemView `json:"items"`
}

func newOrderView(o *models.Order) *OrderView {
	view := &OrderView{
		ID:           o.ID,
		OrderDate:    o.OrderDate,
		TotalPrice:   o.TotalPrice,
		Status:       o.Status,
		UserID:       o.UserID,
		CustomerName: o.Customer.Name,
		Items:        make([]OrderItemView, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		view.Items = append(view.Items, OrderItemView{
			ID:              item.ID,
			OrderID:         item.OrderID,
			ProductID:       item.ProductID,
			ProductName:     item.Product.Name,
			ProductCategory: item.Product.Category,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
		})
	}
	return view
}

// CreateOrder creates an order with its line items in one transaction.
// Each item's product is resolved to snapshot the current price; a
// missing product aborts the whole unit with ReferenceNotFoundError and
// no partial writes. The total is computed from the snapshots.
func CreateOrder(db *gorm.DB, p CreateOrderParams) (*OrderView, error) {
	var orderID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(p.Items))

		for _, in := range p.Items {
			product, err := GetProductByID(tx, in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return &ReferenceNotFoundError{ProductID: in.ProductID}
			}

			total += product.Price * float64(in.Quantity)
			items = append(items, models.OrderItem{
				Quantity:  in.Quantity,
				UnitPrice: product.Price,
				ProductID: in.ProductID,
			})
		}

		order := models.Order{
			TotalPrice: total,
			Status:     models.OrderStatusPending,
			UserID:     p.UserID,
			Items:      items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetOrderByID(db, orderID)
}

// GetOrderByID returns the composed order view or nil when no row matches.
func GetOrderByID(db *gorm.DB, id uint) (*OrderView, error) {
	var order models.Order
	err := db.Preload("Items.Product").Preload("Customer").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return newOrderView(&order), nil
}

// ListOrders lists order views, filters combined with AND, newest first.
func ListOrders(db *gorm.DB, f OrderFilter) ([]OrderView, error) {
	query := db.Model(&models.Order{}).
		Preload("Items.Product").
		Preload("Customer")

	if f.UserID != 0 {
		query = query.Where("orders.user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("orders.status = ?", f.Status)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("LOWER(users.name) LIKE LOWER(?) OR CAST(orders.id AS TEXT) LIKE ?", pattern, pattern)
	}

	var orders []models.Order
	if err := query.Order("orders.order_date DESC, orders.id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, *newOrderView(&orders[i]))
	}
	return views, nil
}

// CancelOrder moves a Pending order to Cancelled. The status predicate
// lives in the statement itself, so concurrent cancellation attempts
// race safely: at most one caller sees true.
func CancelOrder(db *gorm.DB, id uint) (bool, error) {
	return transitionOrder(db, id, models.OrderStatusPending, models.OrderStatusCancelled)
}

// CompleteOrder moves a Pending order to Completed with the same
// compare-and-swap guarantee as CancelOrder.
func CompleteOrder(db *gorm.DB, id uint) (bool, error) {
	return transitionOrder(db, id, models.OrderStatusPending, models.OrderStatusCompleted)
}

func transitionOrder(db *gorm.DB, id uint, from, to string) (bool, error) {
	result := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
