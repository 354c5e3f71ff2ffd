package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/permissions"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// OrderItemRequest is one line item in a create-order request.
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gte=1"`
}

// CreateOrderRequest represents the request body for creating an order.
// UserID is optional and only honored for admins placing an order on a
// customer's behalf; everyone else orders for themselves.
type CreateOrderRequest struct {
	UserID uint               `json:"user_id" binding:"omitempty"`
	Items  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder handles POST /api/v1/orders - creates an order with line
// items; prices are snapshotted from the catalog inside one transaction
func CreateOrder(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ownerID := session.ID
	if req.UserID != 0 {
		ownerID = req.UserID
	}

	if !permissions.Allowed(session, permissions.ActionCreateOrder, permissions.OwnedBy(ownerID)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You cannot create orders for other users")
		return
	}

	items := make([]queries.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, queries.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := queries.CreateOrder(config.GetDB(), queries.CreateOrderParams{
		UserID: ownerID,
		Items:  items,
	})
	if err != nil {
		if refErr, ok := queries.AsReferenceNotFound(err); ok {
			respondError(c, http.StatusBadRequest, "PRODUCT_NOT_FOUND",
				"Order references a product that does not exist: "+strconv.FormatUint(uint64(refErr.ProductID), 10))
			return
		}
		if queries.IsForeignKeyViolation(err) {
			respondError(c, http.StatusBadRequest, "USER_NOT_FOUND", "Order owner does not exist")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create order")
		return
	}

	respondData(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - lists orders scoped by role:
// customers see only their own; specialists and admins see all, with
// optional user_id/status/search filters
func ListOrders(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	filter := queries.OrderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	if session.Role == models.RoleCustomer {
		filter.UserID = session.ID
	} else if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_FILTER", "user_id must be a positive integer")
			return
		}
		filter.UserID = uint(userID)
	}

	orders, err := queries.ListOrders(config.GetDB(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch orders")
		return
	}

	respondData(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := queries.GetOrderByID(config.GetDB(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	if !permissions.Allowed(session, permissions.ActionViewOrder, permissions.OwnedBy(order.UserID)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view this order")
		return
	}

	respondData(c, http.StatusOK, order)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - moves a Pending
// order to Cancelled. The status check is a compare-and-swap in the
// update statement, so racing cancellations produce one winner.
func CancelOrder(c *gin.Context) {
	transitionOrderHandler(c, permissions.ActionCancelOrder, models.OrderStatusCancelled, queries.CancelOrder)
}

// CompleteOrder handles POST /api/v1/orders/:id/complete - moves a
// Pending order to Completed (specialist/admin)
func CompleteOrder(c *gin.Context) {
	transitionOrderHandler(c, permissions.ActionCompleteOrder, models.OrderStatusCompleted, queries.CompleteOrder)
}

func transitionOrderHandler(c *gin.Context, action permissions.Action, target string, transition func(db *gorm.DB, id uint) (bool, error)) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	order, err := queries.GetOrderByID(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch order")
		return
	}
	if order == nil {
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	if !permissions.Allowed(session, action, permissions.OwnedBy(order.UserID)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to change this order")
		return
	}

	if !permissions.OrderStatusTransitionAllowed(order.Status, target) {
		respondError(c, http.StatusConflict, "INVALID_STATUS", "Order is not in a state that allows this transition")
		return
	}

	changed, err := transition(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order")
		return
	}
	if !changed {
		// Lost the race: someone else moved the order first.
		respondError(c, http.StatusConflict, "INVALID_STATUS", "Order is not in a state that allows this transition")
		return
	}

	order, err = queries.GetOrderByID(db, id)
	if err != nil || order == nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated order")
		return
	}

	respondData(c, http.StatusOK, order)
}
