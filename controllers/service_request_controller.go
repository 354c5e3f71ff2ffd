package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/permissions"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// CreateServiceRequestRequest represents the request body for opening a
// service request. CustomerID is optional and only honored for admins
// opening a request on a customer's behalf.
type CreateServiceRequestRequest struct {
	ServiceType string `json:"service_type" binding:"required,oneof=Installation Support"`
	CustomerID  uint   `json:"customer_id" binding:"omitempty"`
}

// AssignServiceRequestRequest represents the request body for assigning
// a specialist. Specialists always claim for themselves; admins may
// name the specialist explicitly.
type AssignServiceRequestRequest struct {
	SpecialistID uint `json:"specialist_id" binding:"omitempty"`
}

func requestOwnership(view *queries.ServiceRequestView) permissions.Ownership {
	return permissions.Ownership{
		OwnerID:      view.CustomerID,
		SpecialistID: view.SpecialistID,
	}
}

// CreateServiceRequest handles POST /api/v1/service-requests - opens a
// new request, always Pending and unassigned
func CreateServiceRequest(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	customerID := session.ID
	if req.CustomerID != 0 {
		customerID = req.CustomerID
	}

	if !permissions.Allowed(session, permissions.ActionCreateServiceRequest, permissions.OwnedBy(customerID)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You cannot open service requests for other users")
		return
	}

	request, err := queries.CreateServiceRequest(config.GetDB(), queries.CreateServiceRequestParams{
		ServiceType: req.ServiceType,
		CustomerID:  customerID,
	})
	if err != nil {
		if queries.IsForeignKeyViolation(err) {
			respondError(c, http.StatusBadRequest, "USER_NOT_FOUND", "Customer does not exist")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create service request")
		return
	}

	view, err := queries.GetServiceRequestByID(config.GetDB(), request.ID)
	if err != nil || view == nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load service request details")
		return
	}

	respondData(c, http.StatusCreated, view)
}

// ListServiceRequests handles GET /api/v1/service-requests - lists
// requests scoped by role: customers see their own, specialists see the
// unassigned pool plus their claims, admins see everything with
// optional filters (specialist_id=0 selects unassigned requests)
func ListServiceRequests(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	db := config.GetDB()

	switch session.Role {
	case models.RoleCustomer:
		views, err := queries.ListServiceRequests(db, queries.ServiceRequestFilter{
			CustomerID: session.ID,
			Status:     c.Query("status"),
			Search:     c.Query("search"),
		})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch service requests")
			return
		}
		respondData(c, http.StatusOK, views)

	case models.RoleSpecialist:
		views, err := queries.ListServiceRequestsForSpecialist(db, session.ID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch service requests")
			return
		}
		respondData(c, http.StatusOK, views)

	default: // Admin
		filter := queries.ServiceRequestFilter{
			Status: c.Query("status"),
			Search: c.Query("search"),
		}
		if raw := c.Query("customer_id"); raw != "" {
			customerID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				respondError(c, http.StatusBadRequest, "INVALID_FILTER", "customer_id must be a positive integer")
				return
			}
			filter.CustomerID = uint(customerID)
		}
		if raw := c.Query("specialist_id"); raw != "" {
			specialistID, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				respondError(c, http.StatusBadRequest, "INVALID_FILTER", "specialist_id must be a non-negative integer")
				return
			}
			id := uint(specialistID)
			filter.SpecialistID = &id
		}

		views, err := queries.ListServiceRequests(db, filter)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch service requests")
			return
		}
		respondData(c, http.StatusOK, views)
	}
}

// GetServiceRequest handles GET /api/v1/service-requests/:id
func GetServiceRequest(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	view, err := queries.GetServiceRequestByID(config.GetDB(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch service request")
		return
	}
	if view == nil {
		respondError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Service request not found")
		return
	}

	if !permissions.Allowed(session, permissions.ActionViewServiceRequest, requestOwnership(view)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to view this service request")
		return
	}

	respondData(c, http.StatusOK, view)
}

// AssignServiceRequest handles POST /api/v1/service-requests/:id/assign -
// claims an unassigned request. The claim is a compare-and-swap on
// specialist_id IS NULL, so two racing claims produce exactly one winner.
func AssignServiceRequest(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	var req AssignServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondValidationError(c, err)
		return
	}

	specialistID := session.ID
	if session.Role == models.RoleAdmin {
		if req.SpecialistID == 0 {
			respondError(c, http.StatusBadRequest, "MISSING_SPECIALIST", "specialist_id is required when assigning as admin")
			return
		}
		specialistID = req.SpecialistID
	}

	db := config.GetDB()
	view, err := queries.GetServiceRequestByID(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch service request")
		return
	}
	if view == nil {
		respondError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Service request not found")
		return
	}

	if !permissions.Allowed(session, permissions.ActionAssignServiceRequest, requestOwnership(view)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to claim this service request")
		return
	}

	assigned, err := queries.AssignSpecialist(db, id, specialistID)
	if err != nil {
		if queries.IsCheckViolation(err) {
			respondError(c, http.StatusConflict, "INVALID_ASSIGNMENT", "A request cannot be assigned to its own customer")
			return
		}
		if queries.IsForeignKeyViolation(err) {
			respondError(c, http.StatusBadRequest, "USER_NOT_FOUND", "Specialist does not exist")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to assign specialist")
		return
	}
	if assigned == nil {
		// Lost the claim race, or the request was assigned all along.
		respondError(c, http.StatusConflict, "ALREADY_ASSIGNED", "Service request already has a specialist")
		return
	}

	respondData(c, http.StatusOK, assigned)
}

// CompleteServiceRequest handles POST /api/v1/service-requests/:id/complete
func CompleteServiceRequest(c *gin.Context) {
	transitionServiceRequestHandler(c, permissions.ActionCompleteServiceRequest, models.ServiceStatusCompleted)
}

// CancelServiceRequest handles POST /api/v1/service-requests/:id/cancel
func CancelServiceRequest(c *gin.Context) {
	transitionServiceRequestHandler(c, permissions.ActionCancelServiceRequest, models.ServiceStatusCancelled)
}

func transitionServiceRequestHandler(c *gin.Context, action permissions.Action, target string) {
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
	view, err := queries.GetServiceRequestByID(db, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch service request")
		return
	}
	if view == nil {
		respondError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Service request not found")
		return
	}

	if !permissions.Allowed(session, action, requestOwnership(view)) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to change this service request")
		return
	}

	if !permissions.ServiceStatusTransitionAllowed(view.Status, target) {
		respondError(c, http.StatusConflict, "INVALID_STATUS", "Service request is not in a state that allows this transition")
		return
	}

	changed, err := queries.TransitionServiceRequest(db, id, view.Status, target)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update service request")
		return
	}
	if !changed {
		respondError(c, http.StatusConflict, "INVALID_STATUS", "Service request is not in a state that allows this transition")
		return
	}

	view, err = queries.GetServiceRequestByID(db, id)
	if err != nil || view == nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch updated service request")
		return
	}

	respondData(c, http.StatusOK, view)
}

// DeleteServiceRequest handles DELETE /api/v1/service-requests/:id (admin only)
func DeleteServiceRequest(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	if !permissions.Allowed(session, permissions.ActionDeleteServiceRequest, permissions.Ownership{}) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only admins can delete service requests")
		return
	}

	id, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := queries.DeleteServiceRequest(config.GetDB(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete service request")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "REQUEST_NOT_FOUND", "Service request not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
