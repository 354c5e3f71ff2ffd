package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// CreateUserRequest represents the request body for an admin creating a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=Customer Specialist Admin"`
	Password string `json:"password" binding:"required,min=6"`
}

// UpdateUserRequest represents the request body for an admin updating a
// user. Every field is optional; absent fields are left untouched.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=1"`
	Role     *string `json:"role" binding:"omitempty,oneof=Customer Specialist Admin"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// UpdateProfileRequest represents the request body for self-service
// profile updates. Role changes are admin-only and not accepted here.
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=1"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	user, err := queries.GetUserByID(config.GetDB(), session.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch profile")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found")
		return
	}

	respondData(c, http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/v1/users/me - updates current user's profile
func UpdateMyProfile(c *gin.Context) {
	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := queries.UpdateUser(config.GetDB(), session.ID, queries.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		if queries.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update profile")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found")
		return
	}

	respondData(c, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users - lists users with optional
// role/search filters (admin only, gated at the route)
func ListUsers(c *gin.Context) {
	filter := queries.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	users, err := queries.ListUsers(config.GetDB(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch users")
		return
	}

	respondData(c, http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/:id - gets one user (admin only)
func GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	user, err := queries.GetUserByID(config.GetDB(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	respondData(c, http.StatusOK, user)
}

// CreateUser handles POST /api/v1/users - creates a user with any role
// (admin only)
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := queries.CreateUser(config.GetDB(), queries.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		if queries.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user")
		return
	}

	respondData(c, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/v1/users/:id - updates any user (admin only)
func UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := queries.UpdateUser(config.GetDB(), id, queries.UpdateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		if queries.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user")
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	respondData(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/users/:id - deletes a user and,
// through the cascade, all orders they own (admin only)
func DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	session, err := middleware.CurrentUser(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	if session.ID == id {
		respondError(c, http.StatusConflict, "SELF_DELETE", "You cannot delete your own account")
		return
	}

	deleted, err := queries.DeleteUser(config.GetDB(), id)
	if err != nil {
		if queries.IsForeignKeyViolation(err) {
			// Service requests restrict-reference their customer and
			// specialist, unlike orders which cascade.
			respondError(c, http.StatusConflict, "USER_IN_USE", "User is referenced by service requests")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete user")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
