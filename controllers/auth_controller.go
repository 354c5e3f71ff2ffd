package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// SignupRequest represents the request body for customer self-registration
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/v1/auth/signup - registers a new customer
// account and starts a session. Staff accounts are created by admins
// through the users endpoints, never through signup.
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	user, err := queries.CreateUser(db, queries.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.RoleCustomer,
		Password: req.Password,
	})
	if err != nil {
		if queries.IsUniqueViolation(err) {
			respondError(c, http.StatusConflict, "EMAIL_EXISTS", "A user with this email already exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account")
		return
	}

	session := queries.SessionUserFrom(user)
	token, err := middleware.IssueToken(config.GetConfig(), session)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token")
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"user":  session,
		"token": token,
	})
}

// Login handles POST /api/v1/auth/login - authenticates an email and
// password pair. Unknown email and wrong password produce the exact
// same response so account existence is not leaked.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	session, err := queries.Authenticate(db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to authenticate")
		return
	}

	token, err := middleware.IssueToken(config.GetConfig(), *session)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue session token")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"user":  session,
		"token": token,
	})
}

// Logout handles POST /api/v1/auth/logout - ends the current session.
// Tokens are stateless, so this only confirms the client should drop
// its copy; the session identity is cleared with it.
func Logout(c *gin.Context) {
	if _, err := middleware.CurrentUser(c); err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "No active session")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
