package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		GoEnv:     "test",
	}
}

func testSession() queries.SessionUser {
	return queries.SessionUser{
		ID:    1,
		Name:  "Mohammad Rahimi",
		Email: "mohammad@example.com",
		Role:  models.RoleCustomer,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	session := testSession()

	token, err := IssueToken(cfg, session)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := ParseToken(cfg, token)
	assert.NoError(t, err)
	assert.Equal(t, session, *parsed)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testConfig(), testSession())
	assert.NoError(t, err)

	_, err = ParseToken(&config.Config{JWTSecret: "other-secret"}, token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(testConfig(), "not-a-token")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	cfg := testConfig()
	claims := SessionClaims{
		User: testSession(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	assert.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.Error(t, err)
}

func setupAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", EnsureAuthenticated(cfg), func(c *gin.Context) {
		user, err := CurrentUser(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	})
	return router
}

func TestEnsureAuthenticated(t *testing.T) {
	cfg := testConfig()
	router := setupAuthRouter(cfg)

	token, err := IssueToken(cfg, testSession())
	assert.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc123", http.StatusUnauthorized},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCurrentUserMissingSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := CurrentUser(c)
	assert.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, "MISSING_SESSION", authErr.Code)
}

func TestSetSessionForTesting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	session := testSession()

	SetSessionForTesting(c, session)

	got, err := CurrentUser(c)
	assert.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(session queries.SessionUser, roles ...string) *gin.Engine {
		router := gin.New()
		router.GET("/admin",
			func(c *gin.Context) { SetSessionForTesting(c, session) },
			RequireRole(roles...),
			func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) },
		)
		return router
	}

	tests := []struct {
		name           string
		role           string
		allowed        []string
		expectedStatus int
	}{
		{"matching role passes", models.RoleAdmin, []string{models.RoleAdmin}, http.StatusOK},
		{"one of several roles passes", models.RoleSpecialist, []string{models.RoleAdmin, models.RoleSpecialist}, http.StatusOK},
		{"non-matching role is rejected", models.RoleCustomer, []string{models.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := testSession()
			session.Role = tt.role
			router := newRouter(session, tt.allowed...)

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequireRoleWithoutSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
