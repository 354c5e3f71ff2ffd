package testutil

import (
	"testing"

	"github.com/ctrlmarket/ctrlmarket-api/config"
	"github.com/ctrlmarket/ctrlmarket-api/middleware"
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// IssueTestToken signs a session token for a stored user, the same way
// login does.
func IssueTestToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := middleware.IssueToken(config.GetConfig(), queries.SessionUserFrom(user))
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// BearerHeader formats a token for the Authorization header.
func BearerHeader(token string) string {
	return "Bearer " + token
}
