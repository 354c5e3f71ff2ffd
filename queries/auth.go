package queries

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

// SessionUser is the identity projection handed out after a successful
// authentication. It carries everything the permission layer needs and
// nothing it doesn't - in particular, never the password hash.
type SessionUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionUserFrom builds the session projection for a stored user.
func SessionUserFrom(u *models.User) SessionUser {
	return SessionUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate verifies an email/password pair and returns the session
// projection on success. Unknown email and wrong password both return
// ErrInvalidCredentials so account existence is not leaked.
func Authenticate(db *gorm.DB, email, password string) (*SessionUser, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := SessionUserFrom(&user)
	return &session, nil
}
