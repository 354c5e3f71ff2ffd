package queries

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

// CreateUserParams carries the validated payload for creating a user.
// The plaintext password is hashed here, right before the insert.
type CreateUserParams struct {
	Name     string
	Email    string
	Phone    string
	Role     string
	Password string
}

// UpdateUserParams is a field-level PATCH: only non-nil fields are written.
type UpdateUserParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Role     *string
	Password *string
}

// UserFilter narrows ListUsers. Unset fields are omitted from the
// predicate entirely. Search matches name, email and phone.
type UserFilter struct {
	Role   string
	Search string
}

// CreateUser creates a new user with a hashed password.
func CreateUser(db *gorm.DB, p CreateUserParams) (*models.User, error) {
	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		Role:         p.Role,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the user or nil when no row matches.
func GetUserByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns the user or nil when no row matches.
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers lists users, filters combined with AND, ordered by name.
func ListUsers(db *gorm.DB, f UserFilter) ([]models.User, error) {
	query := db.Model(&models.User{})

	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var users []models.User
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListCustomers lists all customers.
func ListCustomers(db *gorm.DB, search string) ([]models.User, error) {
	return ListUsers(db, UserFilter{Role: models.RoleCustomer, Search: search})
}

// ListSpecialists lists all specialists.
func ListSpecialists(db *gorm.DB, search string) ([]models.User, error) {
	return ListUsers(db, UserFilter{Role: models.RoleSpecialist, Search: search})
}

// UpdateUser applies the supplied fields only. A zero-field update is a
// no-op that returns the current row. Returns nil when no row matches.
func UpdateUser(db *gorm.DB, id uint, p UpdateUserParams) (*models.User, error) {
	updates := make(map[string]interface{})
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.Role != nil {
		updates["role"] = *p.Role
	}
	if p.Password != nil {
		hash, err := HashPassword(*p.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		return GetUserByID(db, id)
	}

	result := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return GetUserByID(db, id)
}

// DeleteUser deletes a user. Owned orders (and their items) go with it.
func DeleteUser(db *gorm.DB, id uint) (bool, error) {
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
