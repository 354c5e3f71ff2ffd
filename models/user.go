package models

import "time"

// User roles. Role is stored as plain text and constrained at the
// database level so bad values are rejected no matter which code path
// writes them.
const (
	RoleCustomer   = "Customer"
	RoleSpecialist = "Specialist"
	RoleAdmin      = "Admin"
)

// User represents an account in the system (customer, specialist or admin)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"not null" json:"phone"`
	Role         string    `gorm:"not null;index;check:role IN ('Customer','Specialist','Admin')" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Orders       []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleSpecialist || role == RoleAdmin
}
