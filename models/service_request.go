package models

import "time"

// Service request statuses.
const (
	ServiceStatusPending    = "Pending"
	ServiceStatusInProgress = "In Progress"
	ServiceStatusCompleted  = "Completed"
	ServiceStatusCancelled  = "Cancelled"
)

// Service request types.
const (
	ServiceTypeInstallation = "Installation"
	ServiceTypeSupport      = "Support"
)

// ServiceRequest represents a support or installation task opened by a
// customer. It is created unassigned; a specialist claims it exactly
// once (specialist_id flips from NULL in the same statement that moves
// status to In Progress) and is never reassigned.
type ServiceRequest struct {
	ID           uint      `gorm:"primaryKey;check:chk_distinct_parties,specialist_id IS NULL OR customer_id <> specialist_id" json:"id"`
	ServiceType  string    `gorm:"not null;check:service_type IN ('Installation','Support')" json:"service_type"`
	RequestDate  time.Time `gorm:"not null;autoCreateTime" json:"request_date"` // set once at creation
	Status       string    `gorm:"not null;index;default:'Pending';check:status IN ('Pending','In Progress','Completed','Cancelled')" json:"status"`
	CustomerID   uint      `gorm:"not null;index" json:"customer_id"`
	Customer     User      `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	SpecialistID *uint     `gorm:"index" json:"specialist_id"`
	Specialist   *User     `gorm:"foreignKey:SpecialistID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName specifies the table name for the ServiceRequest model
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// ValidServiceType reports whether t is a known service type.
func ValidServiceType(t string) bool {
	return t == ServiceTypeInstallation || t == ServiceTypeSupport
}
