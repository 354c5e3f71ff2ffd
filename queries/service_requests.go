package queries

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

// UnassignedSpecialist is the sentinel filter value meaning "unassigned
// requests only" (specialist_id IS NULL) rather than a literal id match.
const UnassignedSpecialist uint = 0

// CreateServiceRequestParams carries the validated payload for opening
// a service request. Requests always start Pending and unassigned.
type CreateServiceRequestParams struct {
	ServiceType string
	CustomerID  uint
}

// ServiceRequestFilter narrows ListServiceRequests. SpecialistID set to
// UnassignedSpecialist selects unassigned requests. Search matches the
// customer name and the service type.
type ServiceRequestFilter struct {
	Status       string
	CustomerID   uint
	SpecialistID *uint
	Search       string
}

// ServiceRequestView is the denormalized read model: the request row
// plus the customer and specialist names.
type ServiceRequestView struct {
	ID             uint      `json:"id"`
	ServiceType    string    `json:"service_type"`
	RequestDate    time.Time `json:"request_date"`
	Status         string    `json:"status"`
	CustomerID     uint      `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	SpecialistID   *uint     `json:"specialist_id"`
	SpecialistName *string   `json:"specialist_name"`
}

func newServiceRequestView(sr *models.ServiceRequest) *ServiceRequestView {
	view := &ServiceRequestView{
		ID:           sr.ID,
		ServiceType:  sr.ServiceType,
		RequestDate:  sr.RequestDate,
		Status:       sr.Status,
		CustomerID:   sr.CustomerID,
		CustomerName: sr.Customer.Name,
		SpecialistID: sr.SpecialistID,
	}
	if sr.Specialist != nil {
		name := sr.Specialist.Name
		view.SpecialistName = &name
	}
	return view
}

// CreateServiceRequest opens a new request: Pending, unassigned.
func CreateServiceRequest(db *gorm.DB, p CreateServiceRequestParams) (*models.ServiceRequest, error) {
	request := models.ServiceRequest{
		ServiceType: p.ServiceType,
		Status:      models.ServiceStatusPending,
		CustomerID:  p.CustomerID,
	}
	if err := db.Create(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// GetServiceRequestByID returns the composed view or nil when no row matches.
func GetServiceRequestByID(db *gorm.DB, id uint) (*ServiceRequestView, error) {
	var request models.ServiceRequest
	err := db.Preload("Customer").Preload("Specialist").First(&request, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return newServiceRequestView(&request), nil
}

// ListServiceRequests lists request views, filters combined with AND,
// newest first.
func ListServiceRequests(db *gorm.DB, f ServiceRequestFilter) ([]ServiceRequestView, error) {
	query := db.Model(&models.ServiceRequest{}).
		Preload("Customer").
		Preload("Specialist")

	if f.Status != "" {
		query = query.Where("service_requests.status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		query = query.Where("service_requests.customer_id = ?", f.CustomerID)
	}
	if f.SpecialistID != nil {
		if *f.SpecialistID == UnassignedSpecialist {
			query = query.Where("service_requests.specialist_id IS NULL")
		} else {
			query = query.Where("service_requests.specialist_id = ?", *f.SpecialistID)
		}
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = service_requests.customer_id").
			Where("LOWER(users.name) LIKE LOWER(?) OR LOWER(service_requests.service_type) LIKE LOWER(?)", pattern, pattern)
	}

	var requests []models.ServiceRequest
	err := query.Order("service_requests.request_date DESC, service_requests.id DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}

	views := make([]ServiceRequestView, 0, len(requests))
	for i := range requests {
		views = append(views, *newServiceRequestView(&requests[i]))
	}
	return views, nil
}

// ListServiceRequestsForSpecialist lists the requests a specialist can
// see: unassigned ones plus those assigned to them.
func ListServiceRequestsForSpecialist(db *gorm.DB, specialistID uint) ([]ServiceRequestView, error) {
	var requests []models.ServiceRequest
	err := db.Model(&models.ServiceRequest{}).
		Preload("Customer").
		Preload("Specialist").
		Where("specialist_id IS NULL OR specialist_id = ?", specialistID).
		Order("request_date DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	views := make([]ServiceRequestView, 0, len(requests))
	for i := range requests {
		views = append(views, *newServiceRequestView(&requests[i]))
	}
	return views, nil
}

// AssignSpecialist claims an unassigned request for a specialist. The
// assignment and the status flip to In Progress happen in one
// conditional update guarded by specialist_id IS NULL, so two
// specialists racing for the same request cannot both succeed. The
// loser gets nil (not assigned), not an error.
func AssignSpecialist(db *gorm.DB, requestID, specialistID uint) (*ServiceRequestView, error) {
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND specialist_id IS NULL", requestID).
		Updates(map[string]interface{}{
			"specialist_id": specialistID,
			"status":        models.ServiceStatusInProgress,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return GetServiceRequestByID(db, requestID)
}

// UpdateServiceRequestStatus writes a new status. Transition validity
// is the permission layer's job; this only reports nil when no row
// matches.
func UpdateServiceRequestStatus(db *gorm.DB, id uint, status string) (*ServiceRequestView, error) {
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return GetServiceRequestByID(db, id)
}

// TransitionServiceRequest is the compare-and-swap form of a status
// change: the write only lands if the row is still in the expected
// state, so concurrent updates cannot skip over a terminal state.
func TransitionServiceRequest(db *gorm.DB, id uint, from, to string) (bool, error) {
	result := db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteServiceRequest deletes a request by id.
func DeleteServiceRequest(db *gorm.DB, id uint) (bool, error) {
	result := db.Delete(&models.ServiceRequest{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
