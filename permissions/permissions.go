// Package permissions encodes the role-based authorization matrix and
// the order/service-request lifecycles. The delivery layer calls
// Allowed exactly once per action before touching the data-access
// layer; the data-access layer never re-checks roles.
package permissions

import (
	"github.com/ctrlmarket/ctrlmarket-api/models"
	"github.com/ctrlmarket/ctrlmarket-api/queries"
)

// Action identifies one user-initiated operation subject to the matrix.
type Action string

const (
	ActionCreateOrder   Action = "order:create"
	ActionViewOrder     Action = "order:view"
	ActionCancelOrder   Action = "order:cancel"
	ActionCompleteOrder Action = "order:complete"

	ActionCreateServiceRequest   Action = "service:create"
	ActionViewServiceRequest     Action = "service:view"
	ActionAssignServiceRequest   Action = "service:assign"
	ActionCompleteServiceRequest Action = "service:complete"
	ActionCancelServiceRequest   Action = "service:cancel"
	ActionDeleteServiceRequest   Action = "service:delete"

	ActionManageProducts Action = "product:manage"
	ActionManageUsers    Action = "user:manage"
	ActionViewUsers      Action = "user:view"
)

// Ownership describes the resource side of a permission check: who owns
// the resource and, for service requests, which specialist holds it.
// The zero value means "no particular resource" (e.g. list endpoints).
type Ownership struct {
	OwnerID      uint
	SpecialistID *uint
}

// OwnedBy is shorthand for a resource owned by a customer.
func OwnedBy(ownerID uint) Ownership {
	return Ownership{OwnerID: ownerID}
}

// Allowed is the single permission gate: it decides whether the session
// user may perform action on a resource with the given ownership.
func Allowed(session queries.SessionUser, action Action, own Ownership) bool {
	// Admins are unrestricted across every operation.
	if session.Role == models.RoleAdmin {
		return true
	}

	switch session.Role {
	case models.RoleCustomer:
		return customerAllowed(session, action, own)
	case models.RoleSpecialist:
		return specialistAllowed(session, action, own)
	}
	return false
}

// Customers act only on resources they own: their orders, their
// service requests, their profile.
func customerAllowed(session queries.SessionUser, action Action, own Ownership) bool {
	switch action {
	case ActionCreateOrder, ActionViewOrder, ActionCancelOrder:
		return own.OwnerID == session.ID
	case ActionCreateServiceRequest, ActionViewServiceRequest:
		return own.OwnerID == session.ID
	}
	return false
}

// Specialists see every order and may complete pending ones, but never
// create or cancel them. On service requests they see the unassigned
// pool plus their own claims, may claim unassigned requests, and may
// advance only requests assigned to them.
func specialistAllowed(session queries.SessionUser, action Action, own Ownership) bool {
	switch action {
	case ActionViewOrder, ActionCompleteOrder:
		return true
	case ActionViewServiceRequest:
		return own.SpecialistID == nil || *own.SpecialistID == session.ID
	case ActionAssignServiceRequest:
		return own.SpecialistID == nil
	case ActionCompleteServiceRequest:
		return own.SpecialistID != nil && *own.SpecialistID == session.ID
	case ActionCancelServiceRequest:
		// Pending unassigned requests can be cancelled directly, without
		// claiming them first.
		return own.SpecialistID == nil || *own.SpecialistID == session.ID
	case ActionManageProducts:
		return true
	}
	return false
}
