package permissions

import "github.com/ctrlmarket/ctrlmarket-api/models"

// Order state machine: Pending is initial, Completed and Cancelled are
// terminal. Transitions are one-directional.
var orderTransitions = map[string][]string{
	models.OrderStatusPending: {
		models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	},
	models.OrderStatusCompleted: {},
	models.OrderStatusCancelled: {},
}

// Service request state machine: Pending is initial. Pending moves to
// In Progress only through specialist assignment, or straight to
// Cancelled. In Progress moves to Completed or Cancelled. Completed and
// Cancelled are terminal.
var serviceTransitions = map[string][]string{
	models.ServiceStatusPending: {
		models.ServiceStatusInProgress,
		models.ServiceStatusCancelled,
	},
	models.ServiceStatusInProgress: {
		models.ServiceStatusCompleted,
		models.ServiceStatusCancelled,
	},
	models.ServiceStatusCompleted: {},
	models.ServiceStatusCancelled: {},
}

// OrderStatusTransitionAllowed reports whether an order may move from
// one status to another.
func OrderStatusTransitionAllowed(from, to string) bool {
	return transitionAllowed(orderTransitions, from, to)
}

// ServiceStatusTransitionAllowed reports whether a service request may
// move from one status to another.
func ServiceStatusTransitionAllowed(from, to string) bool {
	return transitionAllowed(serviceTransitions, from, to)
}

// OrderStatusTerminal reports whether an order status has no outgoing
// transitions.
func OrderStatusTerminal(status string) bool {
	next, ok := orderTransitions[status]
	return ok && len(next) == 0
}

// ServiceStatusTerminal reports whether a service request status has no
// outgoing transitions.
func ServiceStatusTerminal(status string) bool {
	next, ok := serviceTransitions[status]
	return ok && len(next) == 0
}

func transitionAllowed(machine map[string][]string, from, to string) bool {
	for _, next := range machine[from] {
		if next == to {
			return true
		}
	}
	return false
}
