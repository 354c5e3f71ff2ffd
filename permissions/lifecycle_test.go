package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ctrlmarket/ctrlmarket-api/models"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.OrderStatusPending, models.OrderStatusCompleted, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusCompleted, models.OrderStatusCancelled, false},
		{models.OrderStatusCompleted, models.OrderStatusPending, false},
		{models.OrderStatusCancelled, models.OrderStatusCompleted, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
		{models.OrderStatusPending, models.OrderStatusPending, false},
		{"Unknown", models.OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+" to "+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.allowed, OrderStatusTransitionAllowed(tt.from, tt.to))
		})
	}
}

func TestServiceStatusTransitions(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.ServiceStatusPending, models.ServiceStatusInProgress, true},
		{models.ServiceStatusPending, models.ServiceStatusCancelled, true},
		{models.ServiceStatusPending, models.ServiceStatusCompleted, false},
		{models.ServiceStatusInProgress, models.ServiceStatusCompleted, true},
		{models.ServiceStatusInProgress, models.ServiceStatusCancelled, true},
		{models.ServiceStatusInProgress, models.ServiceStatusPending, false},
		{models.ServiceStatusCompleted, models.ServiceStatusCancelled, false},
		{models.ServiceStatusCancelled, models.ServiceStatusInProgress, false},
		{"Unknown", models.ServiceStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+" to "+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.allowed, ServiceStatusTransitionAllowed(tt.from, tt.to))
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, OrderStatusTerminal(models.OrderStatusPending))
	assert.True(t, OrderStatusTerminal(models.OrderStatusCompleted))
	assert.True(t, OrderStatusTerminal(models.OrderStatusCancelled))
	assert.False(t, OrderStatusTerminal("Unknown"))

	assert.False(t, ServiceStatusTerminal(models.ServiceStatusPending))
	assert.False(t, ServiceStatusTerminal(models.ServiceStatusInProgress))
	assert.True(t, ServiceStatusTerminal(models.ServiceStatusCompleted))
	assert.True(t, ServiceStatusTerminal(models.ServiceStatusCancelled))
	assert.False(t, ServiceStatusTerminal("Unknown"))
}
