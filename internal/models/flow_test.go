package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowState_Transitions(t *testing.T) {
	tests := []struct {
		from FlowState
		to   FlowState
		ok   bool
	}{
		{FlowCreated, FlowPaymentPending, true},
		{FlowCreated, FlowCancelled, true},
		{FlowCreated, FlowConfirmed, false},
		{FlowPaymentPending, FlowConfirmed, true},
		{FlowPaymentPending, FlowCancelled, true},
		{FlowPaymentPending, FlowExpired, true},
		{FlowPaymentPending, FlowReconciliationFailed, true},
		{FlowReconciliationFailed, FlowConfirmed, true},
		{FlowReconciliationFailed, FlowCancelled, true},
		{FlowReconciliationFailed, FlowExpired, false},
		{FlowConfirmed, FlowCancelled, false},
		{FlowExpired, FlowConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, FlowConfirmed.Terminal())
	assert.True(t, FlowExpired.Terminal())
	assert.False(t, FlowPaymentPending.Terminal())
	assert.False(t, FlowState("bogus").Terminal())
}

func TestCheckoutFlow_Transition(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	f := &CheckoutFlow{State: FlowPaymentPending, CreatedAt: start, UpdatedAt: start}

	require.NoError(t, f.Transition(FlowReconciliationFailed, start.Add(time.Minute)))
	f.LastError = "backend unavailable"

	require.NoError(t, f.Transition(FlowConfirmed, start.Add(2*time.Minute)))
	assert.Equal(t, FlowConfirmed, f.State)
	assert.Empty(t, f.LastError)
	assert.Equal(t, start.Add(2*time.Minute), f.UpdatedAt)

	err := f.Transition(FlowCancelled, start.Add(3*time.Minute))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, FlowConfirmed, f.State)
}
