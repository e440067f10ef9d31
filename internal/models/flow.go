package models

import (
	"fmt"
	"time"
)

// FlowState is the state of one checkout attempt
type FlowState string

const (
	FlowCreated              FlowState = "created"
	FlowPaymentPending       FlowState = "payment_pending"
	FlowConfirmed            FlowState = "confirmed"
	FlowCancelled            FlowState = "cancelled"
	FlowExpired              FlowState = "expired"
	FlowReconciliationFailed FlowState = "reconciliation_failed"
)

// flowTransitions lists the states reachable from each state
var flowTransitions = map[FlowState][]FlowState{
	FlowCreated:              {FlowPaymentPending, FlowCancelled},
	FlowPaymentPending:       {FlowConfirmed, FlowCancelled, FlowExpired, FlowReconciliationFailed},
	FlowReconciliationFailed: {FlowConfirmed, FlowCancelled},
}

// Valid reports whether the state is known
func (s FlowState) Valid() bool {
	switch s {
	case FlowCreated, FlowPaymentPending, FlowConfirmed, FlowCancelled, FlowExpired, FlowReconciliationFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible
func (s FlowState) Terminal() bool {
	return s.Valid() && len(flowTransitions[s]) == 0
}

// CanTransitionTo reports whether moving from s to next is allowed
func (s FlowState) CanTransitionTo(next FlowState) bool {
	for _, allowed := range flowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckoutFlow tracks one booking from submission to payment outcome
type CheckoutFlow struct {
	ID             string          `json:"id"`
	IdempotencyKey string          `json:"idempotency_key"`
	EventID        int             `json:"event_id"`
	BookingID      string          `json:"booking_id"`
	Provider       PaymentProvider `json:"provider,omitempty"`
	OrderCode      string          `json:"order_code,omitempty"`
	Amount         int             `json:"amount"`
	State          FlowState       `json:"state"`
	LastError      string          `json:"last_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Transition moves the flow to next, or returns ErrInvalidTransition
func (f *CheckoutFlow) Transition(next FlowState, at time.Time) error {
	if !f.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.State, next)
	}
	f.State = next
	f.UpdatedAt = at
	if next != FlowReconciliationFailed {
		f.LastError = ""
	}
	return nil
}
