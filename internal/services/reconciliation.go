package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
)

// Outcome describes what reconciliation did for one redirect
type Outcome string

const (
	// OutcomeSkipped means no order code was supplied and nothing was sent
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNotified means the backend accepted the notification
	OutcomeNotified Outcome = "notified"
	// OutcomeFailed means the notification call failed
	OutcomeFailed Outcome = "failed"
)

// ReconcileResult is rendered by the terminal pages whatever happened
type ReconcileResult struct {
	OrderCode string               `json:"order_code,omitempty"`
	Success   bool                 `json:"success"`
	Outcome   Outcome              `json:"outcome"`
	Status    models.PaymentStatus `json:"payment_status,omitempty"`
	Message   string               `json:"message,omitempty"`
	FlowState models.FlowState     `json:"flow_state,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// Reconciler forwards the provider's redirect outcome to the backend once
type Reconciler struct {
	api    OutcomeAPI
	flows  *FlowService
	logger *zap.Logger
}

// NewReconciler creates a reconciler. flows may be nil.
func NewReconciler(api OutcomeAPI, flows *FlowService, logger *zap.Logger) *Reconciler {
	return &Reconciler{api: api, flows: flows, logger: logger}
}

// Success reports a successful payment for orderCode
func (r *Reconciler) Success(ctx context.Context, orderCode string) (*ReconcileResult, error) {
	return r.reconcile(ctx, orderCode, true)
}

// Cancel reports a cancelled or failed payment for orderCode
func (r *Reconciler) Cancel(ctx context.Context, orderCode string) (*ReconcileResult, error) {
	return r.reconcile(ctx, orderCode, false)
}

// reconcile sends at most one notification and never retries. The result is
// always non-nil; the error is the notification failure, if any.
func (r *Reconciler) reconcile(ctx context.Context, orderCode string, success bool) (*ReconcileResult, error) {
	result := &ReconcileResult{OrderCode: orderCode, Success: success, Outcome: OutcomeSkipped}
	if orderCode == "" {
		return result, nil
	}

	var (
		check *models.PaymentCheckResult
		err   error
	)
	if success {
		check, err = r.api.SuccessPayment(ctx, orderCode)
	} else {
		check, err = r.api.FailPayment(ctx, orderCode)
	}

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = models.UserMessage(err)
		r.logger.Warn("Payment reconciliation failed",
			zap.String("order_code", orderCode),
			zap.Bool("success", success),
			zap.Error(err))
	} else {
		result.Outcome = OutcomeNotified
		if check != nil {
			result.Status = check.Status
			result.Message = check.Message
		}
		r.logger.Info("Payment reconciled",
			zap.String("order_code", orderCode),
			zap.Bool("success", success),
			zap.String("status", string(result.Status)))
	}

	if r.flows != nil {
		flow, flowErr := r.flows.Resolve(ctx, orderCode, success, err)
		switch {
		case flowErr == nil:
			result.FlowState = flow.State
		case errors.Is(flowErr, models.ErrFlowNotFound):
		default:
			r.logger.Warn("Failed to update checkout flow after reconciliation", zap.String("order_code", orderCode), zap.Error(flowErr))
		}
	}

	return result, err
}
