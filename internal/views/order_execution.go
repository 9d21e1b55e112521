package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/services"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

const (
	DefaultRedirectDelay = 2 * time.Second

	orderRejectedMessage = "Order execution failed"
	executeFailedMessage = "Failed to execute order. Please try again."
)

var (
	ErrSubmitInProgress = errors.New("order submission already in progress")
	ErrViewClosed       = errors.New("view closed")
)

// OrderExecutionSnapshot is a consistent copy of the view state for rendering.
type OrderExecutionSnapshot struct {
	Values        map[string]string
	FieldErrors   map[string]string // touched invalid fields only
	IsSubmitting  bool
	SubmitSuccess bool
	SubmitError   string
	Result        *domain.ExecuteOrderResult
	Mock          bool // result came from the mock execution path
}

// OrderExecutionView owns the order form and the submit protocol.
type OrderExecutionView struct {
	svc           services.PositionsService
	nav           Navigator
	redirectDelay time.Duration
	log           *logrus.Entry

	mu            sync.Mutex
	form          *OrderForm
	isSubmitting  bool
	submitSuccess bool
	submitError   string
	result        *domain.ExecuteOrderResult
	mock          bool
	redirect      *time.Timer
	cancel        context.CancelFunc
	submitGen     uint64 // bumped by ResetForm; completions of older submits are dropped
	closed        bool
}

func NewOrderExecutionView(svc services.PositionsService, nav Navigator, redirectDelay time.Duration) *OrderExecutionView {
	if redirectDelay < 0 {
		redirectDelay = DefaultRedirectDelay
	}
	return &OrderExecutionView{
		svc:           svc,
		nav:           nav,
		redirectDelay: redirectDelay,
		log:           logger.WithField("view", "order-execution"),
		form:          NewOrderForm(),
	}
}

func (v *OrderExecutionView) SetField(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.Set(field, value)
}

func (v *OrderExecutionView) TouchField(field string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form.Touch(field)
}

func (v *OrderExecutionView) FieldError(field string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.FieldError(field)
}

func (v *OrderExecutionView) Valid() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.Valid()
}

// Submit validates the form and executes the order, falling back to the mock
// execution path on a transport failure. An invalid form returns a
// *ValidationError with every field touched and never reaches the service.
// Business rejections and execution failures are reported through the
// snapshot, not the returned error.
func (v *OrderExecutionView) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	if v.isSubmitting {
		v.mu.Unlock()
		return ErrSubmitInProgress
	}
	order, err := v.form.Order()
	if err != nil {
		v.form.MarkAllTouched()
		v.mu.Unlock()
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	v.isSubmitting = true
	v.submitSuccess = false
	v.submitError = ""
	v.result = nil
	v.mock = false
	v.cancel = cancel
	gen := v.submitGen
	v.mu.Unlock()

	res, err := v.svc.ExecuteOrder(ctx, order)
	if err == nil {
		v.mu.Lock()
		defer v.mu.Unlock()
		if gen != v.submitGen {
			v.log.Infof("order %s completed after reset, result dropped", order.TradeID)
			return nil
		}
		v.isSubmitting = false
		v.cancel = nil
		if !res.Success {
			v.submitError = res.Message
			if v.submitError == "" {
				v.submitError = orderRejectedMessage
			}
			v.log.Warnf("order %s rejected: %s", order.TradeID, v.submitError)
			return nil
		}
		v.log.Infof("order executed successfully: tradeId=%s orderId=%s", order.TradeID, res.OrderID)
		v.succeedLocked(res, false)
		return nil
	}

	if v.isClosed() {
		return ErrViewClosed
	}
	if v.superseded(gen) {
		return nil
	}
	v.log.Warnf("API call failed, trying mock execution: %v", err)
	mockRes, mockErr := v.svc.MockExecuteOrder(ctx, order)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.submitGen {
		return nil
	}
	v.isSubmitting = false
	v.cancel = nil
	if mockErr != nil {
		v.submitError = executeFailedMessage
		v.log.Errorf("both API and mock execution failed: %v", mockErr)
		return nil
	}
	v.log.Infof("order executed successfully (mock): tradeId=%s orderId=%s", order.TradeID, mockRes.OrderID)
	v.succeedLocked(mockRes, true)
	return nil
}

func (v *OrderExecutionView) isClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

func (v *OrderExecutionView) superseded(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return gen != v.submitGen
}

func (v *OrderExecutionView) succeedLocked(res *domain.ExecuteOrderResult, mock bool) {
	v.submitSuccess = true
	v.result = res
	v.mock = mock
	if v.closed {
		return
	}
	if v.redirect != nil {
		v.redirect.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(v.redirectDelay, func() {
		v.mu.Lock()
		closed := v.closed
		if v.redirect == t {
			v.redirect = nil
		}
		v.mu.Unlock()
		if !closed {
			v.nav.Navigate(RoutePositions)
		}
	})
	v.redirect = t
}

// RedirectPending reports whether a post-success navigation is scheduled.
func (v *OrderExecutionView) RedirectPending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.redirect != nil
}

// ResetForm clears all field values and all submission state. An in-flight
// submission is cancelled and its result discarded.
func (v *OrderExecutionView) ResetForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.isSubmitting {
		v.submitGen++
		if v.cancel != nil {
			v.cancel()
			v.cancel = nil
		}
	}
	v.form.Reset()
	v.submitSuccess = false
	v.submitError = ""
	v.isSubmitting = false
	v.result = nil
	v.mock = false
}

// GoBack returns to the positions view.
func (v *OrderExecutionView) GoBack() {
	v.nav.Navigate(RoutePositions)
}

// Close tears the view down: the pending redirect is cancelled and any
// in-flight submission is abandoned.
func (v *OrderExecutionView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	if v.redirect != nil {
		v.redirect.Stop()
		v.redirect = nil
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *OrderExecutionView) Snapshot() OrderExecutionSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	fieldErrors := make(map[string]string)
	for _, f := range OrderFields {
		if msg := v.form.FieldError(f); msg != "" {
			fieldErrors[f] = msg
		}
	}
	var res *domain.ExecuteOrderResult
	if v.result != nil {
		r := *v.result
		res = &r
	}
	return OrderExecutionSnapshot{
		Values:        v.form.Snapshot(),
		FieldErrors:   fieldErrors,
		IsSubmitting:  v.isSubmitting,
		SubmitSuccess: v.submitSuccess,
		SubmitError:   v.submitError,
		Result:        res,
		Mock:          v.mock,
	}
}
