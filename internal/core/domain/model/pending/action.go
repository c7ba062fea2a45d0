package pending

import (
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"
)

// MaxRetries is how many failed sync attempts an action survives before it
// is dropped from the queue.
const MaxRetries = 3

// ErrRetriesExhausted is returned by Retry when the action has already used
// its last attempt and must be dropped.
var ErrRetriesExhausted = errors.New("action retries exhausted")

// ActionType names a rider operation captured while offline.
type ActionType string

const (
	ActionStatusUpdate   ActionType = "status_update"
	ActionVerifyOtp      ActionType = "verify_otp"
	ActionCollectCod     ActionType = "collect_cod"
	ActionFailedAttempt  ActionType = "failed_attempt"
	ActionLocationUpdate ActionType = "location_update"
)

// ActionTypeFromString parses a persisted action type value.
func ActionTypeFromString(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionStatusUpdate, ActionVerifyOtp, ActionCollectCod, ActionFailedAttempt,
		ActionLocationUpdate:
		return ActionType(s), nil
	}
	return "", errs.NewValueIsInvalidError("action type: " + s)
}

// Action is one rider operation queued while the device had no connectivity.
// The payload is the operation's request body, replayed verbatim against the
// server during sync. Actions are replayed in enqueue order.
type Action struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Type       ActionType
	Payload    []byte
	EnqueuedAt time.Time
	RetryCount int
}

// NewAction captures an operation for later sync.
func NewAction(orderID kernel.UUID, actionType ActionType, payload []byte, now time.Time) (Action, error) {
	if err := orderID.Validate(); err != nil {
		return Action{}, err
	}
	if _, err := ActionTypeFromString(string(actionType)); err != nil {
		return Action{}, err
	}
	if len(payload) == 0 {
		return Action{}, errs.NewValueIsRequiredError("payload")
	}

	return Action{
		ID:         kernel.NewUUID(),
		OrderID:    orderID,
		Type:       actionType,
		Payload:    payload,
		EnqueuedAt: now,
		RetryCount: 0,
	}, nil
}

// Retry consumes one attempt. When the action has been tried MaxRetries
// times it reports ErrRetriesExhausted and the caller drops it.
func (a *Action) Retry() error {
	if a.RetryCount >= MaxRetries {
		return ErrRetriesExhausted
	}

	a.RetryCount++
	return nil
}

// Exhausted reports whether the action has used all of its attempts.
func (a *Action) Exhausted() bool {
	return a.RetryCount >= MaxRetries
}
