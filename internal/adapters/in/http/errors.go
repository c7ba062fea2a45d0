package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/rider"
	"lastmile/internal/pkg/errs"
)

// writeError maps a domain or application error onto the HTTP status space.
// Validation failures are client errors; lifecycle violations are conflicts;
// a rider acting on an order they no longer own gets 410 so the app drops the
// stale queued action instead of retrying it.
func writeError(ctx echo.Context, err error) error {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}

	return ctx.JSON(status, Error{Code: status, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrRiderNotAssigned):
		return http.StatusGone
	case errors.Is(err, errs.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrStateConflict),
		errors.Is(err, order.ErrOfferAlreadyOpen),
		errors.Is(err, order.ErrNoOpenOffer),
		errors.Is(err, order.ErrCodCollectionRequired),
		errors.Is(err, rider.ErrRiderIsBusy),
		errors.Is(err, rider.ErrRiderHasNoActiveOrder):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, order.ErrOtpVerificationFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
