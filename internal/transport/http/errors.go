package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/centerlock"
	"github.com/discope/booking-service/internal/pkg/committer"
)

// validationResponse is the body of a 422 answer. Field names key the
// messages so the back office can attach them to the right input.
type validationResponse struct {
	Errors map[string]string `json:"errors"`
}

// mapDomainError converts domain errors to HTTP responses.
func mapDomainError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, validationResponse{Errors: fieldErrs})
	}

	switch {
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrBookingLocked),
		errors.Is(err, domain.ErrGroupLocked),
		errors.Is(err, domain.ErrCustomerChangeLocked):
		return echo.NewHTTPError(http.StatusLocked, err.Error())

	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrBookingNotQuote),
		errors.Is(err, domain.ErrBookingFromChannel):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, committer.ErrVersionConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, centerlock.ErrNotAcquired):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())

	case errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidAgeRange),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrUnknownGroupType),
		errors.Is(err, domain.ErrUnknownProduct),
		errors.Is(err, domain.ErrActivitySlotNeeded),
		errors.Is(err, domain.ErrActivityConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
