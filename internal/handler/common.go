package handler // handler implements the HTTP endpoints

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/cottagecooking/class-booking/internal/model"
)

// callerEmail extracts the authenticated caller's email placed in context
// by the JWTAuth middleware.
func callerEmail(c echo.Context) (string, bool) {
	v, ok := c.Get("email").(string)
	return v, ok && v != ""
}

// writeError translates a service error into an HTTP response.  Validation
// failures carry their reason to the user (which field is missing, how
// many seats remain); provider failures are logged in full but surfaced
// as a generic retry message.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrMissingFields),
		errors.Is(err, model.ErrInvalidEmail),
		errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrBadCredentials),
		errors.Is(err, model.ErrAuthExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrBookingNotFound),
		errors.Is(err, model.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrDuplicateAccount),
		errors.Is(err, model.ErrInsufficientSeats):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrPaymentProvider):
		logrus.WithError(err).Warn("payment provider failure")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment failed, please try again"})
	default:
		logrus.WithError(err).Error("internal error")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
