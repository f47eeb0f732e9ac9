package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/booking"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// AdminBookingHandler exposes the ledger and its status transitions to
// the admin surface.
type AdminBookingHandler struct {
	Svc *booking.Service
}

// NewAdminBookingHandler constructs an AdminBookingHandler.
func NewAdminBookingHandler(svc *booking.Service) *AdminBookingHandler {
	if svc == nil {
		panic("nil service passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Svc: svc}
}

// List handles GET /v1/admin/bookings.  Optional ?status= and ?email=
// filters narrow the result; the full ledger is returned otherwise,
// newest first.
func (h *AdminBookingHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, h.Svc.Store, store.KeyBookingLedger, &ledger); err != nil {
		return writeError(c, err)
	}
	status := strings.TrimSpace(c.QueryParam("status"))
	email := strings.TrimSpace(c.QueryParam("email"))
	out := make([]model.Booking, 0, len(ledger))
	for i := len(ledger) - 1; i >= 0; i-- {
		b := ledger[i]
		if status != "" && string(b.Status) != status {
			continue
		}
		if email != "" && !strings.EqualFold(b.Email, email) {
			continue
		}
		out = append(out, b)
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus handles PATCH /v1/admin/bookings/:id/status with body
// {"status": "..."}.  Illegal transitions come back as 400.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	to := model.BookingStatus(strings.TrimSpace(body.Status))
	switch to {
	case model.BookingStatusPendingPayment, model.BookingStatusPaid, model.BookingStatusConfirmed,
		model.BookingStatusCancelled, model.BookingStatusCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	b, err := h.Svc.Transition(c.Request().Context(), id, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// manualEntryRequest is the payload for an admin-recorded booking taken
// over the phone or in person.
type manualEntryRequest struct {
	SessionID int64   `json:"sessionId"`
	ClassName string  `json:"className"`
	Date      string  `json:"date"`
	Seats     int     `json:"seats"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Dietary   string  `json:"dietary"`
	Amount    float64 `json:"amount"`
}

// ManualEntry handles POST /v1/admin/bookings.  The booking goes through
// the same transaction as a customer submit, with a synthetic manual
// payment attached.
func (h *AdminBookingHandler) ManualEntry(c echo.Context) error {
	var req manualEntryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	res, err := h.Svc.ManualEntry(c.Request().Context(), booking.Request{
		SessionID:    req.SessionID,
		ClassName:    req.ClassName,
		Date:         req.Date,
		Seats:        req.Seats,
		CustomerName: req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Dietary:      req.Dietary,
	}, req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	resp := echo.Map{"booking": res.Booking}
	if res.TempPassword != "" {
		resp["tempPassword"] = res.TempPassword
	}
	return c.JSON(http.StatusCreated, resp)
}
