package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/booking"
	"github.com/cottagecooking/class-booking/internal/payment"
)

// BookingHandler owns the customer booking write path.
type BookingHandler struct {
	Svc *booking.Service
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	if svc == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// submitRequest is the booking form plus the payment confirmation the
// client obtained from its provider flow.  Exactly one of PayPalOrder or
// ApplePay applies; neither makes the booking pending_payment.
type submitRequest struct {
	SessionID int64  `json:"sessionId"`
	ClassName string `json:"className"`
	Date      string `json:"date"`
	Seats     int    `json:"seats"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Dietary   string `json:"dietary"`

	PayPalOrder *payment.PayPalOrder `json:"paypalOrder,omitempty"`
	ApplePay    *struct {
		Amount float64 `json:"amount"`
	} `json:"applePay,omitempty"`
}

// Submit handles POST /v1/bookings.  On success it returns 201 with the
// committed booking; when a guest account was auto-provisioned the
// one-time temp password rides along.  All failures are typed: the caller
// learns which fields are missing or how many seats remain, and nothing
// is written.
func (h *BookingHandler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	br := booking.Request{
		SessionID:    req.SessionID,
		ClassName:    req.ClassName,
		Date:         req.Date,
		Seats:        req.Seats,
		CustomerName: req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Dietary:      req.Dietary,
	}
	switch {
	case req.PayPalOrder != nil:
		p, err := payment.FromPayPal(*req.PayPalOrder)
		if err != nil {
			return writeError(c, err)
		}
		br.Payment = p
	case req.ApplePay != nil:
		br.Payment = payment.SimulateApplePay(req.ApplePay.Amount, req.Email)
	}
	res, err := h.Svc.Submit(c.Request().Context(), br)
	if err != nil {
		return writeError(c, err)
	}
	resp := echo.Map{"booking": res.Booking}
	if res.TempPassword != "" {
		resp["tempPassword"] = res.TempPassword
	}
	return c.JSON(http.StatusCreated, resp)
}
