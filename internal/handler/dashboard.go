package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/chat"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// DashboardHandler serves the logged-in customer's view: their bookings
// and their chat thread with the owner.  All routes require JWTAuth.
type DashboardHandler struct {
	Store store.Store
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(s store.Store) *DashboardHandler {
	if s == nil {
		panic("nil store passed to NewDashboardHandler")
	}
	return &DashboardHandler{Store: s}
}

// MyBookings handles GET /v1/me/bookings: every ledger entry for the
// caller's email, any status.
func (h *DashboardHandler) MyBookings(c echo.Context) error {
	email, ok := callerEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var ledger []model.Booking
	if _, err := store.GetJSON(c.Request().Context(), h.Store, store.KeyBookingLedger, &ledger); err != nil {
		return writeError(c, err)
	}
	mine := make([]model.Booking, 0)
	for _, b := range ledger {
		if strings.EqualFold(b.Email, email) {
			mine = append(mine, b)
		}
	}
	return c.JSON(http.StatusOK, mine)
}

// Messages handles GET /v1/me/messages.  Viewing the thread marks the
// owner's messages as read, matching the dashboard behavior.
func (h *DashboardHandler) Messages(c echo.Context) error {
	email, ok := callerEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	if err := chat.MarkRead(ctx, h.Store, email, "admin"); err != nil {
		return writeError(c, err)
	}
	msgs, err := chat.Thread(ctx, h.Store, email)
	if err != nil {
		return writeError(c, err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return c.JSON(http.StatusOK, msgs)
}

// SendMessage handles POST /v1/me/messages.
func (h *DashboardHandler) SendMessage(c echo.Context) error {
	email, ok := callerEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	msg, err := chat.Send(c.Request().Context(), h.Store, email, "user", body.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// UnreadCount handles GET /v1/me/messages/unread.
func (h *DashboardHandler) UnreadCount(c echo.Context) error {
	email, ok := callerEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := chat.UnreadCount(c.Request().Context(), h.Store, email, "admin")
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}
