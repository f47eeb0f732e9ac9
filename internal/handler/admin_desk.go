package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/archive"
	"github.com/cottagecooking/class-booking/internal/auth"
	"github.com/cottagecooking/class-booking/internal/chat"
	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// AdminDeskHandler groups the admin-only engagement surface:
// notifications, customer conversations, the member roster and the
// dashboard stats.
type AdminDeskHandler struct {
	Store   store.Store
	Auth    *auth.Service
	Archive *archive.DB // optional, nil when no MySQL mirror is configured
}

// NewAdminDeskHandler constructs an AdminDeskHandler.  Archive may be nil.
func NewAdminDeskHandler(s store.Store, a *auth.Service, db *archive.DB) *AdminDeskHandler {
	if s == nil || a == nil {
		panic("nil dependency passed to NewAdminDeskHandler")
	}
	return &AdminDeskHandler{Store: s, Auth: a, Archive: db}
}

// Notifications handles GET /v1/admin/notifications, newest first.
func (h *AdminDeskHandler) Notifications(c echo.Context) error {
	list, err := chat.Notifications(c.Request().Context(), h.Store)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// MarkNotificationsRead handles POST /v1/admin/notifications/read.
func (h *AdminDeskHandler) MarkNotificationsRead(c echo.Context) error {
	if err := chat.MarkNotificationsRead(c.Request().Context(), h.Store); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearNotifications handles DELETE /v1/admin/notifications.
func (h *AdminDeskHandler) ClearNotifications(c echo.Context) error {
	if err := chat.ClearNotifications(c.Request().Context(), h.Store); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Conversations handles GET /v1/admin/messages: one summary row per
// customer thread, most recently active first.
func (h *AdminDeskHandler) Conversations(c echo.Context) error {
	list, err := chat.Conversations(c.Request().Context(), h.Store)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Thread handles GET /v1/admin/messages/:email.  Reading a thread marks
// the customer's messages in it as read.
func (h *AdminDeskHandler) Thread(c echo.Context) error {
	ctx := c.Request().Context()
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if err := chat.MarkRead(ctx, h.Store, email, "user"); err != nil {
		return writeError(c, err)
	}
	msgs, err := chat.Thread(ctx, h.Store, email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// Reply handles POST /v1/admin/messages/:email with body {"text": "..."}.
func (h *AdminDeskHandler) Reply(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	msg, err := chat.Send(c.Request().Context(), h.Store, email, "admin", body.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// Members handles GET /v1/admin/members.  Password hashes never leave
// the server.
func (h *AdminDeskHandler) Members(c echo.Context) error {
	users, err := h.Auth.Users(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	type member struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Dietary     string `json:"dietary"`
		Experience  string `json:"experience"`
		AccountType string `json:"accountType"`
		CreatedAt   string `json:"createdAt"`
	}
	out := make([]member, 0, len(users))
	for _, u := range users {
		out = append(out, member{
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			Phone:       u.Phone,
			Dietary:     u.Dietary,
			Experience:  u.Experience,
			AccountType: u.AccountType,
			CreatedAt:   u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ExportMembers handles GET /v1/admin/members/export as a CSV download.
func (h *AdminDeskHandler) ExportMembers(c echo.Context) error {
	users, err := h.Auth.Users(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	var sb strings.Builder
	sb.WriteString("firstName,lastName,email,phone,dietary,experience,accountType,createdAt\n")
	for _, u := range users {
		sb.WriteString(csvLine(u.FirstName, u.LastName, u.Email, u.Phone,
			u.Dietary, u.Experience, u.AccountType, u.CreatedAt))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="members.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(sb.String()))
}

func csvLine(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, ",\"\n") {
			f = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		quoted[i] = f
	}
	return strings.Join(quoted, ",") + "\n"
}

// ResetPassword handles POST /v1/admin/members/:email/reset-password.
func (h *AdminDeskHandler) ResetPassword(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	temp, err := h.Auth.ResetPassword(c.Request().Context(), email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tempPassword": temp})
}

// Stats handles GET /v1/admin/stats: headline numbers for the dashboard.
// Revenue per class comes from the MySQL mirror when one is configured;
// the live figures come straight from the store.
func (h *AdminDeskHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	var sessions []model.ClassSession
	if _, err := store.GetJSON(ctx, h.Store, store.KeyClassCatalogAdmin, &sessions); err != nil {
		return writeError(c, err)
	}
	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, h.Store, store.KeyBookingLedger, &ledger); err != nil {
		return writeError(c, err)
	}
	users, err := h.Auth.Users(ctx)
	if err != nil {
		return writeError(c, err)
	}

	var seatsBooked, pending int
	var revenue float64
	active := 0
	for _, b := range ledger {
		if !b.Status.Active() {
			continue
		}
		active++
		seatsBooked += b.Seats
		if b.Status == model.BookingStatusPendingPayment {
			pending++
		}
		if b.Payment != nil {
			revenue += b.Payment.Amount
		}
	}
	seatsTotal := 0
	for _, s := range sessions {
		seatsTotal += s.MaxSeats
	}

	resp := echo.Map{
		"classes":         len(sessions),
		"members":         len(users),
		"bookings":        active,
		"pendingPayments": pending,
		"seatsBooked":     seatsBooked,
		"seatsTotal":      seatsTotal,
		"revenue":         fmt.Sprintf("%.2f", revenue),
	}
	if h.Archive != nil {
		byClass, err := h.Archive.RevenueByClass(ctx)
		if err == nil {
			resp["revenueByClass"] = byClass
		}
	}
	return c.JSON(http.StatusOK, resp)
}
