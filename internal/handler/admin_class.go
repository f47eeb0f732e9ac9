package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/reconcile"
	"github.com/cottagecooking/class-booking/internal/store"
	"github.com/cottagecooking/class-booking/internal/sync"
)

// AdminClassHandler exposes CRUD over class sessions.  Every mutation
// reconciles availability from the ledger and republishes both views
// before returning, so no caller can observe a half-updated catalog.
type AdminClassHandler struct {
	Store store.Store
	Pub   *sync.Publisher
}

// NewAdminClassHandler constructs an AdminClassHandler.
func NewAdminClassHandler(s store.Store, pub *sync.Publisher) *AdminClassHandler {
	if s == nil || pub == nil {
		panic("nil dependency passed to NewAdminClassHandler")
	}
	return &AdminClassHandler{Store: s, Pub: pub}
}

// List handles GET /v1/admin/classes: the admin view with bookedSeats
// freshly recomputed from the ledger.
func (h *AdminClassHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	sessions, ledger, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	reconciled := reconcile.All(sessions, ledger)
	// Persist the corrected numbers so both views stay honest even if
	// the last writer skipped a publish.
	if err := h.Pub.Publish(ctx, reconciled); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reconciled)
}

// classForm is the create/update payload for a session.
type classForm struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	MaxSeats    int     `json:"maxSeats"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func (f classForm) validate() string {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return "name is required"
	case strings.TrimSpace(f.Date) == "":
		return "date is required"
	case f.MaxSeats < 1:
		return "maxSeats must be at least 1"
	default:
		if _, ok := reconcile.Day(f.Date); !ok {
			return "date must be YYYY-MM-DD"
		}
		return ""
	}
}

// Create handles POST /v1/admin/classes.
func (h *AdminClassHandler) Create(c echo.Context) error {
	var form classForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := form.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	sessions, ledger, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	s := model.ClassSession{
		ID:          time.Now().UnixMilli(),
		Type:        strings.TrimSpace(form.Type),
		Name:        strings.TrimSpace(form.Name),
		Date:        strings.TrimSpace(form.Date),
		Time:        strings.TrimSpace(form.Time),
		MaxSeats:    form.MaxSeats,
		Price:       form.Price,
		Description: strings.TrimSpace(form.Description),
	}
	sessions = append(sessions, s)
	if err := h.Pub.Publish(ctx, reconcile.All(sessions, ledger)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// Update handles PUT /v1/admin/classes/:id.  Lowering maxSeats below the
// current booked count is allowed; availability clamps at zero and the
// historical overbooking stays visible in the ledger.
func (h *AdminClassHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	var form classForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := form.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	sessions, ledger, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	idx := -1
	for i, s := range sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return writeError(c, model.ErrSessionNotFound)
	}
	s := &sessions[idx]
	s.Type = strings.TrimSpace(form.Type)
	s.Name = strings.TrimSpace(form.Name)
	s.Date = strings.TrimSpace(form.Date)
	s.Time = strings.TrimSpace(form.Time)
	s.MaxSeats = form.MaxSeats
	s.Price = form.Price
	s.Description = strings.TrimSpace(form.Description)
	if err := h.Pub.Publish(ctx, reconcile.All(sessions, ledger)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessions[idx])
}

// Delete handles DELETE /v1/admin/classes/:id.  The session disappears
// from both views; its historical bookings stay in the ledger untouched.
func (h *AdminClassHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	ctx := c.Request().Context()
	sessions, ledger, err := h.load(c)
	if err != nil {
		return writeError(c, err)
	}
	kept := sessions[:0]
	found := false
	for _, s := range sessions {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		return writeError(c, model.ErrSessionNotFound)
	}
	if err := h.Pub.Publish(ctx, reconcile.All(kept, ledger)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminClassHandler) load(c echo.Context) ([]model.ClassSession, []model.Booking, error) {
	ctx := c.Request().Context()
	var sessions []model.ClassSession
	if _, err := store.GetJSON(ctx, h.Store, store.KeyClassCatalogAdmin, &sessions); err != nil {
		return nil, nil, err
	}
	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, h.Store, store.KeyBookingLedger, &ledger); err != nil {
		return nil, nil, err
	}
	return sessions, ledger, nil
}
