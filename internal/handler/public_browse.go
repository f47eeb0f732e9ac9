package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/reconcile"
	"github.com/cottagecooking/class-booking/internal/store"
)

// PublicHandler serves the unauthenticated customer calendar.  All reads
// go through the customer-facing materialization; remaining seats come
// from the published view, never from a counter held in memory.
type PublicHandler struct {
	Store store.Store
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(s store.Store) *PublicHandler {
	if s == nil {
		panic("nil store passed to NewPublicHandler")
	}
	return &PublicHandler{Store: s}
}

// GetClasses handles GET /v1/classes.  Optional ?type= filters by
// category key; ?month=YYYY-MM narrows to one calendar month.
func (h *PublicHandler) GetClasses(c echo.Context) error {
	var classes []model.CustomerClass
	if _, err := store.GetJSON(c.Request().Context(), h.Store, store.KeyClassCatalogCustomer, &classes); err != nil {
		return writeError(c, err)
	}
	if classes == nil {
		classes = []model.CustomerClass{}
	}
	if typ := c.QueryParam("type"); typ != "" {
		classes = h.filterByType(c, classes, typ)
	}
	if month := c.QueryParam("month"); month != "" {
		filtered := classes[:0]
		for _, cl := range classes {
			if strings.HasPrefix(cl.Date, month) {
				filtered = append(filtered, cl)
			}
		}
		classes = filtered
	}
	return c.JSON(http.StatusOK, classes)
}

// filterByType keeps classes whose admin session carries the requested
// category key.  The customer view has no type column, so the admin view
// resolves ids to types.
func (h *PublicHandler) filterByType(c echo.Context, classes []model.CustomerClass, typ string) []model.CustomerClass {
	var sessions []model.ClassSession
	if _, err := store.GetJSON(c.Request().Context(), h.Store, store.KeyClassCatalogAdmin, &sessions); err != nil {
		return classes
	}
	types := make(map[int64]string, len(sessions))
	for _, s := range sessions {
		types[s.ID] = s.Type
	}
	out := classes[:0]
	for _, cl := range classes {
		if strings.EqualFold(types[cl.ID], typ) {
			out = append(out, cl)
		}
	}
	return out
}

// GetClass handles GET /v1/classes/:id with the full class detail and
// live availability.
func (h *PublicHandler) GetClass(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	ctx := c.Request().Context()
	var sessions []model.ClassSession
	if _, err := store.GetJSON(ctx, h.Store, store.KeyClassCatalogAdmin, &sessions); err != nil {
		return writeError(c, err)
	}
	var ledger []model.Booking
	if _, err := store.GetJSON(ctx, h.Store, store.KeyBookingLedger, &ledger); err != nil {
		return writeError(c, err)
	}
	for _, s := range sessions {
		if s.ID == id {
			return c.JSON(http.StatusOK, echo.Map{
				"id":          s.ID,
				"type":        s.Type,
				"name":        s.Name,
				"date":        s.Date,
				"time":        s.Time,
				"price":       s.Price,
				"description": s.Description,
				"seats":       reconcile.Available(s, ledger),
			})
		}
	}
	return writeError(c, model.ErrSessionNotFound)
}
