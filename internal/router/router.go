package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/cottagecooking/class-booking/internal/handler"
	"github.com/cottagecooking/class-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring probes hit this endpoint to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while the account endpoints that need a valid token live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that establish or replace a session do not carry a token.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/reset-password", a.ResetPassword)

	// Everything below requires a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Returns the caller's identity and session snapshot.
	auth.GET("/me", a.Me)
	// Logout clears the stored session snapshot for the calling account.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  These return
// the customer view of the catalog and apply no JWT or role middleware so
// that guests can browse before signing up.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	// List upcoming classes; supports ?type= and ?month= filters.
	e.GET("/v1/classes", p.GetClasses)
	// Detail for a single session, with live seat availability.
	e.GET("/v1/classes/:id", p.GetClass)
}

// RegisterBooking registers the booking submission endpoint.  Submission is
// open to guests: the transaction auto-provisions an account when the email
// is new, so no token is required up front.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler) {
	e.POST("/v1/bookings", b.Submit)
}

// RegisterDashboard registers the customer dashboard under /v1, protected
// by the access token.  Each handler scopes its reads to the caller's email
// taken from the token claims.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	// The caller's own bookings, any status.
	g.GET("/me/bookings", d.MyBookings)
	// The caller's chat thread with the kitchen; reading marks admin
	// replies as read.
	g.GET("/me/messages", d.Messages)
	g.POST("/me/messages", d.SendMessage)
	g.GET("/me/messages/unread", d.UnreadCount)
}

// RegisterAdmin registers the owner-facing surface under /v1/admin.  Every
// route requires a token whose admin claim is set.
func RegisterAdmin(e *echo.Echo, jwtSecret string,
	classes *handler.AdminClassHandler,
	bookings *handler.AdminBookingHandler,
	desk *handler.AdminDeskHandler,
) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireAdmin())

	// Catalog management.  Each mutation reconciles seat counts from the
	// ledger and republishes both catalog views before responding.
	g.GET("/classes", classes.List)
	g.POST("/classes", classes.Create)
	g.PUT("/classes/:id", classes.Update)
	g.DELETE("/classes/:id", classes.Delete)

	// Ledger management.  Status changes go through the transition table;
	// manual entries run the same transaction as customer submissions.
	g.GET("/bookings", bookings.List)
	g.POST("/bookings", bookings.ManualEntry)
	g.PATCH("/bookings/:id/status", bookings.UpdateStatus)

	// Notifications raised by bookings, payments, chat and account events.
	g.GET("/notifications", desk.Notifications)
	g.POST("/notifications/read", desk.MarkNotificationsRead)
	g.DELETE("/notifications", desk.ClearNotifications)

	// Customer chat, seen from the kitchen side.
	g.GET("/messages", desk.Conversations)
	g.GET("/messages/:email", desk.Thread)
	g.POST("/messages/:email", desk.Reply)

	// Member roster and account service actions.
	g.GET("/members", desk.Members)
	g.GET("/members/export", desk.ExportMembers)
	g.POST("/members/:email/reset-password", desk.ResetPassword)

	// Headline numbers for the dashboard.
	g.GET("/stats", desk.Stats)
}
