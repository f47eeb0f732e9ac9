package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cottagecooking/class-booking/internal/auth"
)

// AuthHandler exposes sign-up, sign-in and session endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

// NewAuthHandler constructs an AuthHandler.  Auth must be non-nil.
func NewAuthHandler(a *auth.Service) *AuthHandler {
	if a == nil {
		panic("nil auth service passed to NewAuthHandler")
	}
	return &AuthHandler{Auth: a}
}

// Register handles POST /v1/auth/register.  Returns 201 with the public
// account fields, 409 when the email already has an account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"createdAt": u.CreatedAt,
	})
}

// Login handles POST /v1/auth/login and returns a bearer token plus the
// session snapshot.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	sess, tok, err := h.Auth.Login(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      tok.Token,
		"expires_at": tok.Exp.Format(time.RFC3339),
		"session":    sess,
	})
}

// Logout handles POST /v1/auth/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context()); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword handles POST /v1/auth/reset-password.  The temp password
// is returned in the response for one-time delivery; there is no
// outbound email.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	temp, err := h.Auth.ResetPassword(c.Request().Context(), body.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tempPassword": temp})
}

// Me handles GET /v1/me: the stored session snapshot, 401 when expired.
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := h.Auth.CurrentSession(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}
