package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/identra/identity-service/internal/api/metrics"
	"github.com/identra/identity-service/internal/api/middleware"
	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/ports"
)

// AuthHandler owns the authentication endpoints: login, logout, registration,
// and the identity lookup routes.
type AuthHandler struct {
	auth          ports.AuthService
	registrations ports.RegistrationService
	sessions      ports.SessionService
	rememberMeTTL time.Duration
}

func NewAuthHandler(auth ports.AuthService, registrations ports.RegistrationService, sessions ports.SessionService, rememberMeTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		registrations: registrations,
		sessions:      sessions,
		rememberMeTTL: rememberMeTTL,
	}
}

type loginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type registerRequest struct {
	ID       string `json:"id"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login authenticates a username/password pair and sets the session cookie.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.auth.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	token, err := h.sessions.Issue(c.Request().Context(), identity, req.RememberMe)
	if err != nil {
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsIssuedTotal.WithLabelValues(strconv.FormatBool(req.RememberMe)).Inc()

	c.SetCookie(h.sessionCookie(token, req.RememberMe))
	return c.JSON(http.StatusOK, messageResponse{Message: "Login successful"})
}

// Logout revokes the caller's session token and clears the cookie. Logging
// out without a valid session is not an error.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.RequestToken(c); token != "" {
		if err := h.sessions.Revoke(c.Request().Context(), token); err != nil {
			return err
		}
		metrics.SessionsRevokedTotal.Inc()
	}

	c.SetCookie(expiredSessionCookie())
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// LogoutSuccess is the logout landing route.
//
// @Summary      Logout confirmation
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /logout_success [get]
func (h *AuthHandler) LogoutSuccess(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.registrations.Register(c.Request().Context(), req.ID, req.Username, req.Password, domain.Role(req.Role))
	if err != nil {
		result := "invalid"
		if err == domain.ErrUserExists {
			result = "duplicate"
		}
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Registration successful. Please login"})
}

// WhoAmI returns the authenticated caller, never including the password
// hash. The route itself is public; the handler rejects anonymous callers,
// mirroring the route being permitted for all while identity is required.
//
// @Summary      Current user
// @Tags         identity
// @Produce      json
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /who_am_i [get]
func (h *AuthHandler) WhoAmI(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return domain.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, identity)
}

// AmIAdmin answers for callers holding the ADMIN role. Authorization is
// enforced entirely by the access rule table before dispatch; the handler
// assumes access was already granted.
//
// @Summary      Admin check
// @Tags         identity
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /am_i_admin [get]
func (h *AuthHandler) AmIAdmin(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "You are admin"})
}

// AmIUser answers for callers holding the USER role; gated by the rule table
// like AmIAdmin.
//
// @Summary      User check
// @Tags         identity
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /am_i_user [get]
func (h *AuthHandler) AmIUser(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "You are user"})
}

func (h *AuthHandler) sessionCookie(token string, persistent bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if persistent {
		cookie.MaxAge = int(h.rememberMeTTL / time.Second)
	}
	return cookie
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}
