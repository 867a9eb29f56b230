package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/identra/identity-service/internal/core/access"
	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/service"
	"github.com/identra/identity-service/internal/infrastructure/db/memory"
	"github.com/identra/identity-service/internal/pkg/hash"
	"github.com/identra/identity-service/pkg/logger"
)

// newTestRouter wires the full stack over in-memory backends. It must be
// called once per test binary: the prometheus middleware registers with the
// default registry.
func newTestRouter() *echo.Echo {
	users := memory.NewUserRepository()
	sessions := memory.NewSessionStore()
	hasher := hash.NewBcrypt(bcrypt.MinCost)

	return NewRouter(Dependencies{
		Auth:          service.NewAuthService(users, hasher),
		Registrations: service.NewRegistrationService(users, hasher),
		Sessions:      service.NewSessionService(sessions, users, 30*time.Minute, 120*time.Second),
		Log:           logger.Init(logger.Options{Level: "error"}),
		RememberMeTTL: 120 * time.Second,
	})
}

func do(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func findSessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}
	return nil
}

func TestRouter_EndToEnd(t *testing.T) {
	e := newTestRouter()

	// Register two accounts.
	rec := do(e, http.MethodPost, "/register", `{"username":"alice","password":"pw1","role":"USER"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register alice: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = do(e, http.MethodPost, "/register", `{"username":"root","password":"pw2","role":"ADMIN"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("register root: expected 200, got %d", rec.Code)
	}

	// Duplicate registration fails with 400.
	rec = do(e, http.MethodPost, "/register", `{"username":"alice","password":"other","role":"USER"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", rec.Code)
	}

	// Bad credentials: unknown user and wrong password produce the same 401 body.
	wrongPw := do(e, http.MethodPost, "/login", `{"username":"alice","password":"nope"}`)
	unknown := do(e, http.MethodPost, "/login", `{"username":"ghost","password":"nope"}`)
	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPw.Code, unknown.Code)
	}
	if wrongPw.Body.String() != unknown.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %s vs %s", wrongPw.Body.String(), unknown.Body.String())
	}

	// Login as alice.
	rec = do(e, http.MethodPost, "/login", `{"username":"alice","password":"pw1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	aliceCookie := findSessionCookie(rec)
	if aliceCookie == nil || aliceCookie.Value == "" {
		t.Fatalf("login did not set a session cookie")
	}

	// who_am_i with the session.
	rec = do(e, http.MethodGet, "/who_am_i", "", aliceCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("who_am_i: expected 200, got %d", rec.Code)
	}
	var identity map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &identity); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if identity["username"] != "alice" || identity["role"] != "USER" {
		t.Fatalf("unexpected identity: %v", identity)
	}
	if strings.Contains(rec.Body.String(), "pw1") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password material leaked: %s", rec.Body.String())
	}

	// Role gates: USER may hit /am_i_user, not /am_i_admin.
	rec = do(e, http.MethodGet, "/am_i_user", "", aliceCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "You are user") {
		t.Fatalf("am_i_user: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = do(e, http.MethodGet, "/am_i_admin", "", aliceCookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("am_i_admin as USER: expected 403, got %d", rec.Code)
	}

	// Admin login and the inverse gates.
	rec = do(e, http.MethodPost, "/login", `{"username":"root","password":"pw2"}`)
	adminCookie := findSessionCookie(rec)
	if adminCookie == nil {
		t.Fatalf("admin login did not set a session cookie")
	}
	rec = do(e, http.MethodGet, "/am_i_admin", "", adminCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "You are admin") {
		t.Fatalf("am_i_admin: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = do(e, http.MethodGet, "/am_i_user", "", adminCookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("am_i_user as ADMIN: expected 403, got %d", rec.Code)
	}

	// Anonymous callers.
	rec = do(e, http.MethodGet, "/who_am_i", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous who_am_i: expected 401, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/am_i_admin", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous am_i_admin: expected 401, got %d", rec.Code)
	}

	// Logout invalidates the token; it is never resurrected.
	rec = do(e, http.MethodGet, "/logout", "", aliceCookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/who_am_i", "", aliceCookie)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("who_am_i after logout: expected 401, got %d", rec.Code)
	}

	// The logout landing route is public.
	rec = do(e, http.MethodGet, "/logout_success", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Logout successful") {
		t.Fatalf("logout_success: expected 200, got %d", rec.Code)
	}

	// Health is public; unmatched paths require authentication by default.
	rec = do(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	rec = do(e, http.MethodGet, "/unlisted", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unmatched path: expected 401, got %d", rec.Code)
	}
}

func TestRules_Ordering(t *testing.T) {
	engine := access.NewEngine(Rules(), access.Authenticated())

	user := &domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleUser}

	if d := engine.Decide("/register", nil); !d.Allowed {
		t.Fatalf("register must be public: %v", d.Reason)
	}
	if d := engine.Decide("/am_i_admin", user); d.Allowed || d.Reason != domain.ErrForbidden {
		t.Fatalf("USER on /am_i_admin must be forbidden, got %+v", d)
	}
	if d := engine.Decide("/health/ready", nil); !d.Allowed {
		t.Fatalf("health subtree must be public: %v", d.Reason)
	}
	if d := engine.Decide("/swagger/index.html", nil); !d.Allowed {
		t.Fatalf("swagger subtree must be public: %v", d.Reason)
	}
}
