package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/identra/identity-service/internal/core/domain"
)

type stubSessionService struct {
	sessions map[string]*domain.Identity
}

func (s *stubSessionService) Issue(_ context.Context, _ *domain.Identity, _ bool) (string, error) {
	return "", nil
}

func (s *stubSessionService) Resolve(_ context.Context, token string) (*domain.Identity, error) {
	identity, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return identity, nil
}

func (s *stubSessionService) Revoke(_ context.Context, _ string) error {
	return nil
}

func sessionContext(t *testing.T, mutate func(*http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/who_am_i", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSession_ResolvesCookie(t *testing.T) {
	stub := &stubSessionService{sessions: map[string]*domain.Identity{
		"tok-1": {UserID: "u1", Username: "alice", Role: domain.RoleUser},
	}}
	c, _ := sessionContext(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok-1"})
	})

	handler := Session(stub)(func(c echo.Context) error {
		identity := IdentityFrom(c)
		if identity == nil || identity.Username != "alice" {
			t.Fatalf("identity not injected: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_ResolvesBearerHeader(t *testing.T) {
	stub := &stubSessionService{sessions: map[string]*domain.Identity{
		"tok-2": {UserID: "u2", Username: "bob", Role: domain.RoleAdmin},
	}}
	c, _ := sessionContext(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer tok-2")
	})

	handler := Session(stub)(func(c echo.Context) error {
		if identity := IdentityFrom(c); identity == nil || identity.Role != domain.RoleAdmin {
			t.Fatalf("identity not injected: %+v", identity)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_InvalidTokenStaysAnonymous(t *testing.T) {
	stub := &stubSessionService{sessions: map[string]*domain.Identity{}}
	c, _ := sessionContext(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "expired"})
	})

	handler := Session(stub)(func(c echo.Context) error {
		if IdentityFrom(c) != nil {
			t.Fatalf("invalid token must not resolve to an identity")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_AnonymousPassesThrough(t *testing.T) {
	stub := &stubSessionService{sessions: map[string]*domain.Identity{}}
	c, rec := sessionContext(t, nil)

	called := false
	handler := Session(stub)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("anonymous request must reach the next handler")
	}
}
