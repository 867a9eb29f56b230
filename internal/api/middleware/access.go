package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/identra/identity-service/internal/api/metrics"
	"github.com/identra/identity-service/internal/core/access"
	"github.com/identra/identity-service/internal/core/domain"
)

// Access gates every request through the ordered rule table before dispatch.
// Handlers behind a role rule can assume access was already granted and do
// not repeat the check.
func Access(engine *access.Engine) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := engine.Decide(c.Request().URL.Path, IdentityFrom(c))
			if decision.Allowed {
				return next(c)
			}

			if errors.Is(decision.Reason, domain.ErrForbidden) {
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
			} else {
				metrics.AccessDeniedTotal.WithLabelValues("not_authenticated").Inc()
			}
			return decision.Reason
		}
	}
}
