package httpserver

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
)

const identityKey = "identity"

// GateMiddleware resolves the session on every privileged route. Authorization
// happens in the service operation, which knows the target.
type GateMiddleware struct {
	Gate    *service.Gate
	Cookies CookieConfig
}

func (m *GateMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		ident, err := m.Gate.Resolve(ctx, ExtractToken(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				if _, cerr := c.Cookie(SessionCookieName); cerr == nil {
					c.SetCookie(m.Cookies.Delete())
				}
				logging.FromContext(ctx).Warn("session_rejected", "status", 401, "reason", err.Error())
			}
			return err
		}

		l := logging.FromContext(ctx).With("account_id", ident.AccountID, "role", ident.Role)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
		c.Set(identityKey, ident)
		return next(c)
	}
}

func IdentityFrom(c echo.Context) *service.Identity {
	ident, _ := c.Get(identityKey).(*service.Identity)
	return ident
}
