package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
	"github.com/Skotchmaster/dojo_backoffice/internal/transport"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Cookies CookieConfig
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return badRequest("invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.Cookies.Create(res.Token, res.ExpiresAt))
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Success:      true,
		User:         transport.NewUserView(res.Account),
		SessionToken: res.Token,
		ExpiresAt:    res.ExpiresAt,
	})
}

// Logout always clears the cookie, even when the store delete fails.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	token := ExtractToken(c)
	c.SetCookie(h.Cookies.Delete())
	if token == "" {
		return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true, Message: "No session to logout"})
	}

	if err := h.Svc.Logout(ctx, token); err != nil {
		return err
	}

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *AuthHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	acc, ident, err := h.Svc.Verify(ctx, ExtractToken(c))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			if _, cerr := c.Cookie(SessionCookieName); cerr == nil {
				c.SetCookie(h.Cookies.Delete())
			}
		}
		return err
	}

	return c.JSON(http.StatusOK, transport.SessionResponse{
		Success:   true,
		User:      transport.NewUserView(acc),
		ExpiresAt: ident.ExpiresAt,
	})
}
