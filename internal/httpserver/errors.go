package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
	"github.com/Skotchmaster/dojo_backoffice/internal/transport"
)

type apiError struct {
	status int
	code   string
	msg    string
}

// classify maps service errors to a status and a caller-safe message.
// Store failures never expose their cause.
func classify(err error) apiError {
	var ve *service.ValidationError
	var he *echo.HTTPError

	switch {
	case errors.As(err, &ve):
		return apiError{http.StatusBadRequest, "validation_error", ve.Msg}
	case errors.Is(err, service.ErrValidation):
		return apiError{http.StatusBadRequest, "validation_error", "invalid request"}
	case errors.Is(err, service.ErrConflict):
		return apiError{http.StatusConflict, "conflict", "Username already exists"}
	case errors.Is(err, service.ErrNoSession):
		return apiError{http.StatusUnauthorized, "no_session", "Authentication required"}
	case errors.Is(err, service.ErrSessionExpired):
		return apiError{http.StatusUnauthorized, "session_expired", "Session expired"}
	case errors.Is(err, service.ErrSessionInvalid):
		return apiError{http.StatusUnauthorized, "invalid_session", "Invalid session"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, "invalid_credentials", "Invalid credentials"}
	case errors.Is(err, service.ErrUnauthenticated):
		return apiError{http.StatusUnauthorized, "unauthenticated", "Authentication required"}
	case errors.Is(err, service.ErrUnauthorized):
		return apiError{http.StatusForbidden, "forbidden", "Insufficient permissions"}
	case errors.Is(err, service.ErrNotFound):
		return apiError{http.StatusNotFound, "not_found", "Not found"}
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && he.Code < 500 {
			msg = s
		}
		return apiError{he.Code, strings.ReplaceAll(strings.ToLower(http.StatusText(he.Code)), " ", "_"), msg}
	default:
		return apiError{http.StatusInternalServerError, "internal_error", "Internal server error"}
	}
}

// ErrorHandler renders every error as {"success":false,"error":...,"code":...}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	ae := classify(err)
	if ae.status >= 500 {
		logging.FromContext(c.Request().Context()).Error("request_failed", "status", ae.status, "error", fmt.Sprintf("%v", err))
	}

	body := transport.ErrorResponse{Success: false, Error: ae.msg, Code: ae.code}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(ae.status)
	} else {
		werr = c.JSON(ae.status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
	}
}

func badRequest(msg string) error {
	return &service.ValidationError{Msg: msg}
}
