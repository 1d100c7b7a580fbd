package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	UsersHandler     *UsersHTTP
	SchedulesHandler *SchedulesHTTP
	Gate             *GateMiddleware
	Ready            func(ctx context.Context) error
	Metrics          http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"success": false, "error": "not ready"})
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.POST("/verify", d.AuthHandler.Verify)
	auth.GET("/verify", d.AuthHandler.Verify)

	v1.GET("/schedules", d.SchedulesHandler.List)

	gate := d.Gate.RequireSession

	v1.GET("/users", d.UsersHandler.List, gate)
	v1.POST("/users", d.UsersHandler.Add, gate)
	v1.PATCH("/users/:id", d.UsersHandler.Update, gate)
	v1.DELETE("/users/:id", d.UsersHandler.Delete, gate)

	v1.POST("/schedules", d.SchedulesHandler.Create, gate)
	v1.PATCH("/schedules/:id", d.SchedulesHandler.Update, gate)
	v1.DELETE("/schedules/:id", d.SchedulesHandler.Delete, gate)
}
