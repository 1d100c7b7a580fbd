package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
	"github.com/Skotchmaster/dojo_backoffice/internal/transport"
)

type SchedulesHTTP struct {
	Svc *service.ScheduleService
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *SchedulesHTTP) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.SchedulesResponse{Success: true, Schedules: out})
}

func (h *SchedulesHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		logging.FromContext(ctx).Warn("create_schedule_error", "status", 400, "error", err)
		return badRequest("invalid body")
	}

	s, err := h.Svc.Create(ctx, IdentityFrom(c), service.NewSchedule{
		Type:      deref(req.Type),
		Title:     deref(req.Title),
		TimeStart: req.TimeStart.Value,
		TimeEnd:   req.TimeEnd.Value,
		Days:      deref(req.Days),
		AgeGroup:  req.AgeGroup.Value,
		Color:     req.Color.Value,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.ScheduleResponse{Success: true, ID: s.ID.String(), Schedule: s})
}

func (h *SchedulesHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		logging.FromContext(ctx).Warn("update_schedule_error", "status", 400, "error", err)
		return badRequest("invalid body")
	}

	s, err := h.Svc.Update(ctx, IdentityFrom(c), id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.ScheduleResponse{Success: true, ID: s.ID.String(), Schedule: s})
}

func (h *SchedulesHTTP) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), IdentityFrom(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}
