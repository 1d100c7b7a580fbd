package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
	"github.com/Skotchmaster/dojo_backoffice/internal/transport"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid id")
	}
	return id, nil
}

func (h *UsersHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_add")

	var req transport.AddUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_user_error", "status", 400, "error", err)
		return badRequest("invalid body")
	}

	acc, err := h.Svc.AddUser(ctx, IdentityFrom(c), service.NewUser{
		Username:         req.Username,
		Password:         req.Password,
		Role:             req.Role,
		IsSubscribed:     req.IsSubscribed,
		SubscriptionDate: req.SubscriptionDate.Time,
		NextBillDate:     req.NextBillDate.Time,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.UserResponse{Success: true, User: transport.NewUserView(acc)})
}

func (h *UsersHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_error", "status", 400, "error", err)
		return badRequest("invalid body")
	}

	acc, err := h.Svc.UpdateUser(ctx, IdentityFrom(c), id, service.UserUpdate{
		Username:         req.Username,
		Role:             req.Role,
		IsSubscribed:     req.IsSubscribed,
		SubscriptionDate: req.SubscriptionDate,
		NextBillDate:     req.NextBillDate,
		Password:         req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.UserResponse{Success: true, User: transport.NewUserView(acc)})
}

func (h *UsersHTTP) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteUser(c.Request().Context(), IdentityFrom(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest(name + " must be a non-negative integer")
	}
	return n, nil
}

// List accepts optional page and size query parameters; without page every account is returned.
// size is capped at util.MaxPageSize.
func (h *UsersHTTP) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size")
	if err != nil {
		return err
	}

	res, err := h.Svc.ListUsers(c.Request().Context(), IdentityFrom(c), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.UsersResponse{
		Success: true,
		Users:   transport.NewUserViews(res.Users),
		Total:   res.Total,
	})
}
