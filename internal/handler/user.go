package handler

import (
	"net/http"
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	return h.register(c, false)
}

func (h *UserHandler) RegisterSeller(c echo.Context) error {
	return h.register(c, true)
}

func (h *UserHandler) register(c echo.Context, seller bool) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID, err := h.userService.Register(ctx, &req, seller)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]uint{"id": userID})
}

func (h *UserHandler) Activate(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.userService.Activate(ctx, c.Param("token")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "activated"})
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := h.userService.Login(ctx, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, &dto.LoginResponse{Token: token})
}

func (h *UserHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}

	profile, err := h.userService.Profile(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
