package handler

import (
	"net/http"
	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionHeader carries the visitor's cart session ID. A new ID is issued
// on the first cart request and echoed back in the response.
const SessionHeader = "X-Session-Id"

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func sessionID(c echo.Context) string {
	sid := c.Request().Header.Get(SessionHeader)
	if sid == "" {
		sid = uuid.NewString()
	}
	c.Response().Header().Set(SessionHeader, sid)
	return sid
}

func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartAddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sid := sessionID(c)
	if err := h.cartService.Add(ctx, sid, req.ProductID, req.Quantity, req.Update); err != nil {
		return httpError(err)
	}

	return h.respondCart(c, sid)
}

func (h *CartHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartRemoveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sid := sessionID(c)
	if err := h.cartService.Remove(ctx, sid, req.ProductID); err != nil {
		return httpError(err)
	}

	return h.respondCart(c, sid)
}

func (h *CartHandler) Detail(c echo.Context) error {
	return h.respondCart(c, sessionID(c))
}

func (h *CartHandler) respondCart(c echo.Context, sid string) error {
	ctx := c.Request().Context()

	items, err := h.cartService.List(ctx, sid)
	if err != nil {
		return httpError(err)
	}
	total, err := h.cartService.Total(ctx, sid)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.CartResponse{
		Items: items,
		Total: total,
	})
}
