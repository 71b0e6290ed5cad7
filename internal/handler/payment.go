package handler

import (
	"errors"
	"net/http"
	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// Confirm receives the external payment callback. The sender retries on
// non-2xx responses, so malformed or duplicate confirmations are logged and
// acknowledged rather than rejected; credit is never applied twice.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("malformed payment confirmation", zap.Error(err))
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	err := h.paymentService.Confirm(ctx, req.EventID, req.Label, req.Amount)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, service.ErrDuplicateEvent),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNotFound):
		h.logger.Warn("payment confirmation ignored",
			zap.String("order_number", req.Label),
			zap.Error(err))
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	default:
		// internal failure: let the sender retry
		return err
	}
}
