package controllers

import (
	"net/http"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/lib/responses"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// RequestController : Payment request read and delete controller struct
type RequestController struct {
	svc *service.X402Service
}

func NewRequestController(svc *service.X402Service) *RequestController {
	return &RequestController{svc: svc}
}

type PaymentRequiredResponseBody struct {
	Error   string                       `json:"error"`
	Code    int                          `json:"code"`
	Payment service.PaymentAdvertisement `json:"payment"`
}

type ExpiredResponseBody struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	ExpiredAt *int64 `json:"expiredAt"`
}

type DeleteRequestResponseBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// GetRequest godoc
// @Summary      Read a payment request
// @Description  Answers 402 Payment Required with X-Payment-* headers while the request is payable, 200 once it is paid and 410 after its deadline
// @Accept       json
// @Produce      json
// @Tags         Payment request
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  SettledResponseBody
// @Failure      402  {object}  PaymentRequiredResponseBody
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      410  {object}  ExpiredResponseBody
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/request/{id} [get]
func (controller *RequestController) GetRequest(c echo.Context) error {
	view, err := controller.svc.ViewRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondWithError(c, err)
	}

	switch view.State {
	case service.StatePaid:
		return c.JSON(http.StatusOK, &SettledResponseBody{
			Success: true,
			Status:  common.RequestStatusPaid,
			Request: toSettledRequest(view.Request),
		})
	case service.StateExpired:
		return c.JSON(http.StatusGone, &ExpiredResponseBody{
			Error:     responses.ExpiredError.Error,
			Code:      http.StatusGone,
			ExpiredAt: millis(view.Request.ExpiresAt),
		})
	}

	for key, value := range view.PaymentHeaders() {
		c.Response().Header().Set(key, value)
	}
	return c.JSON(http.StatusPaymentRequired, &PaymentRequiredResponseBody{
		Error:   "Payment Required",
		Code:    http.StatusPaymentRequired,
		Payment: view.Advertisement(),
	})
}

// DeleteRequest godoc
// @Summary      Delete a payment request
// @Description  Removes a request regardless of its status
// @Accept       json
// @Produce      json
// @Tags         Payment request
// @Param        id   path      string  true  "Request id"
// @Success      200  {object}  DeleteRequestResponseBody
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /api/request/{id} [delete]
// @Security     AdminToken
func (controller *RequestController) DeleteRequest(c echo.Context) error {
	id := c.Param("id")
	if err := controller.svc.DeleteRequest(c.Request().Context(), id); err != nil {
		return respondWithError(c, err)
	}
	return c.JSON(http.StatusOK, &DeleteRequestResponseBody{
		Success: true,
		Message: "Payment request deleted",
		ID:      id,
	})
}

// QRCode godoc
// @Summary      Payment QR code
// @Description  PNG QR code of the EIP-681 payment link of a payable request
// @Produce      png
// @Tags         Payment request
// @Param        id   path      string  true  "Request id"
// @Success      200  {file}    binary
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      410  {object}  responses.ErrorResponse
// @Failure      503  {object}  responses.ErrorResponse
// @Router       /api/request/{id}/qr [get]
func (controller *RequestController) QRCode(c echo.Context) error {
	png, uri, err := controller.svc.PaymentQRCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondWithError(c, err)
	}
	c.Response().Header().Set("X-Payment-Uri", uri)
	return c.Blob(http.StatusOK, "image/png", png)
}
