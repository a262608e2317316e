package controllers

import (
	"net/http"

	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// ListRequestsController : List payment requests controller struct
type ListRequestsController struct {
	svc *service.X402Service
}

func NewListRequestsController(svc *service.X402Service) *ListRequestsController {
	return &ListRequestsController{svc: svc}
}

type ListRequestsResponseBody struct {
	Success  bool             `json:"success"`
	Requests []PaymentRequest `json:"requests"`
	Count    int              `json:"count"`
}

// ListRequests godoc
// @Summary      List payment requests
// @Description  Newest first, optionally only those created by a wallet
// @Accept       json
// @Produce      json
// @Tags         Payment request
// @Param        wallet  query     string  false  "Creator wallet"
// @Success      200     {object}  ListRequestsResponseBody
// @Failure      500     {object}  responses.ErrorResponse
// @Router       /api/requests [get]
func (controller *ListRequestsController) ListRequests(c echo.Context) error {
	summaries, err := controller.svc.ListRequests(c.Request().Context(), c.QueryParam("wallet"))
	if err != nil {
		return err
	}

	requests := make([]PaymentRequest, len(summaries))
	for i, summary := range summaries {
		requests[i] = toPaymentRequest(summary)
	}
	return c.JSON(http.StatusOK, &ListRequestsResponseBody{
		Success:  true,
		Requests: requests,
		Count:    len(requests),
	})
}
