package controllers

import (
	"net/http"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/lib/responses"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/labstack/echo/v4"
)

// VerifyController : Payment verification controller struct
type VerifyController struct {
	svc *service.X402Service
}

func NewVerifyController(svc *service.X402Service) *VerifyController {
	return &VerifyController{svc: svc}
}

type VerifyRequestBody struct {
	RequestId string `json:"requestId" validate:"required"`
	TxHash    string `json:"txHash" validate:"required"`
}

type VerifyResponseBody struct {
	Success      bool                  `json:"success"`
	Status       string                `json:"status"`
	Request      SettledRequest        `json:"request"`
	Verification *verification.Verdict `json:"verification"`
}

type VerificationFailedResponseBody struct {
	Error   string                        `json:"error"`
	Code    int                           `json:"code"`
	Reason  verification.Reason           `json:"reason"`
	Message string                        `json:"message"`
	Details *verification.MismatchDetails `json:"details,omitempty"`
}

// Verify godoc
// @Summary      Submit a payment
// @Description  Verifies the transaction against the request and marks the request paid when it matches
// @Accept       json
// @Produce      json
// @Tags         Payment request
// @Param        payment  body      VerifyRequestBody  true  "Payment"
// @Success      200      {object}  VerifyResponseBody
// @Failure      400      {object}  VerificationFailedResponseBody
// @Failure      404      {object}  responses.ErrorResponse
// @Failure      503      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/verify [post]
func (controller *VerifyController) Verify(c echo.Context) error {
	var body VerifyRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load verify request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid verify request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage("requestId and txHash are required"))
	}

	result, err := controller.svc.SubmitPayment(c.Request().Context(), body.RequestId, body.TxHash)
	if err != nil {
		return respondWithError(c, err)
	}

	verdict := result.Verdict
	if !result.Settled() {
		return c.JSON(http.StatusBadRequest, &VerificationFailedResponseBody{
			Error:   responses.VerificationFailedError.Error,
			Code:    http.StatusBadRequest,
			Reason:  verdict.Reason,
			Message: verdict.Reason.Message(),
			Details: verdict.Details,
		})
	}

	return c.JSON(http.StatusOK, &VerifyResponseBody{
		Success:      true,
		Status:       common.RequestStatusPaid,
		Request:      toSettledRequest(result.Request),
		Verification: verdict,
	})
}
