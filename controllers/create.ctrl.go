package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/getAlby/x402hub.go/lib/responses"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// CreateRequestController : Create payment request controller struct
type CreateRequestController struct {
	svc *service.X402Service
}

func NewCreateRequestController(svc *service.X402Service) *CreateRequestController {
	return &CreateRequestController{svc: svc}
}

type CreateRequestBody struct {
	Token         string      `json:"token" validate:"required"`
	Amount        json.Number `json:"amount" validate:"required"`
	Receiver      string      `json:"receiver" validate:"required"`
	Payer         string      `json:"payer"`
	Description   string      `json:"description"`
	Network       string      `json:"network"`
	ExpiresInDays int         `json:"expiresInDays" validate:"gte=0"`
	CreatorWallet string      `json:"creatorWallet"`
}

type CreatedRequest struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

type CreateRequestResponseBody struct {
	Success bool           `json:"success"`
	Request CreatedRequest `json:"request"`
}

// CreateRequest godoc
// @Summary      Create a payment request
// @Description  Creates a pending payment request and returns its id and shareable link
// @Accept       json
// @Produce      json
// @Tags         Payment request
// @Param        request  body      CreateRequestBody  true  "Payment request"
// @Success      201      {object}  CreateRequestResponseBody
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      500      {object}  responses.ErrorResponse
// @Router       /api/create [post]
func (controller *CreateRequestController) CreateRequest(c echo.Context) error {
	var body CreateRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid create request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage("token, amount and receiver are required"))
	}

	req, err := controller.svc.CreateRequest(c.Request().Context(), service.CreateRequestParams{
		Token:         body.Token,
		Amount:        body.Amount.String(),
		Receiver:      body.Receiver,
		Payer:         body.Payer,
		Description:   body.Description,
		Network:       body.Network,
		ExpiresInDays: body.ExpiresInDays,
		CreatorWallet: body.CreatorWallet,
	})
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusCreated, &CreateRequestResponseBody{
		Success: true,
		Request: CreatedRequest{
			ID:   req.ID,
			Link: controller.svc.RequestLink(req.ID),
		},
	})
}
