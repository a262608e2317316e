package controllers

import (
	"net/http"

	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// ChainController : Network catalogue and balance controller struct
type ChainController struct {
	svc *service.X402Service
}

func NewChainController(svc *service.X402Service) *ChainController {
	return &ChainController{svc: svc}
}

type NetworksResponseBody struct {
	Networks []service.NetworkInfo `json:"networks"`
}

// Networks godoc
// @Summary      Supported networks
// @Description  Networks payments can be verified on, with chain ids and accepted tokens
// @Produce      json
// @Tags         Chain
// @Success      200  {object}  NetworksResponseBody
// @Router       /api/networks [get]
func (controller *ChainController) Networks(c echo.Context) error {
	return c.JSON(http.StatusOK, &NetworksResponseBody{Networks: controller.svc.Networks()})
}

// Balance godoc
// @Summary      Token balance
// @Description  Current balance of an address in token units
// @Produce      json
// @Tags         Chain
// @Param        network  path      string  true  "Network"
// @Param        token    path      string  true  "Token symbol"
// @Param        address  path      string  true  "Address"
// @Success      200      {object}  service.Balance
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      503      {object}  responses.ErrorResponse
// @Router       /api/balance/{network}/{token}/{address} [get]
func (controller *ChainController) Balance(c echo.Context) error {
	balance, err := controller.svc.Balance(c.Request().Context(), c.Param("network"), c.Param("token"), c.Param("address"))
	if err != nil {
		return respondWithError(c, err)
	}
	return c.JSON(http.StatusOK, balance)
}
