package transport

import (
	"time"

	"github.com/getAlby/x402hub.go/controllers"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// networks only change on restart
const networksCacheTTL = 10 * time.Minute

func RegisterEndpoints(svc *service.X402Service, e *echo.Echo, strictRateLimitMiddleware echo.MiddlewareFunc, adminMw echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	api := e.Group("/api", logMw)

	createCtrl := controllers.NewCreateRequestController(svc)
	requestCtrl := controllers.NewRequestController(svc)
	chainCtrl := controllers.NewChainController(svc)

	api.POST("/create", createCtrl.CreateRequest)
	api.GET("/requests", controllers.NewListRequestsController(svc).ListRequests)
	api.GET("/request/:id", requestCtrl.GetRequest)
	api.GET("/request/:id/qr", requestCtrl.QRCode)
	api.DELETE("/request/:id", requestCtrl.DeleteRequest, adminMw)
	api.POST("/verify", controllers.NewVerifyController(svc).Verify, strictRateLimitMiddleware)
	api.GET("/networks", chainCtrl.Networks, CreateCacheClient(networksCacheTTL).Middleware())
	api.GET("/balance/:network/:token/:address", chainCtrl.Balance)

	e.GET("/health", controllers.NewHealthController().Check)
}
