package tokens

import (
	"crypto/subtle"
	"net/http"

	"github.com/getAlby/x402hub.go/lib/responses"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// AdminTokenMiddleware guards administrative routes with a static bearer
// token. Without a configured token the routes stay open.
func AdminTokenMiddleware(token string) echo.MiddlewareFunc {
	if token == "" {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(auth string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(auth), []byte(token)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return echo.NewHTTPError(http.StatusUnauthorized, responses.BadAuthError)
		},
	})
}
