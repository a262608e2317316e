package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/getAlby/x402hub.go/lib/responses"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/getAlby/x402hub.go/lib/store"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/labstack/echo/v4"
)

// retryAfterSeconds is advertised when the chain could not be read.
const retryAfterSeconds = 30

// respondWithError renders the errors the service layer can return. Anything
// unknown is handed to the HTTP error handler.
func respondWithError(c echo.Context, err error) error {
	var validationErr *service.ValidationError
	var infraErr *verification.InfraError
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage(validationErr.Error()))
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	case errors.Is(err, service.ErrAlreadyPaid):
		return c.JSON(http.StatusBadRequest, responses.AlreadyPaidError)
	case errors.Is(err, service.ErrExpired):
		return c.JSON(http.StatusGone, responses.ExpiredError)
	case errors.As(err, &infraErr):
		c.Logger().Errorf("Chain unavailable: %v", err)
		c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		return c.JSON(http.StatusServiceUnavailable, responses.VerificationUnavailableError)
	}
	return err
}
