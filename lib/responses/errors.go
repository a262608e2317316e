package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          string `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message,omitempty"`
	HttpStatusCode int    `json:"-"`
}

// WithMessage returns a copy of the response carrying a detail message.
func (e ErrorResponse) WithMessage(message string) ErrorResponse {
	e.Message = message
	return e
}

var GeneralServerError = ErrorResponse{
	Error:          "Something went wrong. Please try again later",
	Code:           http.StatusInternalServerError,
	HttpStatusCode: http.StatusInternalServerError,
}

var BadArgumentsError = ErrorResponse{
	Error:          "Bad arguments",
	Code:           http.StatusBadRequest,
	HttpStatusCode: http.StatusBadRequest,
}

var BadAuthError = ErrorResponse{
	Error:          "bad auth",
	Code:           http.StatusUnauthorized,
	HttpStatusCode: http.StatusUnauthorized,
}

var NotFoundError = ErrorResponse{
	Error:          "Payment request not found",
	Code:           http.StatusNotFound,
	HttpStatusCode: http.StatusNotFound,
}

var ExpiredError = ErrorResponse{
	Error:          "Payment request expired",
	Code:           http.StatusGone,
	HttpStatusCode: http.StatusGone,
}

var AlreadyPaidError = ErrorResponse{
	Error:          "Payment request already paid",
	Code:           http.StatusBadRequest,
	HttpStatusCode: http.StatusBadRequest,
}

var VerificationFailedError = ErrorResponse{
	Error:          "Payment verification failed",
	Code:           http.StatusBadRequest,
	HttpStatusCode: http.StatusBadRequest,
}

var VerificationUnavailableError = ErrorResponse{
	Error:          "Payment could not be verified right now. Please try again later",
	Code:           http.StatusServiceUnavailable,
	HttpStatusCode: http.StatusServiceUnavailable,
}

var UnsupportedTokenError = ErrorResponse{
	Error:          "Unsupported token for this network",
	Code:           http.StatusBadRequest,
	HttpStatusCode: http.StatusBadRequest,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		c.JSON(GeneralServerError.HttpStatusCode, GeneralServerError)
		return
	}
	switch msg := he.Message.(type) {
	case ErrorResponse:
		c.JSON(he.Code, msg)
	case string:
		c.JSON(he.Code, ErrorResponse{Error: msg, Code: he.Code, HttpStatusCode: he.Code})
	default:
		c.JSON(he.Code, msg)
	}
}

// isErrAllowedForSentry keeps client errors out of sentry.
func isErrAllowedForSentry(err error) bool {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code >= http.StatusInternalServerError
	}
	return true
}
