package responses

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var LoginTakenError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "login already exists",
	HttpStatusCode: 400,
}

var IdentityNotClaimedError = ErrorResponse{
	Error:          true,
	Code:           10,
	Message:        "identity is not claimed. Verify ownership before launching a token",
	HttpStatusCode: 403,
}

var NoWalletError = ErrorResponse{
	Error:          true,
	Code:           11,
	Message:        "no payout wallet configured for this identity",
	HttpStatusCode: 403,
}

var InvalidWalletError = ErrorResponse{
	Error:          true,
	Code:           11,
	Message:        "invalid wallet address",
	HttpStatusCode: 400,
}

var WalletAlreadySetError = ErrorResponse{
	Error:          true,
	Code:           11,
	Message:        "payout wallet is already set",
	HttpStatusCode: 409,
}

var TokenAlreadyIssuedError = ErrorResponse{
	Error:          true,
	Code:           12,
	Message:        "a token has already been issued for this identity",
	HttpStatusCode: 409,
}

var UpstreamLaunchError = ErrorResponse{
	Error:          true,
	Code:           13,
	Message:        "the launch service failed to build the transaction. Please try again later",
	HttpStatusCode: 502,
}

var TokenNotFoundError = ErrorResponse{
	Error:          true,
	Code:           12,
	Message:        "token not found",
	HttpStatusCode: 404,
}

var TokenNotConfirmedError = ErrorResponse{
	Error:          true,
	Code:           13,
	Message:        "transaction is not confirmed on-chain",
	HttpStatusCode: 400,
}

// LaunchRateLimitedError carries the remaining wait so clients can back off.
func LaunchRateLimitedError(retryAfterHours float64) ErrorResponse {
	return ErrorResponse{
		Error:          true,
		Code:           14,
		Message:        fmt.Sprintf("a launch was attempted recently. Try again in %.1f hours", retryAfterHours),
		HttpStatusCode: 429,
	}
}

func InvalidLaunchFieldError(field string) ErrorResponse {
	return ErrorResponse{
		Error:          true,
		Code:           8,
		Message:        fmt.Sprintf("invalid launch request field: %s", field),
		HttpStatusCode: 400,
	}
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("UserID", c.Get("UserID"))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}
