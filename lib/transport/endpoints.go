package transport

import (
	"github.com/labstack/echo/v4"

	v2controllers "github.com/launchhub/launchhub.go/controllers_v2"
	"github.com/launchhub/launchhub.go/lib/service"
)

func RegisterV2Endpoints(svc *service.LaunchhubService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group, strictRateLimitMiddleware echo.MiddlewareFunc, logMw echo.MiddlewareFunc) {
	e.GET("/v2/health", v2controllers.NewHealthController().Check)

	e.POST("/auth", v2controllers.NewAuthController(svc).Auth, logMw)
	if svc.Config.AllowAccountCreation {
		e.POST("/v2/identities", v2controllers.NewCreateIdentityController(svc).CreateIdentity, strictRateLimitMiddleware, logMw)
	}

	identityCtrl := v2controllers.NewIdentityController(svc)
	secured.POST("/v2/identities/claim", identityCtrl.Claim)
	secured.PUT("/v2/identities/wallet", identityCtrl.SetWallet)
	secured.GET("/v2/identities/me", identityCtrl.Me)

	// launches and confirmations mutate at-most-once launch state, so
	// they sit behind the strict rate limit
	securedWithStrictRateLimit.POST("/v2/tokens/launch", v2controllers.NewLaunchController(svc).Launch)
	securedWithStrictRateLimit.POST("/v2/tokens/confirm", v2controllers.NewConfirmController(svc).Confirm)

	// public, cached token lookup
	e.GET("/v2/tokens/:mint", v2controllers.NewTokenController(svc).GetToken, CreateCacheClient().Middleware())
}
