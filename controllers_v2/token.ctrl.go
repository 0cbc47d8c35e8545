package v2controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
)

// TokenController : Public token lookup controller struct
type TokenController struct {
	svc *service.LaunchhubService
}

func NewTokenController(svc *service.LaunchhubService) *TokenController {
	return &TokenController{svc: svc}
}

type TokenResponseBody struct {
	Mint       string     `json:"mint"`
	Name       string     `json:"name"`
	Symbol     string     `json:"symbol"`
	Wallet     string     `json:"wallet"`
	LaunchedAt *time.Time `json:"launched_at,omitempty"`
}

// GetToken returns a confirmed token by mint. The endpoint is public
// and served through the response cache.
func (controller *TokenController) GetToken(c echo.Context) error {
	mint := c.Param("mint")

	identity, err := controller.svc.FindTokenByMint(c.Request().Context(), mint)
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			return c.JSON(http.StatusNotFound, responses.TokenNotFoundError)
		}
		c.Logger().Errorf("Failed to look up token: mint:%s error:%v", mint, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	body := &TokenResponseBody{
		Mint:   identity.TokenMint,
		Name:   identity.TokenName,
		Symbol: identity.TokenSymbol,
		Wallet: identity.WalletAddress,
	}
	if !identity.TokenLaunchedAt.IsZero() {
		body.LaunchedAt = &identity.TokenLaunchedAt.Time
	}
	return c.JSON(http.StatusOK, body)
}
