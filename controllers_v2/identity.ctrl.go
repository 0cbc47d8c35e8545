package v2controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/launchhub/launchhub.go/db/models"
	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
)

// IdentityController : IdentityController struct
type IdentityController struct {
	svc *service.LaunchhubService
}

func NewIdentityController(svc *service.LaunchhubService) *IdentityController {
	return &IdentityController{svc: svc}
}

type IdentityResponseBody struct {
	Login           string     `json:"login"`
	Claimed         bool       `json:"claimed"`
	ClaimedAt       *time.Time `json:"claimed_at,omitempty"`
	WalletAddress   string     `json:"wallet_address,omitempty"`
	TokenMint       string     `json:"token_mint,omitempty"`
	TokenName       string     `json:"token_name,omitempty"`
	TokenSymbol     string     `json:"token_symbol,omitempty"`
	TokenLaunchedAt *time.Time `json:"token_launched_at,omitempty"`
}

func newIdentityResponse(identity *models.Identity) *IdentityResponseBody {
	body := &IdentityResponseBody{
		Login:         identity.Login,
		Claimed:       identity.IsClaimed(),
		WalletAddress: identity.WalletAddress,
		TokenMint:     identity.TokenMint,
		TokenName:     identity.TokenName,
		TokenSymbol:   identity.TokenSymbol,
	}
	if identity.IsClaimed() {
		body.ClaimedAt = &identity.ClaimedAt.Time
	}
	if !identity.TokenLaunchedAt.IsZero() {
		body.TokenLaunchedAt = &identity.TokenLaunchedAt.Time
	}
	return body
}

// Claim marks the authenticated identity as operated by its agent.
// Claiming twice is a no-op.
func (controller *IdentityController) Claim(c echo.Context) error {
	userID := c.Get("UserID").(int64)

	identity, err := controller.svc.ClaimIdentity(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("Failed to claim identity: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, newIdentityResponse(identity))
}

type SetWalletRequestBody struct {
	WalletAddress string `json:"wallet_address" validate:"required"`
}

// SetWallet registers the payout wallet for the authenticated identity.
func (controller *IdentityController) SetWallet(c echo.Context) error {
	userID := c.Get("UserID").(int64)

	var body SetWalletRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load wallet request body: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	identity, err := controller.svc.SetWallet(c.Request().Context(), userID, body.WalletAddress)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidWallet):
			return c.JSON(http.StatusBadRequest, responses.InvalidWalletError)
		case errors.Is(err, service.ErrWalletAlreadySet):
			return c.JSON(http.StatusConflict, responses.WalletAlreadySetError)
		case errors.Is(err, service.ErrIdentityNotClaimed):
			return c.JSON(http.StatusForbidden, responses.IdentityNotClaimedError)
		}
		c.Logger().Errorf("Failed to set wallet: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, newIdentityResponse(identity))
}

// Me returns the authenticated identity.
func (controller *IdentityController) Me(c echo.Context) error {
	userID := c.Get("UserID").(int64)

	identity, err := controller.svc.FindIdentity(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("Failed to load identity: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, newIdentityResponse(identity))
}
