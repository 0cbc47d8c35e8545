package v2controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"

	"github.com/launchhub/launchhub.go/lib/launchdata"
	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
)

// LaunchController : Token launch controller struct
type LaunchController struct {
	svc *service.LaunchhubService
}

func NewLaunchController(svc *service.LaunchhubService) *LaunchController {
	return &LaunchController{svc: svc}
}

type LaunchTokenRequestBody struct {
	Name        string `json:"name" validate:"required,max=32"`
	Symbol      string `json:"symbol" validate:"required,max=10"`
	Description string `json:"description" validate:"max=280"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	Twitter     string `json:"twitter"`
	Telegram    string `json:"telegram"`
	Website     string `json:"website" validate:"omitempty,url"`
}

type LaunchTokenResponseBody struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Token   launchdata.TokenInfo      `json:"token"`
	Signing launchdata.SigningPayload `json:"signing"`
	// LaunchData is the same payload as one opaque string for the
	// signer CLI.
	LaunchData string `json:"launch_data"`
}

// Launch runs the eligibility gate and returns the unsigned
// token-creation transaction together with the mint secret key. The
// server keeps neither; the caller must finish the signing ceremony
// and confirm the broadcast.
func (controller *LaunchController) Launch(c echo.Context) error {
	userID := c.Get("UserID").(int64)

	var body LaunchTokenRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load launch request body: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	result, err := controller.svc.LaunchToken(c.Request().Context(), userID, &service.LaunchTokenRequest{
		Name:        body.Name,
		Symbol:      body.Symbol,
		Description: body.Description,
		ImageURL:    body.ImageURL,
		Twitter:     body.Twitter,
		Telegram:    body.Telegram,
		Website:     body.Website,
	})
	if err != nil {
		var fieldErr *service.FieldError
		var rateErr *service.RateLimitedError
		switch {
		case errors.As(err, &fieldErr):
			return c.JSON(http.StatusBadRequest, responses.InvalidLaunchFieldError(fieldErr.Field))
		case errors.As(err, &rateErr):
			return c.JSON(http.StatusTooManyRequests, responses.LaunchRateLimitedError(rateErr.RetryAfter.Hours()))
		case errors.Is(err, service.ErrIdentityNotClaimed):
			return c.JSON(http.StatusForbidden, responses.IdentityNotClaimedError)
		case errors.Is(err, service.ErrNoWallet):
			return c.JSON(http.StatusForbidden, responses.NoWalletError)
		case errors.Is(err, service.ErrTokenAlreadyIssued):
			return c.JSON(http.StatusConflict, responses.TokenAlreadyIssuedError)
		case errors.Is(err, service.ErrUpstreamLaunch):
			return c.JSON(http.StatusBadGateway, responses.UpstreamLaunchError)
		}
		c.Logger().Errorf("Failed to launch token: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	data := &launchdata.LaunchData{
		Token: launchdata.TokenInfo{
			Name:        body.Name,
			Symbol:      body.Symbol,
			Description: result.Description,
			Mint:        result.Mint,
			Wallet:      result.Identity.WalletAddress,
			MetadataURI: result.MetadataURI,
		},
		Signing: launchdata.SigningPayload{
			Transaction:   base58.Encode(result.Transaction),
			MintSecretKey: result.MintSecretKey,
			Instructions:  "Sign with the wallet registered for this identity, then broadcast and confirm",
		},
	}
	encoded, err := launchdata.Encode(data)
	if err != nil {
		c.Logger().Errorf("Failed to encode launch data: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, &LaunchTokenResponseBody{
		Success:    true,
		Message:    "Token launch prepared. Complete the signing ceremony to put it on-chain",
		Token:      data.Token,
		Signing:    data.Signing,
		LaunchData: encoded,
	})
}
