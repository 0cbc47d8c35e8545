package v2controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
)

// ConfirmController : Token confirmation controller struct
type ConfirmController struct {
	svc *service.LaunchhubService
}

func NewConfirmController(svc *service.LaunchhubService) *ConfirmController {
	return &ConfirmController{svc: svc}
}

type ConfirmTokenRequestBody struct {
	Mint      string `json:"mint" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// Confirm verifies a broadcast launch transaction on-chain and records
// the mint for the authenticated identity. Retrying with the same mint
// is idempotent.
func (controller *ConfirmController) Confirm(c echo.Context) error {
	userID := c.Get("UserID").(int64)

	var body ConfirmTokenRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load confirm request body: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	identity, err := controller.svc.ConfirmToken(c.Request().Context(), userID, body.Mint, body.Signature)
	if err != nil {
		var fieldErr *service.FieldError
		switch {
		case errors.As(err, &fieldErr):
			return c.JSON(http.StatusBadRequest, responses.InvalidLaunchFieldError(fieldErr.Field))
		case errors.Is(err, service.ErrTokenNotConfirmed):
			return c.JSON(http.StatusBadRequest, responses.TokenNotConfirmedError)
		case errors.Is(err, service.ErrTokenAlreadyIssued):
			return c.JSON(http.StatusConflict, responses.TokenAlreadyIssuedError)
		case errors.Is(err, service.ErrUpstreamLaunch):
			return c.JSON(http.StatusBadGateway, responses.UpstreamLaunchError)
		}
		c.Logger().Errorf("Failed to confirm token: user_id:%v error:%v", userID, err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}

	return c.JSON(http.StatusOK, newIdentityResponse(identity))
}
