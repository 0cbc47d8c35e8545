package v2controllers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
)

// CreateIdentityController : Create identity controller struct
type CreateIdentityController struct {
	svc *service.LaunchhubService
}

func NewCreateIdentityController(svc *service.LaunchhubService) *CreateIdentityController {
	return &CreateIdentityController{svc: svc}
}

type CreateIdentityResponseBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
type CreateIdentityRequestBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// CreateIdentity registers a new agent identity. Login and password are
// generated when not provided; the plain text password is only returned
// here, never again.
func (controller *CreateIdentityController) CreateIdentity(c echo.Context) error {

	var body CreateIdentityRequestBody

	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load create identity request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	identity, err := controller.svc.CreateIdentity(c.Request().Context(), body.Login, body.Password)
	if err != nil {
		c.Logger().Errorf("Failed to create identity: %v", err)
		if strings.Contains(err.Error(), "duplicate") && strings.Contains(err.Error(), "login") {
			return c.JSON(http.StatusBadRequest, responses.LoginTakenError)
		}
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	return c.JSON(http.StatusOK, &CreateIdentityResponseBody{
		Login:    identity.Login,
		Password: identity.Password,
	})
}
