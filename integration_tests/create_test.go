package integration_tests

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	v2controllers "github.com/launchhub/launchhub.go/controllers_v2"
	"github.com/launchhub/launchhub.go/lib"
	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
	"github.com/launchhub/launchhub.go/solana/stub"
)

type CreateIdentityTestSuite struct {
	TestSuite
	service *service.LaunchhubService
}

func (suite *CreateIdentityTestSuite) SetupSuite() {
	svc, err := LaunchhubTestServiceInit(newMockLaunchClient(), stub.NewRPCClient())
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e
	suite.echo.POST("/v2/identities", v2controllers.NewCreateIdentityController(suite.service).CreateIdentity)
}

func (suite *CreateIdentityTestSuite) TearDownTest() {
	err := clearTable(suite.service, "identities")
	if err != nil {
		fmt.Printf("Tear down test error %v\n", err.Error())
		return
	}
	fmt.Println("Tear down test success")
}

func (suite *CreateIdentityTestSuite) TestCreateWithGeneratedCredentials() {
	rec := suite.requestJSON(http.MethodPost, "/v2/identities", "", &ExpectedCreateIdentityRequestBody{})

	responseBody := ExpectedCreateIdentityResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), decodeBody(rec, &responseBody))
	assert.NotEmpty(suite.T(), responseBody.Login)
	assert.NotEmpty(suite.T(), responseBody.Password)

	identity, err := suite.service.FindIdentityByLogin(context.Background(), responseBody.Login)
	assert.NoError(suite.T(), err)
	// the stored password is the bcrypt hash, not the plain text one
	assert.NotEqual(suite.T(), responseBody.Password, identity.Password)
	assert.False(suite.T(), identity.IsClaimed())
}

func (suite *CreateIdentityTestSuite) TestCreateWithProvidedLogin() {
	rec := suite.requestJSON(http.MethodPost, "/v2/identities", "", &ExpectedCreateIdentityRequestBody{
		Login:    "agent-smith",
		Password: "a long enough passphrase",
	})

	responseBody := ExpectedCreateIdentityResponseBody{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), decodeBody(rec, &responseBody))
	assert.Equal(suite.T(), "agent-smith", responseBody.Login)
	assert.Equal(suite.T(), "a long enough passphrase", responseBody.Password)
}

func (suite *CreateIdentityTestSuite) TestDuplicateLoginIsRejected() {
	rec := suite.requestJSON(http.MethodPost, "/v2/identities", "", &ExpectedCreateIdentityRequestBody{
		Login: "agent-dup",
	})
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.requestJSON(http.MethodPost, "/v2/identities", "", &ExpectedCreateIdentityRequestBody{
		Login: "agent-dup",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	errorResponse := decodeError(&suite.TestSuite, rec)
	assert.Equal(suite.T(), responses.LoginTakenError.Message, errorResponse.Message)
}

func TestCreateIdentityTestSuite(t *testing.T) {
	suite.Run(t, new(CreateIdentityTestSuite))
}
