package integration_tests

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	v2controllers "github.com/launchhub/launchhub.go/controllers_v2"
	"github.com/launchhub/launchhub.go/lib"
	"github.com/launchhub/launchhub.go/lib/responses"
	"github.com/launchhub/launchhub.go/lib/service"
	"github.com/launchhub/launchhub.go/lib/tokens"
	"github.com/launchhub/launchhub.go/solana"
	"github.com/launchhub/launchhub.go/solana/stub"
)

type LaunchTokenTestSuite struct {
	TestSuite
	service      *service.LaunchhubService
	launchClient *mockLaunchClient
	rpcClient    *stub.RPCClient
}

func (suite *LaunchTokenTestSuite) SetupSuite() {
	suite.launchClient = newMockLaunchClient()
	suite.rpcClient = stub.NewRPCClient()
	svc, err := LaunchhubTestServiceInit(suite.launchClient, suite.rpcClient)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	suite.echo = e

	identityCtrl := v2controllers.NewIdentityController(suite.service)
	secured := e.Group("", tokens.Middleware(svc.Config.JWTSecret))
	secured.POST("/v2/identities/claim", identityCtrl.Claim)
	secured.PUT("/v2/identities/wallet", identityCtrl.SetWallet)
	secured.POST("/v2/tokens/launch", v2controllers.NewLaunchController(suite.service).Launch)
}

func (suite *LaunchTokenTestSuite) TearDownTest() {
	suite.launchClient.reset()
	err := clearTable(suite.service, "identities")
	if err != nil {
		fmt.Printf("Tear down test error %v\n", err.Error())
		return
	}
	fmt.Println("Tear down test success")
}

// eligibleToken creates a claimed identity with a wallet and returns
// its auth token and wallet address.
func (suite *LaunchTokenTestSuite) eligibleToken() (token, wallet string) {
	_, authTokens, err := createIdentities(suite.service, 1)
	assert.NoError(suite.T(), err)
	token = authTokens[0]
	suite.claimIdentityReq(token)
	wallet = testWalletAddress(&suite.TestSuite)
	rec := suite.setWalletReq(token, wallet)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	return token, wallet
}

func launchBody() *ExpectedLaunchTokenRequestBody {
	return &ExpectedLaunchTokenRequestBody{
		Name:        "AgentCoin",
		Symbol:      "AGNT",
		Description: "a coin launched by an agent",
	}
}

func (suite *LaunchTokenTestSuite) TestLaunchHappyPath() {
	token, wallet := suite.eligibleToken()

	rec := suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	responseBody := ExpectedLaunchTokenResponseBody{}
	assert.NoError(suite.T(), decodeBody(rec, &responseBody))

	assert.True(suite.T(), responseBody.Success)
	assert.Equal(suite.T(), "AgentCoin", responseBody.Token.Name)
	assert.Equal(suite.T(), "AGNT", responseBody.Token.Symbol)
	assert.Equal(suite.T(), wallet, responseBody.Token.Wallet)
	assert.NotEmpty(suite.T(), responseBody.Token.Mint)
	assert.NotEmpty(suite.T(), responseBody.Signing.Transaction)
	assert.NotEmpty(suite.T(), responseBody.Signing.MintSecretKey)
	assert.NotEmpty(suite.T(), responseBody.LaunchData)

	// the transaction parses and wants signatures from the mint and the wallet
	rawTx, err := base58.Decode(responseBody.Signing.Transaction)
	assert.NoError(suite.T(), err)
	tx, err := solana.DeserializeTransaction(rawTx)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), tx.IsSigner(responseBody.Token.Mint))
	assert.True(suite.T(), tx.IsSigner(wallet))
	assert.False(suite.T(), tx.IsFullySigned())

	// the mint secret key matches the mint public key
	mintKp, err := solana.KeypairFromSecretKey(responseBody.Signing.MintSecretKey)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), responseBody.Token.Mint, mintKp.PublicKey)

	// the attempt is recorded but no mint is persisted yet
	identity, err := suite.service.FindIdentity(context.Background(), getUserIdFromToken(token))
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), identity.TokenMint)
	assert.Equal(suite.T(), "AgentCoin", identity.TokenName)
	assert.False(suite.T(), identity.TokenLaunchedAt.IsZero())
}

func (suite *LaunchTokenTestSuite) TestLaunchRequiresClaim() {
	_, authTokens, err := createIdentities(suite.service, 1)
	assert.NoError(suite.T(), err)

	rec := suite.launchTokenReq(authTokens[0], launchBody())
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	errorResponse := decodeError(&suite.TestSuite, rec)
	assert.Equal(suite.T(), responses.IdentityNotClaimedError.Message, errorResponse.Message)
}

func (suite *LaunchTokenTestSuite) TestLaunchRequiresWallet() {
	_, authTokens, err := createIdentities(suite.service, 1)
	assert.NoError(suite.T(), err)
	suite.claimIdentityReq(authTokens[0])

	rec := suite.launchTokenReq(authTokens[0], launchBody())
	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	errorResponse := decodeError(&suite.TestSuite, rec)
	assert.Equal(suite.T(), responses.NoWalletError.Message, errorResponse.Message)
}

func (suite *LaunchTokenTestSuite) TestLaunchFieldValidation() {
	token, _ := suite.eligibleToken()

	longName := make([]byte, 33)
	for i := range longName {
		longName[i] = 'a'
	}
	for _, body := range []*ExpectedLaunchTokenRequestBody{
		{Symbol: "AGNT"},                         // missing name
		{Name: "AgentCoin"},                      // missing symbol
		{Name: string(longName), Symbol: "AGNT"}, // name too long
		{Name: "AgentCoin", Symbol: "TOOLONGSYMBOL"},
	} {
		rec := suite.launchTokenReq(token, body)
		assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
	}

	// nothing was claimed by the rejected attempts
	identity, err := suite.service.FindIdentity(context.Background(), getUserIdFromToken(token))
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), identity.TokenLaunchedAt.IsZero())
}

func (suite *LaunchTokenTestSuite) TestLaunchRateLimit() {
	token, _ := suite.eligibleToken()

	rec := suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	rec = suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusTooManyRequests, rec.Code)
}

func (suite *LaunchTokenTestSuite) TestCooldownExpiryAllowsRelaunch() {
	token, _ := suite.eligibleToken()

	rec := suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// age the attempt past the cooldown
	staleLaunch := time.Now().Add(-time.Duration(suite.service.Config.LaunchCooldown+1) * time.Second)
	_, err := suite.service.DB.Exec("UPDATE identities SET token_launched_at = ? WHERE id = ?", staleLaunch, getUserIdFromToken(token))
	assert.NoError(suite.T(), err)

	rec = suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *LaunchTokenTestSuite) TestUpstreamFailureStillBurnsTheAttempt() {
	token, _ := suite.eligibleToken()
	suite.launchClient.buildErr = errors.New("upstream exploded")

	rec := suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusBadGateway, rec.Code)

	// the attempt timestamp survives the failure, so an immediate retry
	// is rate limited
	suite.launchClient.buildErr = nil
	rec = suite.launchTokenReq(token, launchBody())
	assert.Equal(suite.T(), http.StatusTooManyRequests, rec.Code)
}

func (suite *LaunchTokenTestSuite) TestConcurrentLaunchesClaimOnce() {
	token, _ := suite.eligibleToken()

	const attempts = 10
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := suite.launchTokenReq(token, launchBody())
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			succeeded++
		case http.StatusTooManyRequests:
		default:
			suite.T().Errorf("unexpected status code %d", code)
		}
	}
	assert.Equal(suite.T(), 1, succeeded)
	assert.Equal(suite.T(), 1, suite.launchClient.requestCount())
}

func TestLaunchTokenTestSuite(t *testing.T) {
	suite.Run(t, new(LaunchTokenTestSuite))
}
