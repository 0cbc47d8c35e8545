package integration_tests

import "time"

type ExpectedCreateIdentityRequestBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type ExpectedCreateIdentityResponseBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type ExpectedAuthRequestBody struct {
	Login        string `json:"login"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

type ExpectedAuthResponseBody struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

type ExpectedSetWalletRequestBody struct {
	WalletAddress string `json:"wallet_address"`
}

type ExpectedIdentityResponseBody struct {
	Login           string     `json:"login"`
	Claimed         bool       `json:"claimed"`
	ClaimedAt       *time.Time `json:"claimed_at"`
	WalletAddress   string     `json:"wallet_address"`
	TokenMint       string     `json:"token_mint"`
	TokenName       string     `json:"token_name"`
	TokenSymbol     string     `json:"token_symbol"`
	TokenLaunchedAt *time.Time `json:"token_launched_at"`
}

type ExpectedLaunchTokenRequestBody struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Twitter     string `json:"twitter"`
	Telegram    string `json:"telegram"`
	Website     string `json:"website"`
}

type ExpectedTokenInfo struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Mint        string `json:"mint"`
	Wallet      string `json:"wallet"`
	MetadataURI string `json:"metadata_uri"`
}

type ExpectedSigningPayload struct {
	Transaction   string `json:"transaction"`
	MintSecretKey string `json:"mint_secret_key"`
	Instructions  string `json:"instructions"`
}

type ExpectedLaunchTokenResponseBody struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Token      ExpectedTokenInfo      `json:"token"`
	Signing    ExpectedSigningPayload `json:"signing"`
	LaunchData string                 `json:"launch_data"`
}

type ExpectedConfirmTokenRequestBody struct {
	Mint      string `json:"mint"`
	Signature string `json:"signature"`
}

type ExpectedTokenResponseBody struct {
	Mint       string     `json:"mint"`
	Name       string     `json:"name"`
	Symbol     string     `json:"symbol"`
	Wallet     string     `json:"wallet"`
	LaunchedAt *time.Time `json:"launched_at"`
}
