package launchsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient talks to the launch service over its local-transaction
// HTTP API: it posts the token parameters and receives the serialized
// unsigned transaction in the response body.
type HTTPClient struct {
	config *Config
	client *http.Client
}

func NewHTTPClient(config *Config) *HTTPClient {
	return &HTTPClient{
		config: config,
		client: &http.Client{Timeout: time.Duration(config.LaunchServiceTimeout) * time.Second},
	}
}

type createRequestBody struct {
	PublicKey        string        `json:"publicKey"`
	Action           string        `json:"action"`
	TokenMetadata    tokenMetadata `json:"tokenMetadata"`
	Mint             string        `json:"mint"`
	DenominatedInSol string        `json:"denominatedInSol"`
	Amount           float64       `json:"amount"`
	Slippage         int           `json:"slippage"`
	PriorityFee      float64       `json:"priorityFee"`
	Pool             string        `json:"pool"`
}

type tokenMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri,omitempty"`
}

// BuildCreateTransaction requests an unsigned zero-liquidity creation
// transaction. The payout wallet is the fee payer; the amount is always
// zero since the server never buys initial liquidity.
func (c *HTTPClient) BuildCreateTransaction(ctx context.Context, req *CreateTransactionRequest) ([]byte, error) {
	body := createRequestBody{
		PublicKey: req.WalletAddress,
		Action:    "create",
		TokenMetadata: tokenMetadata{
			Name:   req.TokenName,
			Symbol: req.TokenSymbol,
			URI:    req.MetadataURI,
		},
		Mint:             req.MintPublicKey,
		DenominatedInSol: "true",
		Amount:           0,
		Slippage:         10,
		PriorityFee:      c.config.PriorityFee,
		Pool:             c.config.Pool,
	}
	payload, err := json.Marshal(&body)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.LaunchServiceURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.LaunchServiceAPIKey != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.LaunchServiceAPIKey))
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("launch service request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read launch service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("launch service returned %d: %s", resp.StatusCode, string(respBody))
	}
	if len(respBody) == 0 {
		return nil, fmt.Errorf("launch service returned an empty transaction")
	}

	return respBody, nil
}

var _ LaunchClientWrapper = (*HTTPClient)(nil)
