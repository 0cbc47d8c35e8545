package launchsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *Config {
	return &Config{
		LaunchServiceURL:     url,
		LaunchServiceAPIKey:  "test-key",
		LaunchServiceTimeout: 5,
		PriorityFee:          0.0005,
		Pool:                 "pump",
	}
}

func TestBuildCreateTransaction(t *testing.T) {
	var received createRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte{0x01, 0x02, 0x03})
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL))
	tx, err := client.BuildCreateTransaction(context.Background(), &CreateTransactionRequest{
		MintPublicKey: "mintpubkey",
		WalletAddress: "walletaddr",
		TokenName:     "AgentCoin",
		TokenSymbol:   "AGNT",
		MetadataURI:   "ipfs://metadata",
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, tx)

	assert.Equal(t, "create", received.Action)
	assert.Equal(t, "mintpubkey", received.Mint)
	assert.Equal(t, "walletaddr", received.PublicKey)
	assert.Equal(t, "AgentCoin", received.TokenMetadata.Name)
	assert.Equal(t, float64(0), received.Amount, "server never buys initial liquidity")
}

func TestBuildCreateTransactionUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of capacity", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL))
	_, err := client.BuildCreateTransaction(context.Background(), &CreateTransactionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestBuildCreateTransactionEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL))
	_, err := client.BuildCreateTransaction(context.Background(), &CreateTransactionRequest{})
	assert.Error(t, err)
}
