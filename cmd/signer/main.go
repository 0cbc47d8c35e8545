package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/launchhub/launchhub.go/ceremony"
	"github.com/launchhub/launchhub.go/lib/launchdata"
	"github.com/launchhub/launchhub.go/lib/logging"
	"github.com/launchhub/launchhub.go/solana"
)

type signerConfig struct {
	WalletSecretKey string `envconfig:"WALLET_SECRET_KEY" required:"true"`
	SolanaRPCURL    string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	SolanaWSURL     string `envconfig:"SOLANA_WS_URL"`
	LaunchhubURL    string `envconfig:"LAUNCHHUB_URL"`
	AccessToken     string `envconfig:"LAUNCHHUB_ACCESS_TOKEN"`
	ConfirmTimeout  int    `envconfig:"CONFIRM_TIMEOUT" default:"90"` // in seconds
	LogFilePath     string `envconfig:"LOG_FILE_PATH"`
}

// The signer finishes a token launch outside the server: it decodes the
// launch data handed out by the launch endpoint, co-signs with the
// local wallet, broadcasts, and reports the confirmed mint back.
func main() {
	c := &signerConfig{}

	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	logger := logging.Logger(c.LogFilePath)

	if len(os.Args) < 2 {
		logger.Fatalf("Usage: %s <launch-data>", os.Args[0])
	}
	data, err := launchdata.Decode(os.Args[1])
	if err != nil {
		logger.Fatalf("Error decoding launch data: %v", err)
	}
	logger.Infof("Launching %s (%s), mint %s", data.Token.Name, data.Token.Symbol, data.Token.Mint)
	if data.Signing.Instructions != "" {
		logger.Info(data.Signing.Instructions)
	}

	provider, err := ceremony.NewKeypairProvider(c.WalletSecretKey)
	if err != nil {
		logger.Fatalf("Error loading wallet: %v", err)
	}

	rpcClient := solana.NewHTTPClient(c.SolanaRPCURL)
	opts := []ceremony.Option{
		ceremony.WithConfirmationTimeout(time.Duration(c.ConfirmTimeout) * time.Second),
	}
	if c.SolanaWSURL != "" {
		opts = append(opts, ceremony.WithConfirmationWaiter(solana.NewWSClient(c.SolanaWSURL, nil)))
	}

	coordinator := ceremony.NewCoordinator(data, provider, rpcClient, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := coordinator.Connect(ctx); err != nil {
		logger.Fatalf("Error connecting wallet: %v", err)
	}
	if err := coordinator.SignAndBroadcast(ctx); err != nil {
		logger.Fatalf("Ceremony failed in state %s: %v", coordinator.State(), err)
	}
	logger.Infof("Transaction confirmed: %s", coordinator.Signature())

	if c.LaunchhubURL != "" && c.AccessToken != "" {
		err = confirmLaunch(ctx, c, data.Token.Mint, coordinator.Signature())
		if err != nil {
			logger.Fatalf("Error confirming launch with the server: %v", err)
		}
		logger.Infof("Launch confirmed for mint %s", data.Token.Mint)
	}
}

func confirmLaunch(ctx context.Context, c *signerConfig, mint, signature string) error {
	body, err := json.Marshal(map[string]string{
		"mint":      mint,
		"signature": signature,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.LaunchhubURL+"/v2/tokens/confirm", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("confirm endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
