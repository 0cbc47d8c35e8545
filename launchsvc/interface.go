package launchsvc

import "context"

// LaunchClientWrapper is the external launch/market-making service that
// builds the unsigned token-creation transaction.
type LaunchClientWrapper interface {
	// BuildCreateTransaction returns the raw unsigned transaction bytes
	// for a zero-liquidity token creation under the given mint.
	BuildCreateTransaction(ctx context.Context, req *CreateTransactionRequest) ([]byte, error)
}

// CreateTransactionRequest describes the token to create on-chain.
type CreateTransactionRequest struct {
	MintPublicKey string
	WalletAddress string
	TokenName     string
	TokenSymbol   string
	MetadataURI   string
}
