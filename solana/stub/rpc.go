package stub

import (
	"context"
	"fmt"

	"github.com/launchhub/launchhub.go/solana"
)

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	Transactions map[string]*solana.ConfirmedTransaction
	Statuses     map[string]*solana.SignatureStatus

	// NextSignature is returned from SendTransaction when set.
	NextSignature string
	// SendErr makes SendTransaction fail when set.
	SendErr error
	// StatusErr makes GetSignatureStatuses fail when set.
	StatusErr error

	SentTransactions [][]byte
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions: make(map[string]*solana.ConfirmedTransaction),
		Statuses:     make(map[string]*solana.SignatureStatus),
	}
}

// SendTransaction records the broadcast and returns the stubbed signature.
func (c *RPCClient) SendTransaction(_ context.Context, signedTx []byte) (string, error) {
	if c.SendErr != nil {
		return "", c.SendErr
	}
	c.SentTransactions = append(c.SentTransactions, signedTx)
	if c.NextSignature == "" {
		return fmt.Sprintf("stubsig%d", len(c.SentTransactions)), nil
	}
	return c.NextSignature, nil
}

// GetSignatureStatuses returns the stubbed status per signature.
func (c *RPCClient) GetSignatureStatuses(_ context.Context, signatures ...string) ([]*solana.SignatureStatus, error) {
	if c.StatusErr != nil {
		return nil, c.StatusErr
	}
	statuses := make([]*solana.SignatureStatus, len(signatures))
	for i, sig := range signatures {
		statuses[i] = c.Statuses[sig]
	}
	return statuses, nil
}

// GetTransaction retrieves a transaction by signature from the stub store.
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.ConfirmedTransaction, error) {
	return c.Transactions[signature], nil
}

var _ solana.RPCClient = (*RPCClient)(nil)
