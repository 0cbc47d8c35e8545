package integration_tests

import (
	"context"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/launchhub/launchhub.go/launchsvc"
	"github.com/launchhub/launchhub.go/solana"
)

// mockLaunchClient stands in for the external launch service. It
// assembles a minimal two-signer transaction over the requested mint
// and wallet, the same shape the real service returns.
type mockLaunchClient struct {
	mu       sync.Mutex
	buildErr error
	requests []*launchsvc.CreateTransactionRequest
}

func newMockLaunchClient() *mockLaunchClient {
	return &mockLaunchClient{}
}

func (m *mockLaunchClient) BuildCreateTransaction(ctx context.Context, req *launchsvc.CreateTransactionRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	m.requests = append(m.requests, req)
	return buildUnsignedLaunchTx(req.MintPublicKey, req.WalletAddress), nil
}

func (m *mockLaunchClient) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buildErr = nil
	m.requests = nil
}

func (m *mockLaunchClient) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// buildUnsignedLaunchTx assembles a versioned wire transaction with the
// mint and wallet as required signers and empty signature slots.
func buildUnsignedLaunchTx(mintPubkey, walletPubkey string) []byte {
	mintRaw, err := base58.Decode(mintPubkey)
	if err != nil {
		panic(err)
	}
	walletRaw, err := base58.Decode(walletPubkey)
	if err != nil {
		panic(err)
	}

	msg := []byte{0x80}
	msg = append(msg, 2, 0, 1)
	msg = append(msg, 3)
	msg = append(msg, mintRaw...)
	msg = append(msg, walletRaw...)
	msg = append(msg, make([]byte, 32)...) // program id
	msg = append(msg, make([]byte, 32)...) // blockhash
	msg = append(msg, 1, 2, 1, 0, 2, 0xca, 0xfe)
	msg = append(msg, 0) // no address table lookups

	wire := []byte{2}
	wire = append(wire, make([]byte, 2*solana.SignatureLength)...)
	return append(wire, msg...)
}
