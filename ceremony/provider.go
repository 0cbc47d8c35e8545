package ceremony

import "context"

// WalletProvider is the capability surface of a human-controlled
// wallet. Browser-injected wallets are ambient global state; modeling
// them as an explicit capability keeps the ceremony testable without a
// real wallet.
type WalletProvider interface {
	// Connect establishes a session and returns the wallet address.
	Connect(ctx context.Context) (string, error)

	// Disconnect ends the session.
	Disconnect() error

	// SignTransaction adds the wallet's signature to a serialized
	// transaction and returns the re-serialized result.
	SignTransaction(ctx context.Context, tx []byte) ([]byte, error)

	// IsConnected reports whether a session is active.
	IsConnected() bool

	// PublicKey returns the connected wallet address, empty when
	// disconnected.
	PublicKey() string
}
