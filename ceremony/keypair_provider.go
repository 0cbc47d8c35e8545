package ceremony

import (
	"context"
	"fmt"

	"github.com/launchhub/launchhub.go/solana"
)

// KeypairProvider is a WalletProvider backed by a local keypair. The
// signer CLI uses it in place of a browser wallet.
type KeypairProvider struct {
	keypair   *solana.Keypair
	connected bool
}

// NewKeypairProvider wraps a base58-encoded secret key.
func NewKeypairProvider(secretKey string) (*KeypairProvider, error) {
	kp, err := solana.KeypairFromSecretKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("load wallet keypair: %w", err)
	}
	return &KeypairProvider{keypair: kp}, nil
}

func (p *KeypairProvider) Connect(ctx context.Context) (string, error) {
	p.connected = true
	return p.keypair.PublicKey, nil
}

func (p *KeypairProvider) Disconnect() error {
	p.connected = false
	return nil
}

func (p *KeypairProvider) SignTransaction(ctx context.Context, raw []byte) ([]byte, error) {
	if !p.connected {
		return nil, fmt.Errorf("wallet is not connected")
	}
	tx, err := solana.DeserializeTransaction(raw)
	if err != nil {
		return nil, fmt.Errorf("deserialize transaction: %w", err)
	}
	if err := tx.PartialSign(p.keypair); err != nil {
		return nil, err
	}
	return tx.Serialize(), nil
}

func (p *KeypairProvider) IsConnected() bool {
	return p.connected
}

func (p *KeypairProvider) PublicKey() string {
	if !p.connected {
		return ""
	}
	return p.keypair.PublicKey
}

var _ WalletProvider = (*KeypairProvider)(nil)
