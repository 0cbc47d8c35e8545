package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const (
	PublicKeyLength = ed25519.PublicKeySize
	SecretKeyLength = ed25519.PrivateKeySize
	SignatureLength = ed25519.SignatureSize
)

// Keypair is an ed25519 keypair addressed by the base58 encoding of its
// public key. The secret half is kept unexported so it cannot end up in
// logs or serialized output by accident.
type Keypair struct {
	PublicKey string
	secretKey ed25519.PrivateKey
}

// NewKeypair generates a fresh keypair from crypto/rand.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{
		PublicKey: base58.Encode(pub),
		secretKey: priv,
	}, nil
}

// KeypairFromSecretKey restores a keypair from a base58-encoded 64-byte
// ed25519 secret key.
func KeypairFromSecretKey(encoded string) (*Keypair, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(raw) != SecretKeyLength {
		return nil, fmt.Errorf("invalid secret key length %d", len(raw))
	}
	priv := ed25519.PrivateKey(raw)
	pub := priv.Public().(ed25519.PublicKey)
	return &Keypair{
		PublicKey: base58.Encode(pub),
		secretKey: priv,
	}, nil
}

// SecretKey returns the base58-encoded secret key.
func (kp *Keypair) SecretKey() string {
	return base58.Encode(kp.secretKey)
}

// Sign signs the message with the secret key.
func (kp *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.secretKey, message)
}

// ValidateAddress checks that an address is a base58-encoded 32-byte
// public key on the ed25519 curve. Off-curve addresses (PDAs) are
// rejected since they can never sign.
func ValidateAddress(address string) error {
	raw, err := base58.Decode(address)
	if err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != PublicKeyLength {
		return fmt.Errorf("invalid address length %d", len(raw))
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return fmt.Errorf("address is not on the ed25519 curve")
	}
	return nil
}
