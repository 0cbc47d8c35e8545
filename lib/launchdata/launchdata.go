package launchdata

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidLaunchData marks launch data that cannot be decoded. There
// is no recovery path other than re-initiating a launch request.
var ErrInvalidLaunchData = errors.New("invalid launch data")

// TokenInfo is the display-oriented half of the hand-off payload.
type TokenInfo struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Mint        string `json:"mint"`
	Wallet      string `json:"wallet"`
	MetadataURI string `json:"metadata_uri,omitempty"`
}

// SigningPayload carries everything the signing ceremony needs to
// complete without further server interaction. MintSecretKey is a
// bearer secret: the payload must never be logged or cached.
type SigningPayload struct {
	Transaction   string `json:"transaction"`
	MintSecretKey string `json:"mint_secret_key"`
	Instructions  string `json:"instructions"`
}

// LaunchData is the envelope carried from the launch response to the
// signing page as a single opaque URL parameter.
type LaunchData struct {
	Token   TokenInfo      `json:"token"`
	Signing SigningPayload `json:"signing"`
}

// Encode serializes the envelope as base64(JSON), URL-safe.
func Encode(data *LaunchData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal launch data: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// Decode is the exact inverse of Encode.
func Decode(encoded string) (*LaunchData, error) {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLaunchData, err)
	}
	var data LaunchData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLaunchData, err)
	}
	if data.Signing.Transaction == "" || data.Signing.MintSecretKey == "" {
		return nil, fmt.Errorf("%w: missing signing payload", ErrInvalidLaunchData)
	}
	return &data, nil
}
