package launchdata

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := &LaunchData{
		Token: TokenInfo{
			Name:        "AgentCoin",
			Symbol:      "AGNT",
			Description: "test",
			Mint:        "8fSouth1111111111111111111111111111111111111",
			Wallet:      "9fNorth1111111111111111111111111111111111111",
			MetadataURI: "ipfs://QmTest",
		},
		Signing: SigningPayload{
			Transaction:   "3yZe7d",
			MintSecretKey: "2xVt9k",
			Instructions:  "Connect your wallet to finish the launch",
		},
	}

	encoded, err := Encode(data)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)

	// re-encoding an equivalent structure is idempotent
	reencoded, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, reencoded)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("!!not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidLaunchData)

	_, err = Decode(base64.URLEncoding.EncodeToString([]byte("not json")))
	assert.ErrorIs(t, err, ErrInvalidLaunchData)
}

func TestDecodeRejectsMissingSecret(t *testing.T) {
	encoded, err := Encode(&LaunchData{Token: TokenInfo{Name: "x"}})
	require.NoError(t, err)
	_, err = Decode(encoded)
	assert.ErrorIs(t, err, ErrInvalidLaunchData)
}
