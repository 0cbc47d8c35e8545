package ceremony

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchhub/launchhub.go/lib/launchdata"
	"github.com/launchhub/launchhub.go/solana"
	"github.com/launchhub/launchhub.go/solana/stub"
)

// buildUnsignedTx assembles a two-signer wire transaction with empty
// signature slots. Lengths stay below 128 so every short-vec length is
// a single byte.
func buildUnsignedTx(t *testing.T, versioned bool, signers ...string) []byte {
	t.Helper()

	var msg []byte
	if versioned {
		msg = append(msg, 0x80)
	}
	msg = append(msg, byte(len(signers)), 0, 1)
	msg = append(msg, byte(len(signers)+1))
	for _, pubkey := range signers {
		raw, err := base58.Decode(pubkey)
		require.NoError(t, err)
		msg = append(msg, raw...)
	}
	msg = append(msg, make([]byte, 32)...) // program id
	msg = append(msg, make([]byte, 32)...) // blockhash
	msg = append(msg, 1, byte(len(signers)), 1, 0, 2, 0xca, 0xfe)
	if versioned {
		msg = append(msg, 0) // no address table lookups
	}

	wire := []byte{byte(len(signers))}
	for range signers {
		wire = append(wire, make([]byte, solana.SignatureLength)...)
	}
	return append(wire, msg...)
}

func buildLaunchData(t *testing.T, versioned bool, wallet *solana.Keypair) *launchdata.LaunchData {
	t.Helper()

	mint, err := solana.NewKeypair()
	require.NoError(t, err)
	tx := buildUnsignedTx(t, versioned, mint.PublicKey, wallet.PublicKey)

	return &launchdata.LaunchData{
		Token: launchdata.TokenInfo{
			Name:   "AgentCoin",
			Symbol: "AGNT",
			Mint:   mint.PublicKey,
			Wallet: wallet.PublicKey,
		},
		Signing: launchdata.SigningPayload{
			Transaction:   base58.Encode(tx),
			MintSecretKey: mint.SecretKey(),
			Instructions:  "Connect your wallet to finish the launch",
		},
	}
}

func fastOpts() []Option {
	return []Option{
		WithPollInterval(time.Millisecond),
		WithConfirmationTimeout(250 * time.Millisecond),
	}
}

type fakeProvider struct {
	address    string
	connectErr error
	signErr    error
	connected  bool
	signCalls  int
}

func (p *fakeProvider) Connect(ctx context.Context) (string, error) {
	if p.connectErr != nil {
		return "", p.connectErr
	}
	p.connected = true
	return p.address, nil
}

func (p *fakeProvider) Disconnect() error {
	p.connected = false
	return nil
}

func (p *fakeProvider) SignTransaction(ctx context.Context, tx []byte) ([]byte, error) {
	p.signCalls++
	if p.signErr != nil {
		return nil, p.signErr
	}
	return tx, nil
}

func (p *fakeProvider) IsConnected() bool { return p.connected }
func (p *fakeProvider) PublicKey() string { return p.address }

func confirmedRPC(signature string) *stub.RPCClient {
	rpc := stub.NewRPCClient()
	rpc.NextSignature = signature
	rpc.Statuses[signature] = &solana.SignatureStatus{ConfirmationStatus: "confirmed"}
	return rpc
}

func TestCeremonyHappyPath(t *testing.T) {
	for _, versioned := range []bool{true, false} {
		name := "legacy"
		if versioned {
			name = "versioned"
		}
		t.Run(name, func(t *testing.T) {
			wallet, err := solana.NewKeypair()
			require.NoError(t, err)
			data := buildLaunchData(t, versioned, wallet)
			provider, err := NewKeypairProvider(wallet.SecretKey())
			require.NoError(t, err)
			rpc := confirmedRPC("sig123")

			c := NewCoordinator(data, provider, rpc, fastOpts()...)
			assert.Equal(t, StateIdle, c.State())

			require.NoError(t, c.Connect(context.Background()))
			assert.Equal(t, StateConnected, c.State())

			require.NoError(t, c.SignAndBroadcast(context.Background()))
			assert.Equal(t, StateSuccess, c.State())
			assert.Equal(t, "sig123", c.Signature())
			assert.Equal(t, data.Token.Mint, c.Mint())

			// the broadcast transaction carries both signatures
			require.Len(t, rpc.SentTransactions, 1)
			sent, err := solana.DeserializeTransaction(rpc.SentTransactions[0])
			require.NoError(t, err)
			assert.True(t, sent.IsFullySigned())
		})
	}
}

func TestWalletMismatchNeverReachesSigning(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)

	provider := &fakeProvider{address: "SomeOtherWallet1111111111111111111111111111"}
	c := NewCoordinator(data, provider, stub.NewRPCClient(), fastOpts()...)

	require.NoError(t, c.Connect(context.Background()))

	// however many times signing is attempted, the gate holds
	for i := 0; i < 3; i++ {
		err := c.SignAndBroadcast(context.Background())
		assert.ErrorIs(t, err, ErrWalletMismatch)
		assert.Equal(t, StateConnected, c.State())
	}
	assert.Zero(t, provider.signCalls)
}

func TestProviderAbsent(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)

	c := NewCoordinator(data, nil, stub.NewRPCClient(), fastOpts()...)
	err = c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, StateError, c.State())
	assert.ErrorIs(t, c.Cause(), ErrProviderUnavailable)
}

func TestProviderRejectsConnection(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)

	provider := &fakeProvider{connectErr: fmt.Errorf("user dismissed the popup")}
	c := NewCoordinator(data, provider, stub.NewRPCClient(), fastOpts()...)
	err = c.Connect(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, StateError, c.State())
}

func TestSigningRejectionThenRetrySucceeds(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)

	walletSigner, err := NewKeypairProvider(wallet.SecretKey())
	require.NoError(t, err)
	rejectFirst := &rejectOnceProvider{KeypairProvider: walletSigner}
	rpc := confirmedRPC("sig456")

	c := NewCoordinator(data, rejectFirst, rpc, fastOpts()...)
	require.NoError(t, c.Connect(context.Background()))

	err = c.SignAndBroadcast(context.Background())
	assert.ErrorIs(t, err, ErrSigningRejected)
	assert.Equal(t, StateError, c.State())
	assert.ErrorIs(t, c.Cause(), ErrSigningRejected)

	// the same payload is retried, no new launch request needed
	require.NoError(t, c.Retry())
	assert.Equal(t, StateConnected, c.State())
	require.NoError(t, c.SignAndBroadcast(context.Background()))
	assert.Equal(t, StateSuccess, c.State())
}

type rejectOnceProvider struct {
	*KeypairProvider
	rejected bool
}

func (p *rejectOnceProvider) SignTransaction(ctx context.Context, tx []byte) ([]byte, error) {
	if !p.rejected {
		p.rejected = true
		return nil, fmt.Errorf("user rejected the request")
	}
	return p.KeypairProvider.SignTransaction(ctx, tx)
}

func TestBroadcastFailure(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, false, wallet)
	provider, err := NewKeypairProvider(wallet.SecretKey())
	require.NoError(t, err)

	rpc := stub.NewRPCClient()
	rpc.SendErr = fmt.Errorf("blockhash not found")

	c := NewCoordinator(data, provider, rpc, fastOpts()...)
	require.NoError(t, c.Connect(context.Background()))
	err = c.SignAndBroadcast(context.Background())
	assert.ErrorIs(t, err, ErrBroadcastFailed)
	assert.Equal(t, StateError, c.State())
}

func TestOnChainRejection(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)
	provider, err := NewKeypairProvider(wallet.SecretKey())
	require.NoError(t, err)

	rpc := stub.NewRPCClient()
	rpc.NextSignature = "sig789"
	rpc.Statuses["sig789"] = &solana.SignatureStatus{
		Err:                map[string]interface{}{"InstructionError": []interface{}{}},
		ConfirmationStatus: "confirmed",
	}

	c := NewCoordinator(data, provider, rpc, fastOpts()...)
	require.NoError(t, c.Connect(context.Background()))
	err = c.SignAndBroadcast(context.Background())
	assert.ErrorIs(t, err, ErrOnChainRejected)
	assert.Equal(t, StateError, c.State())
}

func TestConfirmationTimeoutIsAnError(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)
	provider, err := NewKeypairProvider(wallet.SecretKey())
	require.NoError(t, err)

	// the ledger never learns about the signature
	rpc := stub.NewRPCClient()
	rpc.NextSignature = "sig000"

	c := NewCoordinator(data, provider, rpc, fastOpts()...)
	require.NoError(t, c.Connect(context.Background()))
	err = c.SignAndBroadcast(context.Background())
	assert.ErrorIs(t, err, ErrConfirmationTimeout)
	assert.Equal(t, StateError, c.State())
}

func TestDisconnectDropsAllProgress(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)
	provider := &fakeProvider{address: wallet.PublicKey}

	c := NewCoordinator(data, provider, stub.NewRPCClient(), fastOpts()...)
	require.NoError(t, c.Connect(context.Background()))

	c.Disconnect()
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Cause())
	assert.Empty(t, c.Signature())
	assert.False(t, provider.connected)

	// a fresh ceremony can start over
	require.NoError(t, c.Connect(context.Background()))
	assert.Equal(t, StateConnected, c.State())
}

func TestIllegalTransitions(t *testing.T) {
	wallet, err := solana.NewKeypair()
	require.NoError(t, err)
	data := buildLaunchData(t, true, wallet)
	provider := &fakeProvider{address: wallet.PublicKey}

	c := NewCoordinator(data, provider, stub.NewRPCClient(), fastOpts()...)

	// signing while disconnected is unrepresentable
	assert.ErrorIs(t, c.SignAndBroadcast(context.Background()), ErrIllegalTransition)
	assert.ErrorIs(t, c.Retry(), ErrIllegalTransition)

	require.NoError(t, c.Connect(context.Background()))
	assert.ErrorIs(t, c.Connect(context.Background()), ErrIllegalTransition)
}
