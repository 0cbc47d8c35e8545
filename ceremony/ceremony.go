package ceremony

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mr-tron/base58"

	"github.com/launchhub/launchhub.go/lib/launchdata"
	"github.com/launchhub/launchhub.go/solana"
)

// State is the position of the signing ceremony.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateSigning
	StateBroadcasting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateSigning:
		return "signing"
	case StateBroadcasting:
		return "broadcasting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Ceremony failure causes. Every transition into StateError carries one
// of these, wrapped with a human-readable detail.
var (
	ErrProviderUnavailable = errors.New("no wallet provider available. Install a compatible wallet to continue")
	ErrWalletMismatch      = errors.New("connected wallet does not match the token's payout wallet")
	ErrSigningRejected     = errors.New("the wallet rejected the signing request")
	ErrBroadcastFailed     = errors.New("broadcasting the transaction failed")
	ErrConfirmationTimeout = errors.New("timed out waiting for on-chain confirmation")
	ErrOnChainRejected     = errors.New("the transaction was rejected on-chain")
	ErrIllegalTransition   = errors.New("operation not allowed in the current ceremony state")
)

// legalTransitions is the full transition table. Anything not listed
// here is illegal; Disconnect is the one escape hatch back to Idle.
var legalTransitions = map[State][]State{
	StateIdle:         {StateConnecting},
	StateConnecting:   {StateConnected, StateError},
	StateConnected:    {StateSigning},
	StateSigning:      {StateBroadcasting, StateError},
	StateBroadcasting: {StateSuccess, StateError},
	StateError:        {StateConnected, StateConnecting},
}

// Coordinator drives the dual-signature ceremony: connect a wallet,
// verify the wallet binding, co-sign with the mint secret key, collect
// the wallet's signature, broadcast, and wait for confirmation. It is a
// single-threaded cooperative state machine; callers invoke one method
// at a time.
type Coordinator struct {
	data     *launchdata.LaunchData
	provider WalletProvider
	rpc      solana.RPCClient
	waiter   ConfirmationWaiter

	state          State
	cause          error
	walletAddress  string
	signature      string
	confirmTimeout time.Duration
	pollInterval   time.Duration
}

// ConfirmationWaiter is an optional push-based confirmation channel
// (a websocket subscription); when absent the coordinator polls.
type ConfirmationWaiter interface {
	WaitForSignature(ctx context.Context, signature string) error
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithConfirmationTimeout bounds the post-broadcast confirmation wait.
func WithConfirmationTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.confirmTimeout = d
	}
}

// WithPollInterval sets the initial confirmation poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.pollInterval = d
	}
}

// WithConfirmationWaiter uses a subscription instead of polling.
func WithConfirmationWaiter(w ConfirmationWaiter) Option {
	return func(c *Coordinator) {
		c.waiter = w
	}
}

// NewCoordinator builds a ceremony for one decoded launch payload.
func NewCoordinator(data *launchdata.LaunchData, provider WalletProvider, rpc solana.RPCClient, opts ...Option) *Coordinator {
	c := &Coordinator{
		data:           data,
		provider:       provider,
		rpc:            rpc,
		state:          StateIdle,
		confirmTimeout: 90 * time.Second,
		pollInterval:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current ceremony state.
func (c *Coordinator) State() State {
	return c.state
}

// Cause returns the failure behind the current Error state, nil
// otherwise.
func (c *Coordinator) Cause() error {
	if c.state != StateError {
		return nil
	}
	return c.cause
}

// Signature returns the broadcast transaction signature once the
// ceremony has succeeded.
func (c *Coordinator) Signature() string {
	return c.signature
}

// Mint returns the asset public key from the launch payload.
func (c *Coordinator) Mint() string {
	return c.data.Token.Mint
}

func (c *Coordinator) transition(to State) error {
	for _, allowed := range legalTransitions[c.state] {
		if allowed == to {
			c.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, to)
}

func (c *Coordinator) fail(cause error) error {
	c.cause = cause
	c.state = StateError
	return cause
}

// Connect asks the wallet provider for a connection. Legal from Idle
// and, for a fresh start after a connection failure, from Error.
func (c *Coordinator) Connect(ctx context.Context) error {
	if err := c.transition(StateConnecting); err != nil {
		return err
	}
	if c.provider == nil {
		return c.fail(ErrProviderUnavailable)
	}
	address, err := c.provider.Connect(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrProviderUnavailable, err))
	}
	c.walletAddress = address
	c.state = StateConnected
	return nil
}

// WalletMatches re-checks the wallet binding against the payload. It is
// consulted on every connection-state change and before signing.
func (c *Coordinator) WalletMatches() bool {
	return c.walletAddress != "" && c.walletAddress == c.data.Token.Wallet
}

// SignAndBroadcast runs the Connected -> Signing -> Broadcasting ->
// Success leg of the ceremony. A wallet-binding mismatch refuses to
// leave Connected; every later failure lands in Error with its cause,
// from where Retry can re-enter Connected with the same payload.
func (c *Coordinator) SignAndBroadcast(ctx context.Context) error {
	if c.state != StateConnected {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, StateSigning)
	}
	// Hard gate, not a warning: the registered payout wallet must be
	// the wallet that signs.
	if !c.WalletMatches() {
		return fmt.Errorf("%w (connected %s, expected %s)", ErrWalletMismatch, c.walletAddress, c.data.Token.Wallet)
	}
	if err := c.transition(StateSigning); err != nil {
		return err
	}

	rawTx, err := base58.Decode(c.data.Signing.Transaction)
	if err != nil {
		return c.fail(fmt.Errorf("%w: transaction is not base58: %v", launchdata.ErrInvalidLaunchData, err))
	}
	tx, err := solana.DeserializeTransaction(rawTx)
	if err != nil {
		return c.fail(fmt.Errorf("%w: malformed transaction: %v", launchdata.ErrInvalidLaunchData, err))
	}

	mint, err := solana.KeypairFromSecretKey(c.data.Signing.MintSecretKey)
	if err != nil {
		return c.fail(fmt.Errorf("%w: bad mint secret key: %v", launchdata.ErrInvalidLaunchData, err))
	}
	if err := tx.PartialSign(mint); err != nil {
		return c.fail(fmt.Errorf("%w: %v", launchdata.ErrInvalidLaunchData, err))
	}

	signedBytes, err := c.provider.SignTransaction(ctx, tx.Serialize())
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrSigningRejected, err))
	}
	signed, err := solana.DeserializeTransaction(signedBytes)
	if err != nil {
		return c.fail(fmt.Errorf("%w: wallet returned a malformed transaction: %v", ErrSigningRejected, err))
	}
	if !signed.IsFullySigned() {
		return c.fail(fmt.Errorf("%w: wallet returned an incomplete signature set", ErrSigningRejected))
	}

	if err := c.transition(StateBroadcasting); err != nil {
		return err
	}
	signature, err := c.rpc.SendTransaction(ctx, signed.Serialize())
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrBroadcastFailed, err))
	}

	if err := c.awaitConfirmation(ctx, signature); err != nil {
		return c.fail(err)
	}

	c.signature = signature
	return c.transition(StateSuccess)
}

func (c *Coordinator) awaitConfirmation(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	if c.waiter != nil {
		err := c.waiter.WaitForSignature(ctx, signature)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, context.DeadlineExceeded):
			return fmt.Errorf("%w after %s", ErrConfirmationTimeout, c.confirmTimeout)
		default:
			// fall through to polling; the subscription channel is
			// best-effort
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.pollInterval
	b.MaxElapsedTime = c.confirmTimeout

	err := backoff.Retry(func() error {
		statuses, err := c.rpc.GetSignatureStatuses(ctx, signature)
		if err != nil {
			return err
		}
		if len(statuses) == 0 || statuses[0] == nil {
			return fmt.Errorf("signature not yet known to the ledger")
		}
		status := statuses[0]
		if status.Err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrOnChainRejected, status.Err))
		}
		if !status.Confirmed() {
			return fmt.Errorf("still at commitment %q", status.ConfirmationStatus)
		}
		return nil
	}, backoff.WithContext(b, ctx))

	if err == nil {
		return nil
	}
	if errors.Is(err, ErrOnChainRejected) {
		return err
	}
	return fmt.Errorf("%w after %s: %v", ErrConfirmationTimeout, c.confirmTimeout, err)
}

// Retry returns from Error to Connected so the user can attempt signing
// again with the same payload. The secret key and unsigned transaction
// are not invalidated by a failed attempt.
func (c *Coordinator) Retry() error {
	if c.state != StateError {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, StateConnected)
	}
	if c.provider == nil || !c.provider.IsConnected() {
		return fmt.Errorf("%w: wallet is no longer connected", ErrProviderUnavailable)
	}
	c.walletAddress = c.provider.PublicKey()
	c.cause = nil
	c.state = StateConnected
	return nil
}

// Disconnect aborts the ceremony from any state and drops all progress.
// A transaction already broadcast is not retracted; only local progress
// stops.
func (c *Coordinator) Disconnect() {
	if c.provider != nil {
		c.provider.Disconnect()
	}
	c.walletAddress = ""
	c.cause = nil
	c.signature = ""
	c.state = StateIdle
}
