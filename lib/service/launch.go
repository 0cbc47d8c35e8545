package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/launchhub/launchhub.go/common"
	"github.com/launchhub/launchhub.go/db/models"
	"github.com/launchhub/launchhub.go/launchsvc"
	"github.com/launchhub/launchhub.go/metadata"
	"github.com/launchhub/launchhub.go/rabbitmq"
	"github.com/launchhub/launchhub.go/solana"
)

var (
	ErrTokenAlreadyIssued = errors.New("identity already has a confirmed token")
	ErrUpstreamLaunch     = errors.New("launch service failed to build the transaction")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenNotConfirmed  = errors.New("transaction is not confirmed on-chain")
)

// FieldError rejects a single launch request field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RateLimitedError reports how long until the identity may attempt
// another launch.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("token launch rate limited, retry in %s", e.RetryAfter)
}

type LaunchTokenRequest struct {
	Name        string
	Symbol      string
	Description string
	ImageURL    string
	Twitter     string
	Telegram    string
	Website     string
}

// LaunchTokenResult carries everything the agent needs to finish the
// launch client-side: the unsigned transaction and the mint secret key
// for the co-signature. Neither is persisted server-side.
type LaunchTokenResult struct {
	Identity      *models.Identity
	Description   string
	Mint          string
	MintSecretKey string
	MetadataURI   string
	Transaction   []byte
}

func validateLaunchRequest(req *LaunchTokenRequest) error {
	switch {
	case req.Name == "":
		return &FieldError{Field: "name", Reason: "must not be empty"}
	case len(req.Name) > common.MaxTokenNameLength:
		return &FieldError{Field: "name", Reason: fmt.Sprintf("must be at most %d characters", common.MaxTokenNameLength)}
	case req.Symbol == "":
		return &FieldError{Field: "symbol", Reason: "must not be empty"}
	case len(req.Symbol) > common.MaxTokenSymbolLength:
		return &FieldError{Field: "symbol", Reason: fmt.Sprintf("must be at most %d characters", common.MaxTokenSymbolLength)}
	case len(req.Description) > common.MaxTokenDescriptionLength:
		return &FieldError{Field: "description", Reason: fmt.Sprintf("must be at most %d characters", common.MaxTokenDescriptionLength)}
	}
	return nil
}

// LaunchToken runs the eligibility gate and builds the unsigned
// token-creation transaction.
//
// The gate is a single conditional update so that concurrent launch
// requests for one identity cannot both pass: whichever request claims
// the attempt slot proceeds, every other one observes zero affected
// rows and is classified against a fresh read. A launch attempt whose
// upstream call fails keeps its timestamp, so the cooldown applies to
// attempts, not only to successes.
func (svc *LaunchhubService) LaunchToken(ctx context.Context, identityId int64, req *LaunchTokenRequest) (*LaunchTokenResult, error) {
	if err := validateLaunchRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	cooldown := time.Duration(svc.Config.LaunchCooldown) * time.Second

	res, err := svc.DB.NewUpdate().Model((*models.Identity)(nil)).
		Set("token_name = ?", req.Name).
		Set("token_symbol = ?", req.Symbol).
		Set("token_launched_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", identityId).
		Where("token_mint IS NULL").
		Where("claimed_at IS NOT NULL").
		Where("wallet_address IS NOT NULL").
		Where("token_launched_at IS NULL OR token_launched_at <= ?", now.Add(-cooldown)).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, svc.classifyLaunchRefusal(ctx, identityId, now, cooldown)
	}

	identity, err := svc.FindIdentity(ctx, identityId)
	if err != nil {
		return nil, err
	}

	mint, err := solana.NewKeypair()
	if err != nil {
		return nil, err
	}

	// metadata publication is best-effort; a launch without a metadata
	// URI is still a launch
	metadataURI := svc.MetadataClient.Publish(ctx, &metadata.TokenMetadata{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Twitter:     req.Twitter,
		Telegram:    req.Telegram,
		Website:     req.Website,
	})

	unsignedTx, err := svc.LaunchClient.BuildCreateTransaction(ctx, &launchsvc.CreateTransactionRequest{
		MintPublicKey: mint.PublicKey,
		WalletAddress: identity.WalletAddress,
		TokenName:     req.Name,
		TokenSymbol:   req.Symbol,
		MetadataURI:   metadataURI,
	})
	if err != nil {
		// the attempt slot stays claimed: a failed upstream call still
		// counts against the cooldown
		svc.Logger.Errorf("Failed to build launch transaction: identity_id:%v error:%v", identityId, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamLaunch, err)
	}

	svc.publishTokenEvent(ctx, common.TokenEventTypeLaunchStarted, identity, mint.PublicKey, "")

	return &LaunchTokenResult{
		Identity:      identity,
		Description:   req.Description,
		Mint:          mint.PublicKey,
		MintSecretKey: mint.SecretKey(),
		MetadataURI:   metadataURI,
		Transaction:   unsignedTx,
	}, nil
}

func (svc *LaunchhubService) classifyLaunchRefusal(ctx context.Context, identityId int64, now time.Time, cooldown time.Duration) error {
	identity, err := svc.FindIdentity(ctx, identityId)
	if err != nil {
		return err
	}
	switch {
	case identity.TokenMint != "":
		return ErrTokenAlreadyIssued
	case !identity.IsClaimed():
		return ErrIdentityNotClaimed
	case identity.WalletAddress == "":
		return ErrNoWallet
	case !identity.TokenLaunchedAt.IsZero():
		return &RateLimitedError{RetryAfter: identity.TokenLaunchedAt.Add(cooldown).Sub(now)}
	}
	// the slot was claimed between our update and the re-read
	return &RateLimitedError{RetryAfter: cooldown}
}

// ConfirmToken verifies a broadcast launch on-chain and persists the
// mint. The mint is only ever written here, after the transaction is
// confirmed and references both the mint and the payout wallet.
func (svc *LaunchhubService) ConfirmToken(ctx context.Context, identityId int64, mint, signature string) (*models.Identity, error) {
	if err := solana.ValidateAddress(mint); err != nil {
		return nil, &FieldError{Field: "mint", Reason: "must be a valid base58 public key"}
	}

	identity, err := svc.FindIdentity(ctx, identityId)
	if err != nil {
		return nil, err
	}
	if identity.TokenMint == mint {
		// confirmation retries are idempotent
		return identity, nil
	}
	if identity.TokenMint != "" {
		return nil, ErrTokenAlreadyIssued
	}

	statuses, err := svc.RPCClient.GetSignatureStatuses(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamLaunch, err)
	}
	if len(statuses) == 0 || statuses[0] == nil || !statuses[0].Confirmed() {
		return nil, ErrTokenNotConfirmed
	}

	confirmedTx, err := svc.RPCClient.GetTransaction(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamLaunch, err)
	}
	if confirmedTx == nil || confirmedTx.Err != nil {
		return nil, ErrTokenNotConfirmed
	}
	if !confirmedTx.HasAccountKey(mint) || !confirmedTx.HasAccountKey(identity.WalletAddress) {
		return nil, ErrTokenNotConfirmed
	}

	res, err := svc.DB.NewUpdate().Model(identity).
		Set("token_mint = ?", mint).
		Set("updated_at = ?", time.Now()).
		WherePK().
		Where("token_mint IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		identity, err = svc.FindIdentity(ctx, identityId)
		if err != nil {
			return nil, err
		}
		if identity.TokenMint == mint {
			return identity, nil
		}
		return nil, ErrTokenAlreadyIssued
	}

	identity, err = svc.FindIdentity(ctx, identityId)
	if err != nil {
		return nil, err
	}
	svc.publishTokenEvent(ctx, common.TokenEventTypeLaunchConfirmed, identity, mint, signature)
	return identity, nil
}

// FindTokenByMint looks up a confirmed token for the public endpoint.
func (svc *LaunchhubService) FindTokenByMint(ctx context.Context, mint string) (*models.Identity, error) {
	var identity models.Identity

	err := svc.DB.NewSelect().Model(&identity).Where("token_mint = ?", mint).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (svc *LaunchhubService) publishTokenEvent(ctx context.Context, eventType string, identity *models.Identity, mint, signature string) {
	if svc.RabbitMQClient == nil {
		return
	}
	err := svc.RabbitMQClient.PublishTokenEvent(ctx, &rabbitmq.TokenEvent{
		Type:          eventType,
		IdentityLogin: identity.Login,
		Mint:          mint,
		Name:          identity.TokenName,
		Symbol:        identity.TokenSymbol,
		Wallet:        identity.WalletAddress,
		Signature:     signature,
		Timestamp:     time.Now(),
	})
	if err != nil {
		svc.Logger.Warnf("Failed to publish token event: type:%s identity_login:%s error:%v", eventType, identity.Login, err)
	}
}
