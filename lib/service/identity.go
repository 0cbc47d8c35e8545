package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	passwordvalidator "github.com/wagslane/go-password-validator"

	"github.com/launchhub/launchhub.go/db/models"
	"github.com/launchhub/launchhub.go/lib/security"
	"github.com/launchhub/launchhub.go/solana"
)

// Identity lifecycle failures. Controllers map these onto the API
// error taxonomy.
var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrIdentityNotClaimed = errors.New("identity has not been claimed")
	ErrNoWallet           = errors.New("no payout wallet registered")
	ErrInvalidWallet      = errors.New("wallet address is not a valid ed25519 public key")
	ErrWalletAlreadySet   = errors.New("payout wallet is already registered")
)

func (svc *LaunchhubService) CreateIdentity(ctx context.Context, login string, password string) (identity *models.Identity, err error) {
	identity = &models.Identity{}

	// generate login/password if not provided
	identity.Login = login
	if login == "" {
		randLoginBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		identity.Login = string(randLoginBytes)
	}

	if password == "" {
		randPasswordBytes, err := randBytesFromStr(20, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		password = string(randPasswordBytes)
	} else {
		if svc.Config.MinPasswordEntropy > 0 {
			entropy := passwordvalidator.GetEntropy(password)
			if entropy < float64(svc.Config.MinPasswordEntropy) {
				return nil, fmt.Errorf("password entropy is too low (%f), required is %d", entropy, svc.Config.MinPasswordEntropy)
			}
		}
	}

	// we only store the hashed password but return the initial plain text password in the HTTP response
	identity.Password = security.HashPassword(password)

	_, err = svc.DB.NewInsert().Model(identity).Exec(ctx)
	if err != nil {
		return nil, err
	}
	// return the actual password in the response, not the hashed one
	identity.Password = password
	return identity, nil
}

// ClaimIdentity marks the identity as operated by its agent. Claiming
// is idempotent for the owner and rejected once claimed.
func (svc *LaunchhubService) ClaimIdentity(ctx context.Context, identityId int64) (*models.Identity, error) {
	identity, err := svc.FindIdentity(ctx, identityId)
	if err != nil {
		return nil, err
	}
	if identity.IsClaimed() {
		return identity, nil
	}

	_, err = svc.DB.NewUpdate().Model(identity).
		Set("claimed_at = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		WherePK().
		Where("claimed_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return svc.FindIdentity(ctx, identityId)
}

// SetWallet registers the payout wallet. The wallet is set exactly
// once; token launches are refused until it exists.
func (svc *LaunchhubService) SetWallet(ctx context.Context, identityId int64, walletAddress string) (*models.Identity, error) {
	if err := solana.ValidateAddress(walletAddress); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWallet, err)
	}

	identity, err := svc.FindIdentity(ctx, identityId)
	if err != nil {
		return nil, err
	}
	if !identity.IsClaimed() {
		return nil, ErrIdentityNotClaimed
	}

	res, err := svc.DB.NewUpdate().Model(identity).
		Set("wallet_address = ?", walletAddress).
		Set("updated_at = ?", time.Now()).
		WherePK().
		Where("wallet_address IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrWalletAlreadySet
	}
	return svc.FindIdentity(ctx, identityId)
}

func (svc *LaunchhubService) FindIdentity(ctx context.Context, identityId int64) (*models.Identity, error) {
	var identity models.Identity

	err := svc.DB.NewSelect().Model(&identity).Where("id = ?", identityId).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (svc *LaunchhubService) FindIdentityByLogin(ctx context.Context, login string) (*models.Identity, error) {
	var identity models.Identity

	err := svc.DB.NewSelect().Model(&identity).Where("login = ?", login).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func randBytesFromStr(length int, from string) ([]byte, error) {
	b := make([]byte, length)
	fromLenBigInt := big.NewInt(int64(len(from)))
	for i := range b {
		r, err := rand.Int(rand.Reader, fromLenBigInt)
		if err != nil {
			return nil, err
		}
		b[i] = from[r.Int64()]
	}
	return b, nil
}
