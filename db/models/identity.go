package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Identity is a registered agent identity. The token_* columns hold the
// state of its (at most one) token launch: token_launched_at records the
// most recent launch attempt regardless of outcome, token_mint is only
// written once a broadcast has been confirmed on-chain.
type Identity struct {
	ID              int64        `json:"id" bun:",pk,autoincrement"`
	Login           string       `json:"login" bun:",unique,notnull"`
	Password        string       `json:"-" bun:",notnull"`
	ClaimedAt       bun.NullTime `json:"claimed_at"`
	WalletAddress   string       `json:"wallet_address" bun:",nullzero"`
	TokenMint       string       `json:"token_mint" bun:",nullzero"`
	TokenName       string       `json:"token_name" bun:",nullzero"`
	TokenSymbol     string       `json:"token_symbol" bun:",nullzero"`
	TokenLaunchedAt bun.NullTime `json:"token_launched_at"`
	CreatedAt       time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       bun.NullTime `json:"updated_at"`
}

func (i *Identity) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		i.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

func (i *Identity) IsClaimed() bool {
	return !i.ClaimedAt.IsZero()
}

var _ bun.BeforeAppendModelHook = (*Identity)(nil)
