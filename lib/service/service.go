package service

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/launchhub/launchhub.go/db/models"
	"github.com/launchhub/launchhub.go/launchsvc"
	"github.com/launchhub/launchhub.go/lib/tokens"
	"github.com/launchhub/launchhub.go/metadata"
	"github.com/launchhub/launchhub.go/rabbitmq"
	"github.com/launchhub/launchhub.go/solana"
)

const alphaNumBytes = random.Alphanumeric

type LaunchhubService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	RPCClient      solana.RPCClient
	LaunchClient   launchsvc.LaunchClientWrapper
	MetadataClient *metadata.Client
	RabbitMQClient rabbitmq.Client
}

func (svc *LaunchhubService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var identity *models.Identity

	switch {
	case login != "" || password != "":
		{
			identity, err = svc.FindIdentityByLogin(ctx, login)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			if bcrypt.CompareHashAndPassword([]byte(identity.Password), []byte(password)) != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	case inRefreshToken != "":
		{
			claims, err := tokens.ParseToken(svc.Config.JWTSecret, inRefreshToken)
			if err != nil || !claims.IsRefresh {
				return "", "", fmt.Errorf("bad auth")
			}
			identity, err = svc.FindIdentity(ctx, claims.ID)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	default:
		{
			return "", "", fmt.Errorf("login and password or refresh token is required")
		}
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, identity)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, identity)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}
