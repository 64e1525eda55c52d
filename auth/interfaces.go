package auth

import (
	"context"

	"github.com/habedi/sessionctl/client"
)

// CredentialClient is the remote side the Store drives. *client.Client
// satisfies it.
type CredentialClient interface {
	SetToken(token string)
	GetMe(ctx context.Context) (*client.Profile, error)
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*client.RefreshResponse, error)
}
