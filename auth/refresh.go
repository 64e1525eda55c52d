package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/habedi/sessionctl/client"
	"github.com/habedi/sessionctl/db"
	"github.com/rs/zerolog/log"
)

// ErrRenewalFailed wraps every failure of the renewal protocol.
var ErrRenewalFailed = errors.New("token renewal failed")

// renew exchanges the stored refresh token for a new access token exactly
// once. On success the new bearer is set and the pair is persisted; the
// refresh token is kept unless the server rotated it.
func (s *Store) renew(ctx context.Context, stored *db.Token) (*client.Profile, error) {
	resp, err := s.client.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenewalFailed, err)
	}
	if resp == nil || resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: response has no access token", ErrRenewalFailed)
	}

	refreshToken := stored.RefreshToken
	if resp.RefreshToken != "" {
		refreshToken = resp.RefreshToken
	}

	s.client.SetToken(resp.AccessToken)

	user := resp.User
	if user == nil {
		log.Debug().Msg("Refresh response carried no user, fetching profile")
		user, err = s.client.GetMe(ctx)
		if err == nil && user == nil {
			err = errMissingProfile
		}
		if err != nil {
			return nil, fmt.Errorf("%w: profile fetch after refresh: %w", ErrRenewalFailed, err)
		}
	}

	if err := s.repo.Upsert(ctx, &db.Token{AccessToken: resp.AccessToken, RefreshToken: refreshToken}); err != nil {
		return nil, fmt.Errorf("%w: failed to save refreshed token: %w", ErrRenewalFailed, err)
	}
	log.Debug().Bool("rotated", resp.RefreshToken != "").Msg("Token refreshed and saved successfully")
	return user, nil
}
