package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/habedi/sessionctl/client"
	"github.com/habedi/sessionctl/db"
	"github.com/rs/zerolog/log"
)

// ErrLoginFailed wraps every error returned by Login.
var ErrLoginFailed = errors.New("login failed")

var errMissingProfile = errors.New("remote returned no user profile")

// Store owns the session state and is the only writer of the credential slot.
//
// Login and Logout are not coordinated with an in-flight Initialize; callers
// must wait for Initialize to return before invoking them.
type Store struct {
	repo   db.TokenRepository
	client CredentialClient

	mu          sync.RWMutex
	state       State
	user        *client.Profile
	initialized bool
	listeners   []func(Snapshot)
}

// NewStore wires a Store to its slot and remote client. The Store starts in
// the Uninitialized state.
func NewStore(repo db.TokenRepository, c CredentialClient) *Store {
	return &Store{repo: repo, client: c, state: Uninitialized}
}

// OnChange registers fn to be called after every state transition.
func (s *Store) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// State returns the current lifecycle state.
func (s *Store) State() State { return s.Snapshot().State }

// User returns the profile of the authenticated user, or nil.
func (s *Store) User() *client.Profile { return s.Snapshot().User }

// IsLoading reports whether Initialize is still restoring the session.
func (s *Store) IsLoading() bool { return s.Snapshot().IsLoading }

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{State: s.state, User: s.user, IsLoading: s.state == Loading}
}

// transition moves to next and notifies listeners outside the lock.
func (s *Store) transition(next State, user *client.Profile) {
	if next != Authenticated {
		user = nil
	}
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.user = user
	snap := s.snapshotLocked()
	listeners := append([]func(Snapshot){}, s.listeners...)
	s.mu.Unlock()

	log.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("Session state changed")
	for _, fn := range listeners {
		fn(snap)
	}
}

// Initialize restores the session from the credential slot. It runs once per
// Store; later calls return the current snapshot without side effects.
// Failures never surface as errors: they end in Unauthenticated. Once
// started it runs to completion; cancelling ctx does not abort it.
func (s *Store) Initialize(ctx context.Context) (snap Snapshot) {
	s.mu.Lock()
	if s.initialized {
		snap = s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.initialized = true
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	s.transition(Loading, nil)

	// Loading ends here and only here, whichever branch restore took.
	next, user := Unauthenticated, (*client.Profile)(nil)
	defer func() {
		if next != Authenticated {
			s.teardown(ctx)
		}
		s.transition(next, user)
		snap = s.Snapshot()
	}()

	next, user = s.restore(ctx)
	return snap
}

// restore decides the state Initialize settles in. The profile fetch always
// runs before the single renewal attempt.
func (s *Store) restore(ctx context.Context) (State, *client.Profile) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read stored credentials")
		return Unauthenticated, nil
	}
	if !stored.Complete() {
		log.Info().Msg("No stored credentials, starting unauthenticated")
		return Unauthenticated, nil
	}

	s.client.SetToken(stored.AccessToken)
	profile, err := s.client.GetMe(ctx)
	if err == nil && profile == nil {
		err = errMissingProfile
	}
	if err == nil {
		log.Info().Str("user_id", profile.ID).Msg("Session restored")
		return Authenticated, profile
	}

	log.Info().Err(err).Msg("Stored access token rejected, attempting renewal")
	profile, err = s.renew(ctx, stored)
	if err != nil {
		log.Warn().Err(err).Msg("Token renewal failed, clearing session")
		return Unauthenticated, nil
	}

	log.Info().Str("user_id", profile.ID).Msg("Session renewed")
	return Authenticated, profile
}

// Login authenticates with email and password. On failure the session state
// is left untouched and the error wraps ErrLoginFailed.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if resp == nil || resp.User == nil {
		return fmt.Errorf("%w: %w", ErrLoginFailed, errMissingProfile)
	}

	pair := &db.Token{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.repo.Upsert(ctx, pair); err != nil {
		return fmt.Errorf("%w: failed to persist credentials: %w", ErrLoginFailed, err)
	}

	s.client.SetToken(resp.AccessToken)
	s.transition(Authenticated, resp.User)
	log.Info().Str("user_id", resp.User.ID).Msg("Logged in")
	return nil
}

// Logout drops the session. It cannot fail; storage errors are logged.
func (s *Store) Logout(ctx context.Context) {
	s.teardown(ctx)
	s.transition(Unauthenticated, nil)
	log.Info().Msg("Logged out")
}

// teardown clears the slot and the bearer token. Safe to run repeatedly.
// The slot is cleared even when ctx is already cancelled.
func (s *Store) teardown(ctx context.Context) {
	if err := s.repo.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("Failed to clear stored credentials")
	}
	s.client.SetToken("")
}
