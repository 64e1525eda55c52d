package auth

import "github.com/habedi/sessionctl/client"

// State is the session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Loading
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session handed to consumers.
// User is non-nil iff State is Authenticated.
type Snapshot struct {
	State     State
	User      *client.Profile
	IsLoading bool
}
