// Package session tracks the current authentication identity for a running
// client and gates access to protected views. A Store resolves the initial
// session asynchronously, reacts to auth-change events from the gateway, and
// answers synchronous reads from the UI layer.
package session

import (
	"context"
	"time"
)

// State of the store. Unknown only exists during the initial resolution
// window; afterwards the store is either Authenticated or Anonymous.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the identity token bundle for the signed-in subject. At most one
// live session exists per store.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Event names delivered by the gateway's auth-change subscription.
type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// AuthGateway is the slice of the persistence gateway the store depends on.
type AuthGateway interface {
	// GetSession returns the existing session, or nil when none exists.
	GetSession(ctx context.Context) (*Session, error)
	// SignOut invalidates the current session at the gateway.
	SignOut(ctx context.Context) error
	// OnAuthChange registers a callback for auth events and returns an
	// unsubscribe func.
	OnAuthChange(fn func(Event, *Session)) (unsubscribe func())
}

// Notifier surfaces user-visible notices (title + description). Sign-in and
// sign-out outcomes are reported through it.
type Notifier interface {
	Notify(title, description string)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(title, description string)

func (f NotifierFunc) Notify(title, description string) { f(title, description) }
