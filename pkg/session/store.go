package session

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultLoadTimeout bounds the initial session check. When it elapses the
// store resolves to Anonymous instead of leaving callers stuck on a loading
// indicator; a late successful check still lands through the event path.
const DefaultLoadTimeout = 2 * time.Second

// Store owns the single live session for a client instance.
type Store struct {
	gw       AuthGateway
	notifier Notifier
	timeout  time.Duration
	logf     func(format string, args ...any)

	mu      sync.Mutex
	state   State
	session *Session
	loading bool
	unsub   func()
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier routes user-visible notices to n.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLoadTimeout overrides the bounded wait on the initial session check.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithLogf overrides the store's diagnostic logger.
func WithLogf(f func(format string, args ...any)) Option {
	return func(s *Store) { s.logf = f }
}

// NewStore creates a store in the Unknown state. Call Start to begin
// resolving the existing session.
func NewStore(gw AuthGateway, opts ...Option) *Store {
	s := &Store{
		gw:       gw,
		notifier: NotifierFunc(func(string, string) {}),
		timeout:  DefaultLoadTimeout,
		logf:     log.Printf,
		state:    StateUnknown,
		loading:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes to auth-change events first, so an event racing the
// initial check is not lost, then kicks off the existing-session lookup with
// a bounded wait.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	s.unsub = s.gw.OnAuthChange(s.handleEvent)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sess, err := s.gw.GetSession(ctx)
		if err != nil {
			// a failed check fails open to Anonymous; never leaves the UI stuck
			s.logf("session: initial check failed: %v", err)
			sess = nil
		}
		s.resolveInitial(sess)
	}()
	go func() {
		select {
		case <-done:
		case <-ctx.Done():
			s.resolveInitial(nil)
		case <-time.After(s.timeout):
			s.logf("session: initial check exceeded %s, resolving anonymous", s.timeout)
			s.resolveInitial(nil)
		}
	}()
}

// Close unsubscribes from gateway events.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// resolveInitial applies the result of the initial check. Only the first
// resolution wins: if an auth event already settled the state, a late (or
// timed-out) check must not clobber it.
func (s *Store) resolveInitial(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loading {
		return
	}
	s.loading = false
	s.setLocked(sess)
}

func (s *Store) handleEvent(ev Event, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev {
	case EventSignedIn:
		s.setLocked(sess)
		s.notifier.Notify("Welcome back!", "You have successfully signed in.")
	case EventSignedOut:
		s.setLocked(nil)
	case EventTokenRefreshed:
		if sess != nil {
			s.setLocked(sess)
		}
	default:
		s.logf("session: ignoring unknown auth event %q", ev)
	}
	s.loading = false
}

// setLocked replaces the stored session and derives the state. Caller holds mu.
func (s *Store) setLocked(sess *Session) {
	s.session = sess
	if sess != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
}

// CurrentSession returns a copy of the live session, or nil.
func (s *Store) CurrentSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// State returns the current authentication state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsLoading is true only during the initial resolution window.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SignOut requests a gateway sign-out and forces the local state to Anonymous
// regardless of the outcome. A gateway failure is surfaced to the user and
// returned, but the session is gone locally either way.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.gw.SignOut(ctx)

	s.mu.Lock()
	s.setLocked(nil)
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.logf("session: sign out failed: %v", err)
		s.notifier.Notify("Error", "Failed to sign out. Please try again.")
		return err
	}
	s.notifier.Notify("Signed out", "You have been successfully signed out.")
	return nil
}
