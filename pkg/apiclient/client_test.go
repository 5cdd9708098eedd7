package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/pkg/session"
)

// newFakeAPI serves the handful of endpoints the client tests need.
// tokenTTL controls how far in the future issued tokens expire.
func newFakeAPI(t *testing.T, tokenTTL time.Duration) (*httptest.Server, *int) {
	t.Helper()
	refreshCalls := 0
	mux := http.NewServeMux()
	payload := func(token string) map[string]any {
		return map[string]any{
			"token":         token,
			"refresh_token": "refresh-" + token,
			"expires_at":    time.Now().Add(tokenTTL).UTC().Format(time.RFC3339),
			"user":          map[string]any{"id": 7, "email": "u@example.com"},
		}
	}
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(payload("tok-1"))
	})
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		_ = json.NewEncoder(w).Encode(payload("tok-2"))
	})
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "signed out"})
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing or invalid Authorization header"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"summary":             map[string]any{"income": 100000, "expenses": 40000, "balance": 60000, "savings_rate": 60},
			"chart":               []any{},
			"recent_transactions": []any{},
			"goals":               []any{},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &refreshCalls
}

func TestLoginStoresSessionAndEmits(t *testing.T) {
	srv, _ := newFakeAPI(t, time.Hour)
	c := New(srv.URL)

	var events []session.Event
	unsub := c.OnAuthChange(func(ev session.Event, _ *session.Session) { events = append(events, ev) })
	defer unsub()

	sess, err := c.Login(context.Background(), "u@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.UserID != "7" || sess.Email != "u@example.com" || sess.AccessToken != "tok-1" {
		t.Fatalf("session = %+v", sess)
	}
	if len(events) != 1 || events[0] != session.EventSignedIn {
		t.Fatalf("events = %v, want [SIGNED_IN]", events)
	}
	got, err := c.GetSession(context.Background())
	if err != nil || got == nil || got.AccessToken != "tok-1" {
		t.Fatalf("GetSession = %+v, %v", got, err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv, _ := newFakeAPI(t, time.Hour)
	c := New(srv.URL)
	if _, err := c.Login(context.Background(), "u@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if got, _ := c.GetSession(context.Background()); got != nil {
		t.Fatalf("failed login must not store a session")
	}
}

func TestGetSessionRefreshesExpiringToken(t *testing.T) {
	// issued tokens expire inside the refresh skew, so the next GetSession
	// must rotate them
	srv, refreshCalls := newFakeAPI(t, 5*time.Second)
	c := New(srv.URL)

	var events []session.Event
	defer c.OnAuthChange(func(ev session.Event, _ *session.Session) { events = append(events, ev) })()

	if _, err := c.Login(context.Background(), "u@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := c.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if *refreshCalls != 1 {
		t.Fatalf("refresh calls = %d, want 1", *refreshCalls)
	}
	if sess.AccessToken != "tok-2" {
		t.Fatalf("token = %q, want rotated tok-2", sess.AccessToken)
	}
	if len(events) != 2 || events[1] != session.EventTokenRefreshed {
		t.Fatalf("events = %v, want TOKEN_REFRESHED after sign-in", events)
	}
}

func TestSignOutClearsAndEmits(t *testing.T) {
	srv, _ := newFakeAPI(t, time.Hour)
	c := New(srv.URL)
	if _, err := c.Login(context.Background(), "u@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var events []session.Event
	defer c.OnAuthChange(func(ev session.Event, _ *session.Session) { events = append(events, ev) })()

	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if got, _ := c.GetSession(context.Background()); got != nil {
		t.Fatalf("session must be cleared after sign out")
	}
	if len(events) != 1 || events[0] != session.EventSignedOut {
		t.Fatalf("events = %v, want [SIGNED_OUT]", events)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	srv, _ := newFakeAPI(t, time.Hour)
	c := New(srv.URL)
	if _, err := c.Dashboard(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
}

func TestDashboardDecodes(t *testing.T) {
	srv, _ := newFakeAPI(t, time.Hour)
	c := New(srv.URL)
	if _, err := c.Login(context.Background(), "u@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	d, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Summary.Balance != 60000 || d.Summary.SavingsRate != 60 {
		t.Fatalf("summary = %+v", d.Summary)
	}
}

// The client satisfies the gateway contract the session store needs; wiring
// them together must drive the store through the full lifecycle.
func TestClientDrivesSessionStore(t *testing.T) {
	srv, _ := newFakeAPI(t, time.Hour)
	c := New(srv.URL)

	store := session.NewStore(c)
	store.Start(context.Background())
	defer store.Close()

	deadline := time.Now().Add(2 * time.Second)
	for store.IsLoading() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if store.State() != session.StateAnonymous {
		t.Fatalf("state = %v, want anonymous before login", store.State())
	}

	if _, err := c.Login(context.Background(), "u@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if store.State() != session.StateAuthenticated {
		t.Fatalf("state = %v, want authenticated after login event", store.State())
	}
	if d := store.GateProtected("/budgets"); d.Action != session.ActionRender {
		t.Fatalf("decision = %+v, want render", d)
	}

	if err := store.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if store.State() != session.StateAnonymous {
		t.Fatalf("state = %v, want anonymous after sign out", store.State())
	}
}
