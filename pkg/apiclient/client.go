// Package apiclient is a typed HTTP client for the fintrack API. It holds the
// current token bundle, refreshes it transparently, and implements
// session.AuthGateway so a session.Store can gate views on top of it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"fintrack/pkg/session"
)

// refreshSkew renews the access token slightly before it actually expires.
const refreshSkew = 30 * time.Second

// Client talks to one fintrack API instance. Safe for concurrent use.
type Client struct {
	base string
	hc   *http.Client

	mu        sync.Mutex
	sess      *session.Session
	callbacks map[int]func(session.Event, *session.Session)
	nextCB    int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New creates a client for the API at base (e.g. "http://localhost:8081").
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:      strings.TrimRight(base, "/"),
		hc:        &http.Client{Timeout: 15 * time.Second},
		callbacks: make(map[int]func(session.Event, *session.Session)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a request and decodes the response into out (when non-nil).
// Authenticated calls attach the current access token, refreshing it first
// when it is about to expire.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var rd *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		sess, err := c.GetSession(ctx)
		if err != nil {
			return err
		}
		if sess == nil {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, e.Error)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func toSession(p sessionPayload) *session.Session {
	return &session.Session{
		UserID:       strconv.FormatUint(uint64(p.User.ID), 10),
		Email:        p.User.Email,
		AccessToken:  p.Token,
		RefreshToken: p.RefreshToken,
		IssuedAt:     time.Now(),
		ExpiresAt:    p.ExpiresAt,
	}
}

// Register signs up and, like the hosted service, signs the new user in.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*session.Session, error) {
	var p sessionPayload
	body := map[string]string{"email": email, "password": password, "full_name": fullName}
	if err := c.do(ctx, http.MethodPost, "/register", body, &p, false); err != nil {
		return nil, err
	}
	return c.adopt(p, session.EventSignedIn), nil
}

// Login authenticates and stores the session; subscribers observe SIGNED_IN.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	var p sessionPayload
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &p, false); err != nil {
		return nil, err
	}
	return c.adopt(p, session.EventSignedIn), nil
}

// Refresh rotates the refresh token and replaces the session; subscribers
// observe TOKEN_REFRESHED.
func (c *Client) Refresh(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	refreshToken := c.sess.RefreshToken
	c.mu.Unlock()

	var p sessionPayload
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/refresh", body, &p, false); err != nil {
		return nil, err
	}
	return c.adopt(p, session.EventTokenRefreshed), nil
}

// adopt stores the new session and notifies subscribers.
func (c *Client) adopt(p sessionPayload, ev session.Event) *session.Session {
	sess := toSession(p)
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()
	cp := *sess
	c.emit(ev, &cp)
	return &cp
}

// SignOut revokes the refresh token at the server and clears the local
// session either way; subscribers observe SIGNED_OUT.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	var refreshToken string
	if c.sess != nil {
		refreshToken = c.sess.RefreshToken
	}
	c.sess = nil
	c.mu.Unlock()

	c.emit(session.EventSignedOut, nil)
	if refreshToken == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/logout", map[string]string{"refresh_token": refreshToken}, nil, false)
}

// SetSession seeds the client with a previously stored session (e.g. loaded
// from disk by a CLI) without emitting events.
func (c *Client) SetSession(sess *session.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess == nil {
		c.sess = nil
		return
	}
	cp := *sess
	c.sess = &cp
}

// GetSession returns the current session, transparently refreshing an
// access token that is about to expire. Returns nil when nobody is signed in.
func (c *Client) GetSession(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return nil, nil
	}
	if time.Until(sess.ExpiresAt) > refreshSkew {
		cp := *sess
		return &cp, nil
	}
	refreshed, err := c.Refresh(ctx)
	if err != nil {
		// the refresh token is gone too; treat as signed out
		c.mu.Lock()
		c.sess = nil
		c.mu.Unlock()
		c.emit(session.EventSignedOut, nil)
		return nil, err
	}
	return refreshed, nil
}

// OnAuthChange registers a callback for auth events; the returned func
// unsubscribes it.
func (c *Client) OnAuthChange(fn func(session.Event, *session.Session)) func() {
	c.mu.Lock()
	id := c.nextCB
	c.nextCB++
	c.callbacks[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.callbacks, id)
		c.mu.Unlock()
	}
}

func (c *Client) emit(ev session.Event, sess *session.Session) {
	c.mu.Lock()
	cbs := make([]func(session.Event, *session.Session), 0, len(c.callbacks))
	for _, fn := range c.callbacks {
		cbs = append(cbs, fn)
	}
	c.mu.Unlock()
	for _, fn := range cbs {
		fn(ev, sess)
	}
}
