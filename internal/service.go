package internal

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// DefaultOAuthProvider is the identity provider used by Login
const DefaultOAuthProvider = "google"

// Service exposes the restate operations over a connection handle
type Service struct {
	client       *Client
	cfg          *Config
	store        SessionStore
	state        *AppState
	openBrowser  BrowserOpener
	provider     string
	callbackAddr string
	notify       func(url string)
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithSessionStore persists sessions across invocations
func WithSessionStore(store SessionStore) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// WithAppState keeps state in step with login and logout
func WithAppState(state *AppState) ServiceOption {
	return func(s *Service) {
		s.state = state
	}
}

// WithBrowser replaces the browser launcher used by Login
func WithBrowser(open BrowserOpener) ServiceOption {
	return func(s *Service) {
		s.openBrowser = open
	}
}

// WithOAuthProvider selects the identity provider
func WithOAuthProvider(provider string) ServiceOption {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithCallbackAddr sets the loopback address the redirect listener binds
func WithCallbackAddr(addr string) ServiceOption {
	return func(s *Service) {
		s.callbackAddr = addr
	}
}

// WithLoginNotifier is told the authorization URL before the browser opens
func WithLoginNotifier(fn func(url string)) ServiceOption {
	return func(s *Service) {
		s.notify = fn
	}
}

// NewService wires a Service over client. A stored session, if any, is
// attached to the client.
func NewService(client *Client, cfg *Config, opts ...ServiceOption) *Service {
	s := &Service{
		client:       client,
		cfg:          cfg,
		openBrowser:  OpenBrowser,
		provider:     DefaultOAuthProvider,
		callbackAddr: "127.0.0.1:0",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store != nil && client.SessionCookie() == "" {
		sess, err := s.store.Load(client.Project())
		if err != nil {
			LogWarn("Failed to load stored session: %v", err)
		} else if sess != nil {
			LogDebug("Restored session %s for user %s", sess.ID, sess.UserID)
			client.SetSessionCookie(sess.Cookie)
		}
	}
	return s
}

// Client returns the underlying connection handle
func (s *Service) Client() *Client {
	return s.client
}

// Authenticate runs the browser OAuth2 flow and establishes a session
func (s *Service) Authenticate(ctx context.Context) error {
	const op = "login"

	listener, err := NewRedirectListener(s.callbackAddr)
	if err != nil {
		return wrapOp(op, err)
	}
	defer listener.Close()

	tokenURL, err := s.client.OAuth2TokenURL(s.provider, listener.SuccessURL(), listener.FailureURL())
	if err != nil {
		return wrapOp(op, err)
	}

	if s.notify != nil {
		s.notify(tokenURL)
	}
	if err := s.openBrowser(tokenURL); err != nil {
		LogWarn("Could not open a browser (%v); open the URL above manually", err)
	}

	redirect, err := listener.Wait(ctx)
	if err != nil {
		return wrapOp(op, err)
	}

	secret, userID := callbackCredentials(redirect)
	if secret == "" || userID == "" {
		return wrapOp(op, ErrMissingCallbackParams)
	}

	sess, err := s.client.CreateSession(ctx, userID, secret)
	if err != nil {
		return wrapOp(op, err)
	}
	if sess == nil {
		return wrapOp(op, ErrNoSession)
	}
	sess.Provider = s.provider
	sess.CreatedAt = time.Now()

	if s.store != nil {
		if err := s.store.Save(sess); err != nil {
			LogWarn("Signed in, but the session could not be saved: %v", err)
		}
	}
	if s.state != nil {
		if err := s.state.Refresh(ctx, s); err != nil {
			LogWarn("Signed in, but the account could not be loaded: %v", err)
		}
	}
	LogDebug("Created session %s for user %s", sess.ID, sess.UserID)
	return nil
}

func callbackCredentials(u *url.URL) (secret, userID string) {
	if u == nil {
		return "", ""
	}
	q := u.Query()
	return q.Get("secret"), q.Get("userId")
}

// Login runs Authenticate and reports only whether it succeeded
func (s *Service) Login(ctx context.Context) bool {
	return logFailure("login", s.Authenticate(ctx)) == nil
}

// EndSession deletes the current session and forgets it locally
func (s *Service) EndSession(ctx context.Context) error {
	if err := s.client.DeleteSession(ctx, "current"); err != nil {
		return wrapOp("logout", err)
	}
	if s.store != nil {
		if err := s.store.Delete(s.client.Project()); err != nil {
			LogWarn("Failed to forget stored session: %v", err)
		}
	}
	if s.state != nil {
		s.state.Reset()
	}
	return nil
}

// Logout runs EndSession and reports only whether it succeeded
func (s *Service) Logout(ctx context.Context) bool {
	return logFailure("logout", s.EndSession(ctx)) == nil
}

// GetCurrentUser returns the signed-in identity with its avatar URL.
// A missing session yields (nil, nil); other failures yield (nil, err).
func (s *Service) GetCurrentUser(ctx context.Context) (*Identity, error) {
	const op = "get_current_user"

	id, err := s.client.GetAccount(ctx)
	if err != nil {
		if IsAuth(err) {
			LogDebug("%s: no active session (%v)", op, err)
			return nil, nil
		}
		return nil, logFailure(op, wrapOp(op, err))
	}
	if id == nil || id.ID == "" {
		return nil, nil
	}
	id.Avatar = s.client.InitialsURL(id.Name)
	return id, nil
}

// Describe returns a short label for the configured backend
func (s *Service) Describe() string {
	return fmt.Sprintf("%s (project %s)", s.client.Endpoint(), s.client.Project())
}
