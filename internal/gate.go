package internal

import (
	"context"
	"sync"
)

// IdentityFetcher resolves who is signed in; nil means nobody
type IdentityFetcher interface {
	GetCurrentUser(ctx context.Context) (*Identity, error)
}

// AppState carries the loading flag and the signed-in identity down the
// call tree. It starts out loading and settles once Refresh resolves.
type AppState struct {
	mu      sync.RWMutex
	loading bool
	user    *Identity
	ready   chan struct{}
	// gen counts Resets; a Refresh started before one is discarded
	gen uint64
}

// NewAppState returns a state that is loading
func NewAppState() *AppState {
	return &AppState{loading: true, ready: make(chan struct{})}
}

// Loading reports whether the identity check is still pending
func (s *AppState) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsLoggedIn reports whether an identity was resolved
func (s *AppState) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the signed-in identity, or nil
func (s *AppState) User() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Refresh re-runs the identity check. The state is loading until f
// returns; a failed check settles as signed out. A result that arrives
// after a Reset is dropped.
func (s *AppState) Refresh(ctx context.Context, f IdentityFetcher) error {
	s.mu.Lock()
	gen := s.gen
	if !s.loading {
		s.loading = true
		s.ready = make(chan struct{})
	}
	s.mu.Unlock()

	user, err := f.GetCurrentUser(ctx)
	if err != nil {
		user = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return err
	}
	s.user = user
	s.settleLocked()
	return err
}

// Reset signs the state out and ends any pending load
func (s *AppState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.user = nil
	s.settleLocked()
}

func (s *AppState) settleLocked() {
	if s.loading {
		s.loading = false
		close(s.ready)
	}
}

// Wait blocks until the state is no longer loading or ctx is done
func (s *AppState) Wait(ctx context.Context) error {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type appStateKey struct{}

// ContextWithAppState returns a child context carrying state
func ContextWithAppState(ctx context.Context, state *AppState) context.Context {
	return context.WithValue(ctx, appStateKey{}, state)
}

// AppStateFrom returns the state carried by ctx, or nil
func AppStateFrom(ctx context.Context) *AppState {
	state, _ := ctx.Value(appStateKey{}).(*AppState)
	return state
}

// Placeholder is rendered while the state is loading. It must return
// once wait does.
type Placeholder func(ctx context.Context, wait func() error) error

// SessionGate holds back routed content while the identity check runs
type SessionGate struct {
	State       *AppState
	Placeholder Placeholder
}

// Render shows the placeholder while loading, then runs content. Content
// always runs once loading ends; it decides for itself what to do when
// nobody is signed in.
func (g *SessionGate) Render(ctx context.Context, content func(ctx context.Context) error) error {
	if g.State.Loading() {
		wait := func() error { return g.State.Wait(ctx) }
		if g.Placeholder != nil {
			if err := g.Placeholder(ctx, wait); err != nil {
				return err
			}
		} else if err := wait(); err != nil {
			return err
		}
	}
	return content(ContextWithAppState(ctx, g.State))
}
