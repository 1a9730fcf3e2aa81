package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const callbackPage = `<!doctype html>
<html><head><title>restate</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4em">
<h2>%s</h2><p>You can close this window and return to the terminal.</p>
</body></html>`

// RedirectListener is a loopback HTTP server that receives the browser
// redirect at the end of an OAuth2 flow. Paths carry a random nonce so
// that only the redirect targets handed to the backend are honoured.
type RedirectListener struct {
	listener net.Listener
	server   *http.Server
	nonce    string
	results  chan redirectResult
}

type redirectResult struct {
	url *url.URL
	err error
}

// NewRedirectListener starts listening on addr ("127.0.0.1:0" picks a free port)
func NewRedirectListener(addr string) (*RedirectListener, error) {
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start redirect listener: %w", err)
	}

	l := &RedirectListener{
		listener: ln,
		nonce:    uuid.NewString(),
		results:  make(chan redirectResult, 1),
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/{nonce}/success", l.handleSuccess).Methods(http.MethodGet)
	r.HandleFunc("/auth/{nonce}/failure", l.handleFailure).Methods(http.MethodGet)
	l.server = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			LogWarn("Redirect listener stopped: %v", err)
		}
	}()
	return l, nil
}

func (l *RedirectListener) baseURL() string {
	return "http://" + l.listener.Addr().String() + "/auth/" + l.nonce
}

// SuccessURL is the redirect target for a completed flow
func (l *RedirectListener) SuccessURL() string {
	return l.baseURL() + "/success"
}

// FailureURL is the redirect target for an abandoned flow
func (l *RedirectListener) FailureURL() string {
	return l.baseURL() + "/failure"
}

func (l *RedirectListener) validNonce(r *http.Request) bool {
	return mux.Vars(r)["nonce"] == l.nonce
}

func (l *RedirectListener) deliver(res redirectResult) {
	select {
	case l.results <- res:
	default:
		// first redirect wins
	}
}

func (l *RedirectListener) handleSuccess(w http.ResponseWriter, r *http.Request) {
	if !l.validNonce(r) {
		http.NotFound(w, r)
		return
	}
	u := *r.URL
	u.Scheme = "http"
	u.Host = r.Host
	l.deliver(redirectResult{url: &u})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, callbackPage, "Signed in to restate")
}

func (l *RedirectListener) handleFailure(w http.ResponseWriter, r *http.Request) {
	if !l.validNonce(r) {
		http.NotFound(w, r)
		return
	}
	l.deliver(redirectResult{err: ErrLoginCancelled})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, callbackPage, "Sign-in was cancelled")
}

// Wait blocks until the browser is redirected back or ctx is done
func (l *RedirectListener) Wait(ctx context.Context) (*url.URL, error) {
	select {
	case res := <-l.results:
		return res.url, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the listener down
func (l *RedirectListener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.server.Shutdown(ctx)
}
