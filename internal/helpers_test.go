package internal

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/manucho/restate/testutil"
)

func newTestConfig(t *testing.T, m *testutil.MockBackend) *Config {
	t.Helper()
	cfg, err := LoadConfig("", false, m.Getenv)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	return cfg
}

func newTestService(t *testing.T, m *testutil.MockBackend, opts ...ServiceOption) *Service {
	t.Helper()
	cfg := newTestConfig(t, m)
	return NewService(NewClient(cfg), cfg, opts...)
}

// newSignedInService returns a service whose client already carries the
// backend's session cookie
func newSignedInService(t *testing.T, m *testutil.MockBackend, opts ...ServiceOption) *Service {
	t.Helper()
	svc := newTestService(t, m, opts...)
	svc.Client().SetSessionCookie(testutil.TestSessionCookie)
	return svc
}

func newMemoryStore(t *testing.T) *SQLiteSessionStore {
	t.Helper()
	store, err := OpenSessionStore(":memory:")
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// redirectingBrowser stands in for the browser and identity provider: it
// follows the token URL's success target with params appended
func redirectingBrowser(t *testing.T, params url.Values) (BrowserOpener, *string) {
	t.Helper()
	var opened string
	return func(tokenURL string) error {
		opened = tokenURL
		u, err := url.Parse(tokenURL)
		if err != nil {
			t.Errorf("token url %q does not parse: %v", tokenURL, err)
			return err
		}
		target := u.Query().Get("success")
		if len(params) > 0 {
			target += "?" + params.Encode()
		}
		return followRedirect(target)
	}, &opened
}

// cancellingBrowser follows the token URL's failure target
func cancellingBrowser(t *testing.T) BrowserOpener {
	t.Helper()
	return func(tokenURL string) error {
		u, err := url.Parse(tokenURL)
		if err != nil {
			return err
		}
		return followRedirect(u.Query().Get("failure"))
	}
}

func followRedirect(target string) error {
	resp, err := http.Get(target)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
