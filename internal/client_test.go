package internal

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/manucho/restate/testutil"
)

func TestClient_Headers(t *testing.T) {
	m := testutil.NewMockBackend(t)
	testutil.SeedProperties(m, 1)
	cfg := newTestConfig(t, m)
	client := NewClient(cfg)

	if _, err := client.ListRows(context.Background(), cfg.DatabaseID, cfg.Tables.Agents, nil); err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}

	h := m.LastRequest().Header
	want := map[string]string{
		"X-Appwrite-Project":         testutil.TestProjectID,
		"X-Appwrite-Response-Format": "1.8.0",
		"X-Appwrite-Package-Name":    DefaultPlatform,
		"X-SDK-Name":                 sdkName,
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
	if got := h.Get("X-Fallback-Cookies"); got != "" {
		t.Errorf("X-Fallback-Cookies = %q, want none without a session", got)
	}
}

func TestClient_SessionCookieRoundTrip(t *testing.T) {
	m := testutil.NewMockBackend(t)
	m.SetUser(testutil.TestUser())
	client := NewClient(newTestConfig(t, m))
	ctx := context.Background()

	sess, err := client.CreateSession(ctx, testutil.TestUserID, testutil.TestSecret)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != testutil.TestSessionID || sess.UserID != testutil.TestUserID {
		t.Errorf("CreateSession() = %+v", sess)
	}
	if sess.ProjectID != testutil.TestProjectID {
		t.Errorf("Session.ProjectID = %q, want %q", sess.ProjectID, testutil.TestProjectID)
	}
	if sess.Cookie != testutil.TestSessionCookie || client.SessionCookie() != testutil.TestSessionCookie {
		t.Errorf("session cookie not captured: session %q, client %q", sess.Cookie, client.SessionCookie())
	}

	id, err := client.GetAccount(ctx)
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if id.ID != testutil.TestUserID {
		t.Errorf("GetAccount() = %+v", id)
	}
	if got := m.LastRequest().Header.Get("X-Fallback-Cookies"); got != testutil.TestSessionCookie {
		t.Errorf("X-Fallback-Cookies = %q, want the captured cookie", got)
	}

	if err := client.DeleteSession(ctx, "current"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if client.SessionCookie() != "" {
		t.Error("DeleteSession() should detach the cookie")
	}
	if reqs := m.RequestsTo(http.MethodDelete, "/v1/account/sessions/current"); len(reqs) != 1 {
		t.Errorf("DELETE /account/sessions/current sent %d times, want 1", len(reqs))
	}
}

func TestClient_CreateSessionRejected(t *testing.T) {
	m := testutil.NewMockBackend(t)
	client := NewClient(newTestConfig(t, m))

	_, err := client.CreateSession(context.Background(), testutil.TestUserID, "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CreateSession() error = %v, want *APIError", err)
	}
	if apiErr.Code != http.StatusUnauthorized || apiErr.Type != "user_invalid_token" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if client.SessionCookie() != "" {
		t.Error("rejected exchange should not attach a cookie")
	}
}

func TestClient_APIErrorDecoding(t *testing.T) {
	m := testutil.NewMockBackend(t)
	testutil.SeedProperties(m, 1)
	cfg := newTestConfig(t, m)
	client := NewClient(cfg)

	_, err := client.GetRow(context.Background(), cfg.DatabaseID, cfg.Tables.Properties, "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetRow() error = %v, want *APIError", err)
	}
	if apiErr.Code != 404 || apiErr.Type != "row_not_found" || apiErr.Message == "" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() should hold for a missing row")
	}
}

func TestClient_TransportError(t *testing.T) {
	m := testutil.NewMockBackend(t)
	cfg := newTestConfig(t, m)
	m.Server.Close()

	_, err := NewClient(cfg).GetAccount(context.Background())
	if err == nil {
		t.Fatal("GetAccount() expected error from a closed server")
	}
	if classify(err) != ReasonTransport {
		t.Errorf("classify() = %v, want transport", classify(err))
	}
}

func TestClient_ListRowsSendsQueries(t *testing.T) {
	m := testutil.NewMockBackend(t)
	testutil.SeedProperties(m, 3)
	cfg := newTestConfig(t, m)

	queries := []Query{Equal("type", "Apartment"), Limit(1)}
	list, err := NewClient(cfg).ListRows(context.Background(), cfg.DatabaseID, cfg.Tables.Properties, queries)
	if err != nil {
		t.Fatalf("ListRows() error = %v", err)
	}
	if list.Total != 1 || len(list.Rows) != 1 || list.Rows[0].ID() != "prop-1" {
		t.Errorf("ListRows() = %+v", list)
	}

	got := m.LastRequest().Queries()
	if len(got) != 2 || got[0] != queries[0].String() || got[1] != queries[1].String() {
		t.Errorf("queries[] = %v", got)
	}
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return http.DefaultTransport.RoundTrip(req)
}

func TestClient_Options(t *testing.T) {
	m := testutil.NewMockBackend(t)
	m.SetUser(testutil.TestUser())
	cfg := newTestConfig(t, m)

	transport := &countingTransport{}
	shared := &http.Client{Transport: transport}
	client := NewClient(cfg, WithHTTPClient(shared), WithTimeout(5*time.Second))
	if client.http.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.http.Timeout)
	}
	if shared.Timeout != 0 {
		t.Errorf("WithTimeout() changed the caller's client: Timeout = %v", shared.Timeout)
	}

	NewClient(cfg, WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	if http.DefaultClient.Timeout != 0 {
		t.Errorf("WithTimeout() changed http.DefaultClient: Timeout = %v", http.DefaultClient.Timeout)
	}
	if client.Endpoint() != m.Endpoint() || client.Project() != testutil.TestProjectID {
		t.Errorf("Endpoint() = %q, Project() = %q", client.Endpoint(), client.Project())
	}

	if _, err := client.GetAccount(context.Background()); !IsAuth(err) {
		t.Errorf("GetAccount() error = %v, want auth failure", err)
	}
	if transport.calls != 1 {
		t.Errorf("transport used %d times, want 1", transport.calls)
	}

	unbounded := NewClient(cfg, WithTimeout(0))
	if unbounded.http.Timeout != 0 {
		t.Errorf("WithTimeout(0) set Timeout = %v", unbounded.http.Timeout)
	}
}

func TestClient_URLs(t *testing.T) {
	cfg := &Config{Endpoint: "https://cloud.example.com/v1", ProjectID: "proj", Platform: DefaultPlatform}
	client := NewClient(cfg)

	tokenURL, err := client.OAuth2TokenURL("google", "http://127.0.0.1:1/ok", "http://127.0.0.1:1/fail")
	if err != nil {
		t.Fatalf("OAuth2TokenURL() error = %v", err)
	}
	u, err := url.Parse(tokenURL)
	if err != nil {
		t.Fatalf("token url does not parse: %v", err)
	}
	if u.Path != "/v1/account/tokens/oauth2/google" {
		t.Errorf("token url path = %q", u.Path)
	}
	q := u.Query()
	if q.Get("success") != "http://127.0.0.1:1/ok" || q.Get("failure") != "http://127.0.0.1:1/fail" || q.Get("project") != "proj" {
		t.Errorf("token url query = %v", q)
	}

	if _, err := client.OAuth2TokenURL("google", "", ""); !errors.Is(err, ErrNoTokenURL) {
		t.Errorf("OAuth2TokenURL() without success error = %v, want ErrNoTokenURL", err)
	}

	avatar := client.InitialsURL("Ada Lovelace")
	if !strings.HasPrefix(avatar, "https://cloud.example.com/v1/avatars/initials?") {
		t.Errorf("InitialsURL() = %q", avatar)
	}
	if !strings.Contains(avatar, "name=Ada+Lovelace") || !strings.Contains(avatar, "project=proj") {
		t.Errorf("InitialsURL() = %q, want name and project", avatar)
	}
}
