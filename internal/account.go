package internal

import (
	"context"
	"net/http"
	"net/url"
)

// OAuth2TokenURL returns the URL that starts an OAuth2 token flow with
// provider. The browser lands on success with secret and userId appended,
// or on failure if the user backs out.
func (c *Client) OAuth2TokenURL(provider, success, failure string) (string, error) {
	if provider == "" || success == "" {
		return "", ErrNoTokenURL
	}
	params := url.Values{}
	params.Set("success", success)
	if failure != "" {
		params.Set("failure", failure)
	}
	params.Set("project", c.project)
	return c.endpoint + "/account/tokens/oauth2/" + url.PathEscape(provider) + "?" + params.Encode(), nil
}

// CreateSession exchanges a token secret for a session. The session cookie
// handed back by the backend is attached to the client.
func (c *Client) CreateSession(ctx context.Context, userID, secret string) (*Session, error) {
	body := map[string]string{"userId": userID, "secret": secret}
	var sess Session
	if err := c.call(ctx, http.MethodPost, "/account/sessions/token", nil, body, &sess); err != nil {
		return nil, err
	}
	if sess.ID == "" {
		return nil, ErrNoSession
	}
	sess.ProjectID = c.project
	sess.Cookie = c.SessionCookie()
	return &sess, nil
}

// DeleteSession terminates sessionID; "current" names the attached session
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.call(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sessionID), nil, nil, nil); err != nil {
		return err
	}
	c.SetSessionCookie("")
	return nil
}

// GetAccount fetches the account the attached session belongs to
func (c *Client) GetAccount(ctx context.Context) (*Identity, error) {
	var id Identity
	if err := c.call(ctx, http.MethodGet, "/account", nil, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}
