package internal

import "net/url"

// InitialsURL returns the URL of an avatar rendered from name's initials.
// Nothing is fetched; the backend renders the image when the URL is opened.
func (c *Client) InitialsURL(name string) string {
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}
	params.Set("project", c.project)
	return c.endpoint + "/avatars/initials?" + params.Encode()
}
