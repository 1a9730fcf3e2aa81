package internal

import "time"

// Session is an authenticated session issued by the backend
type Session struct {
	ID        string    `json:"$id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	ProjectID string    `json:"-" yaml:"project_id"`
	Provider  string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	Expire    string    `json:"expire,omitempty" yaml:"expire,omitempty"`
	Cookie    string    `json:"-" yaml:"-"` // fallback cookie presented on later requests
	CreatedAt time.Time `json:"-" yaml:"created_at"`
}

// Identity is the authenticated account
type Identity struct {
	ID     string `json:"$id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar,omitempty"` // derived from Name, never stored
}
