package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Reason tags why a remote operation failed
type Reason int

const (
	ReasonTransport Reason = iota
	ReasonAuth
	ReasonNotFound
	ReasonCancelled
	ReasonConfig
)

func (r Reason) String() string {
	switch r {
	case ReasonTransport:
		return "transport"
	case ReasonAuth:
		return "auth"
	case ReasonNotFound:
		return "not found"
	case ReasonCancelled:
		return "cancelled"
	case ReasonConfig:
		return "config"
	default:
		return "unknown"
	}
}

var (
	// ErrMissingCallbackParams is returned when the OAuth redirect lacks secret or userId
	ErrMissingCallbackParams = errors.New("redirect is missing secret or userId")
	// ErrLoginCancelled is returned when the browser lands on the failure route
	ErrLoginCancelled = errors.New("login was cancelled in the browser")
	// ErrNoTokenURL is returned when the OAuth2 token URL could not be built
	ErrNoTokenURL = errors.New("failed to obtain an OAuth2 token url")
	// ErrNoSession is returned when the session exchange yields no session
	ErrNoSession = errors.New("failed to create a session")
)

// APIError is an error response returned by the backend
type APIError struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// RequestError wraps a failed remote operation with its failure reason
type RequestError struct {
	Op     string // "login", "logout", "get_current_user", "list_rows", ...
	Reason Reason
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ConfigError lists every configuration field that failed validation
type ConfigError struct {
	Fields []string
	Err    error
}

func (e *ConfigError) Error() string {
	if len(e.Fields) > 0 {
		return "invalid configuration: " + strings.Join(e.Fields, "; ")
	}
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StoreError represents errors accessing the local session store
type StoreError struct {
	Path string
	Op   string // "open", "load", "save", "delete"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("session store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// classify derives a failure reason from an error chain
func classify(err error) Reason {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Reason
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return ReasonAuth
		case http.StatusNotFound:
			return ReasonNotFound
		}
		return ReasonTransport
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ReasonConfig
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrLoginCancelled) {
		return ReasonCancelled
	}
	if errors.Is(err, ErrMissingCallbackParams) || errors.Is(err, ErrNoTokenURL) || errors.Is(err, ErrNoSession) {
		return ReasonAuth
	}
	return ReasonTransport
}

// wrapOp tags err with op and its classified reason
func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RequestError{Op: op, Reason: classify(err), Err: err}
}

// IsNotFound reports whether err was caused by a missing row or resource
func IsNotFound(err error) bool {
	return err != nil && classify(err) == ReasonNotFound
}

// IsAuth reports whether err was caused by missing or rejected credentials
func IsAuth(err error) bool {
	return err != nil && classify(err) == ReasonAuth
}

// IsCancelled reports whether the user abandoned the operation
func IsCancelled(err error) bool {
	return err != nil && classify(err) == ReasonCancelled
}
