package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := &APIError{Code: 404, Type: "row_not_found", Message: "Row with the requested ID could not be found."}

	msg := err.Error()
	if !strings.Contains(msg, "404") || !strings.Contains(msg, "row_not_found") {
		t.Errorf("APIError.Error() = %q, want code and type", msg)
	}

	bare := &APIError{Code: 500, Message: "Internal Server Error"}
	if strings.Contains(bare.Error(), "()") {
		t.Errorf("APIError.Error() = %q, should omit empty type", bare.Error())
	}
}

func TestRequestError(t *testing.T) {
	originalErr := &APIError{Code: 401, Message: "unauthorized"}
	err := &RequestError{Op: "get_properties", Reason: ReasonAuth, Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "get_properties") {
		t.Errorf("RequestError.Error() should contain op, got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "auth") {
		t.Errorf("RequestError.Error() should contain reason, got: %q", errorMsg)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 401 {
		t.Error("RequestError.Unwrap() should expose the APIError")
	}
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := &StoreError{Path: "/test/session.db", Op: "open", Err: originalErr}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "session store error") {
		t.Errorf("StoreError.Error() should contain 'session store error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "/test/session.db") {
		t.Errorf("StoreError.Error() should contain path, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("StoreError.Unwrap() should return original error")
	}
}

func TestConfigError(t *testing.T) {
	withFields := &ConfigError{Fields: []string{"project_id is required", "tables.agents is required"}}
	if got := withFields.Error(); got != "invalid configuration: project_id is required; tables.agents is required" {
		t.Errorf("ConfigError.Error() = %q", got)
	}

	cause := errors.New("bad yaml")
	withErr := &ConfigError{Err: cause}
	if !errors.Is(withErr, cause) {
		t.Error("ConfigError.Unwrap() should return original error")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{"unauthorized", &APIError{Code: 401}, ReasonAuth},
		{"forbidden", &APIError{Code: 403}, ReasonAuth},
		{"not found", &APIError{Code: 404}, ReasonNotFound},
		{"server error", &APIError{Code: 500}, ReasonTransport},
		{"bad request", &APIError{Code: 400}, ReasonTransport},
		{"wrapped not found", fmt.Errorf("agent x: %w", &APIError{Code: 404}), ReasonNotFound},
		{"context cancelled", context.Canceled, ReasonCancelled},
		{"login cancelled", ErrLoginCancelled, ReasonCancelled},
		{"missing callback params", ErrMissingCallbackParams, ReasonAuth},
		{"no token url", ErrNoTokenURL, ReasonAuth},
		{"no session", ErrNoSession, ReasonAuth},
		{"config", &ConfigError{Fields: []string{"endpoint is required"}}, ReasonConfig},
		{"network", errors.New("connection refused"), ReasonTransport},
		{"tagged keeps reason", &RequestError{Op: "x", Reason: ReasonNotFound, Err: errors.New("empty id")}, ReasonNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapOp(t *testing.T) {
	if wrapOp("login", nil) != nil {
		t.Error("wrapOp(nil) should be nil")
	}

	err := wrapOp("login", ErrLoginCancelled)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("wrapOp() = %T, want *RequestError", err)
	}
	if reqErr.Op != "login" || reqErr.Reason != ReasonCancelled {
		t.Errorf("wrapOp() = %+v", reqErr)
	}
	if !errors.Is(err, ErrLoginCancelled) {
		t.Error("wrapOp() should keep the cause reachable")
	}
}

func TestReasonPredicates(t *testing.T) {
	notFound := wrapOp("get_property_by_id", &APIError{Code: 404})
	auth := wrapOp("get_properties", &APIError{Code: 401})
	cancelled := wrapOp("login", context.Canceled)

	if !IsNotFound(notFound) || IsNotFound(auth) || IsNotFound(nil) {
		t.Error("IsNotFound() misclassified")
	}
	if !IsAuth(auth) || IsAuth(notFound) || IsAuth(nil) {
		t.Error("IsAuth() misclassified")
	}
	if !IsCancelled(cancelled) || IsCancelled(auth) || IsCancelled(nil) {
		t.Error("IsCancelled() misclassified")
	}
}

func TestReasonString(t *testing.T) {
	for reason, want := range map[Reason]string{
		ReasonTransport: "transport",
		ReasonAuth:      "auth",
		ReasonNotFound:  "not found",
		ReasonCancelled: "cancelled",
		ReasonConfig:    "config",
		Reason(99):      "unknown",
	} {
		if got := reason.String(); got != want {
			t.Errorf("Reason(%d).String() = %q, want %q", int(reason), got, want)
		}
	}
}
