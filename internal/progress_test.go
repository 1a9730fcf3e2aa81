package internal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestShowProgress_RunsFn(t *testing.T) {
	// fn runs whether or not stderr is a terminal
	called := false
	err := ShowProgress(context.Background(), "Checking session...", func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("ShowProgress() error = %v", err)
	}
	if !called {
		t.Error("ShowProgress() should run fn")
	}
}

func TestShowSpinner(t *testing.T) {
	tests := []struct {
		name      string
		fn        func() error
		wantErr   bool
		wantCross bool
	}{
		{
			name:    "success",
			fn:      func() error { time.Sleep(150 * time.Millisecond); return nil },
			wantErr: false,
		},
		{
			name:      "failure",
			fn:        func() error { return errors.New("offline") },
			wantErr:   true,
			wantCross: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := showSpinner(context.Background(), &buf, "Checking session...", tt.fn)
			if (err != nil) != tt.wantErr {
				t.Errorf("showSpinner() error = %v, wantErr %v", err, tt.wantErr)
			}
			out := buf.String()
			if !strings.Contains(out, "\r\033[K") {
				t.Errorf("showSpinner() should clear its line, got %q", out)
			}
			if got := strings.Contains(out, "✗"); got != tt.wantCross {
				t.Errorf("failure marker present = %v, want %v in %q", got, tt.wantCross, out)
			}
		})
	}
}

func TestShowSpinner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var buf bytes.Buffer
	err := showSpinner(ctx, &buf, "waiting", func() error {
		<-release
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("showSpinner() error = %v, want context.Canceled", err)
	}
}

func TestSpinnerPlaceholder(t *testing.T) {
	state := NewAppState()
	state.Reset()

	placeholder := SpinnerPlaceholder("Checking session...")
	if err := placeholder(context.Background(), func() error { return state.Wait(context.Background()) }); err != nil {
		t.Errorf("placeholder error = %v", err)
	}
}

func TestPrintFunctions(t *testing.T) {
	tests := []struct {
		name  string
		print func(w *bytes.Buffer)
		want  string
	}{
		{"success", func(w *bytes.Buffer) { PrintSuccess(w, "Signed in") }, "Signed in\n"},
		{"error", func(w *bytes.Buffer) { PrintError(w, "Error: boom") }, "Error: boom\n"},
		{"info", func(w *bytes.Buffer) { PrintInfo(w, "Opening browser") }, "Opening browser\n"},
		{"warning", func(w *bytes.Buffer) { PrintWarning(w, "careful") }, "WARNING: careful\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf)
			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
