package internal

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
)

// BrowserOpener opens url in the user's browser
type BrowserOpener func(url string) error

func init() {
	// launcher chatter must not mix with command output
	browser.Stdout = os.Stderr
}

// OpenBrowser hands url to the platform's URL handler
func OpenBrowser(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
