package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/manucho/restate/internal"
	"github.com/spf13/cobra"
)

var (
	loginProvider     string
	loginCallbackAddr string
)

var (
	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with Google in your browser",
	Long: `Open the Google sign-in page (or another --provider) in your browser and
wait for it to redirect back to a temporary local address. The resulting
session is saved so later commands stay signed in until you run
"restate logout".

The backend only redirects to registered hosts: add a Web platform with
hostname 127.0.0.1 to the project (or the host of --callback-addr),
otherwise the sign-in page rejects the redirect URLs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd,
			internal.WithOAuthProvider(loginProvider),
			internal.WithCallbackAddr(loginCallbackAddr),
		)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.gated(cmd.Context(), func(ctx context.Context) error {
			if user, err := a.requireLogin(ctx); err == nil {
				internal.PrintInfo(cmd.OutOrStdout(), fmt.Sprintf("Already signed in as %s", user.Name))
				return nil
			}

			if !a.svc.Login(ctx) {
				return errors.New("login failed; run with --verbose for details")
			}
			name := "you"
			if user := a.state.User(); user != nil {
				name = user.Name
			}
			internal.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Signed in as %s", name))
			return nil
		})
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if !a.svc.Logout(ctx) {
				return errors.New("logout failed; run with --verbose for details")
			}
			internal.PrintSuccess(cmd.OutOrStdout(), "Signed out")
			return nil
		})
	},
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.gated(ctx, func(ctx context.Context) error {
				user, err := a.requireLogin(ctx)
				if err != nil {
					return err
				}
				return render(cmd, user, func() { displayIdentity(cmd, user) })
			})
		})
	},
}

func displayIdentity(cmd *cobra.Command, user *internal.Identity) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, nameStyle.Render(user.Name))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("ID:    "), user.ID)
	if user.Email != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Email: "), user.Email)
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Avatar:"), user.Avatar)
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginProvider, "provider", internal.DefaultOAuthProvider, "OAuth2 identity provider")
	loginCmd.Flags().StringVar(&loginCallbackAddr, "callback-addr", "127.0.0.1:0", "Loopback address that receives the browser redirect")
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
