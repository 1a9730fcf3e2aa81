package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/manucho/restate/internal"
	"github.com/spf13/cobra"
)

var (
	healthcheckDetails bool
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, connectivity, session and table access",
	Long: `Check the health of restate by verifying:
  • Configuration is complete and valid
  • The backend endpoint answers
  • A session is stored and still accepted
  • Each of the four tables can be read

This command is useful for debugging setup issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, sectionStyle.Render("🔍 restate health check"))
		fmt.Fprintln(w)

		// Step 1: configuration
		fmt.Fprintln(w, stepStyle.Render("Step 1: Loading configuration..."))
		a, err := newApp(cmd)
		if err != nil {
			fmt.Fprintln(w, failStyle.Render("❌ Configuration is not usable:"), err)
			return err
		}
		defer a.Close()
		fmt.Fprintln(w, okStyle.Render("✅ Configuration is valid"))
		if healthcheckDetails {
			fmt.Fprintf(w, "   Backend:  %s\n", a.svc.Describe())
			fmt.Fprintf(w, "   Database: %s\n", a.cfg.DatabaseID)
			fmt.Fprintf(w, "   Sessions: %s\n", a.store.Path())
		}
		fmt.Fprintln(w)

		ctx := cmd.Context()

		// Step 2: stored session and identity
		fmt.Fprintln(w, stepStyle.Render("Step 2: Checking session..."))
		stored, err := a.store.Load(a.cfg.ProjectID)
		switch {
		case err != nil:
			fmt.Fprintln(w, warnStyle.Render("⚠️  Could not read stored session:"), err)
		case stored == nil:
			fmt.Fprintln(w, warnStyle.Render("⚠️  No stored session; run `restate login`"))
		default:
			fmt.Fprintln(w, okStyle.Render("✅ Stored session found"))
			if healthcheckDetails {
				fmt.Fprintf(w, "   Session: %s (user %s, since %s)\n", stored.ID, stored.UserID, stored.CreatedAt.Format("2006-01-02 15:04"))
			}
		}

		user, err := a.svc.GetCurrentUser(ctx)
		switch {
		case err != nil:
			fmt.Fprintln(w, failStyle.Render("❌ Backend unreachable:"), err)
			return err
		case user == nil:
			fmt.Fprintln(w, warnStyle.Render("⚠️  Backend reachable, but not signed in"))
		default:
			fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("✅ Signed in as %s", user.Name)))
		}
		fmt.Fprintln(w)

		// Step 3: tables
		fmt.Fprintln(w, stepStyle.Render("Step 3: Checking tables..."))
		failed := checkTables(ctx, w, a)
		fmt.Fprintln(w)

		switch {
		case failed > 0:
			fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("❌ %d table(s) could not be read", failed)))
			return fmt.Errorf("%d table(s) could not be read", failed)
		case user == nil:
			fmt.Fprintln(w, warnStyle.Render("⚠️  Healthy, but signed out"))
		default:
			fmt.Fprintln(w, okStyle.Render("✅ All checks passed"))
		}
		return nil
	},
}

func checkTables(ctx context.Context, w io.Writer, a *app) int {
	tables := []struct {
		label string
		id    string
	}{
		{"properties", a.cfg.Tables.Properties},
		{"agents", a.cfg.Tables.Agents},
		{"reviews", a.cfg.Tables.Reviews},
		{"galleries", a.cfg.Tables.Galleries},
	}

	failed := 0
	for _, t := range tables {
		total, err := a.svc.ProbeTable(ctx, t.id)
		switch {
		case internal.IsAuth(err):
			fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("⚠️  %s: not readable without signing in", t.label)))
		case err != nil:
			fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("❌ %s:", t.label)), err)
			failed++
		default:
			fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("✅ %s: %d row(s)", t.label, total)))
		}
	}
	return failed
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed information")
}
