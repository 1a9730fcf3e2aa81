package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/manucho/restate/internal"
	"github.com/spf13/cobra"
)

var (
	listFilter   string
	listQuery    string
	listLimit    int
	listFulltext bool
	galleryLimit int
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var propertiesCmd = &cobra.Command{
	Use:     "properties",
	Aliases: []string{"props"},
	Short:   "List property listings",
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the five earliest listings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.gated(ctx, func(ctx context.Context) error {
				if _, err := a.requireLogin(ctx); err != nil {
					return err
				}
				rows, err := a.svc.GetLatestProperties(ctx)
				if err != nil {
					return err
				}
				return render(cmd, rows, func() { displayProperties(cmd.OutOrStdout(), rows) })
			})
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List listings, newest first",
	Long: `List property listings, newest first.

--filter narrows to one property type ("All" disables it). --query is a text
search over name, address and type; it is only sent to the backend together
with --fulltext.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listLimit < 0 {
			return fmt.Errorf("--limit must not be negative")
		}
		if listQuery != "" && !listFulltext {
			internal.PrintWarning(cmd.ErrOrStderr(), "--query is only sent to the backend with --fulltext")
		}
		q := internal.PropertyQuery{
			Filter:       listFilter,
			Query:        listQuery,
			Limit:        listLimit,
			AttachSearch: listFulltext,
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.gated(ctx, func(ctx context.Context) error {
				if _, err := a.requireLogin(ctx); err != nil {
					return err
				}
				rows, err := a.svc.GetProperties(ctx, q)
				if err != nil {
					return err
				}
				return render(cmd, rows, func() { displayProperties(cmd.OutOrStdout(), rows) })
			})
		})
	},
}

var galleriesCmd = &cobra.Command{
	Use:   "galleries",
	Short: "List gallery images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.gated(ctx, func(ctx context.Context) error {
				if _, err := a.requireLogin(ctx); err != nil {
					return err
				}
				rows, err := a.svc.GetGalleries(ctx, galleryLimit)
				if err != nil {
					return err
				}
				return render(cmd, rows, func() { displayGalleries(cmd.OutOrStdout(), rows) })
			})
		})
	},
}

func displayProperties(w io.Writer, rows []internal.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, headerStyle.Render("🏠 No properties found"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("🏠 Found %d propert%s", len(rows), plural(len(rows), "y", "ies"))))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Price")+"\t"+titleStyle.Render("Address")+"\t"+titleStyle.Render("Listed")+"\t")
	_, _ = fmt.Fprintln(tw, strings.Repeat("─", 100))

	for _, row := range rows {
		name := row.String("name")
		if name == "" {
			name = "Untitled"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(row.ID()),
			truncate(name, 40),
			typeStyle.Render(row.String("type")),
			priceStyle.Render(formatPrice(row.String("price"))),
			truncate(row.String("address"), 40),
			dateStyle.Render(formatListed(row.CreatedAt())),
		)
	}
	_ = tw.Flush()
}

func displayGalleries(w io.Writer, rows []internal.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, headerStyle.Render("🖼  No gallery images found"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("🖼  %d gallery image(s)", len(rows))))
	for _, row := range rows {
		fmt.Fprintf(w, "%s  %s\n", idStyle.Render(row.ID()), row.String("image"))
	}
}

func formatPrice(p string) string {
	if p == "" {
		return "—"
	}
	return "$" + p
}

// formatListed renders t relative to now
func formatListed(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Local().Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Local().Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Local().Format("Jan 02 15:04")
	default:
		return t.Local().Format("2006-01-02")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(galleriesCmd)
	propertiesCmd.AddCommand(latestCmd)
	propertiesCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFilter, "filter", internal.FilterAll, "Property type to show (All for every type)")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Text to search for in name, address and type")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum number of listings (0 for no limit)")
	listCmd.Flags().BoolVar(&listFulltext, "fulltext", false, "Send --query to the backend as a full-text search")
	galleriesCmd.Flags().IntVarP(&galleryLimit, "limit", "n", 0, "Maximum number of images (0 for no limit)")
}
