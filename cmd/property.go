package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manucho/restate/internal"
	"github.com/spf13/cobra"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Underline(true).
			MarginTop(1)

	reviewerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	reviewStyle = lipgloss.NewStyle().
			Padding(0, 2)
)

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Inspect a single listing",
}

// propertyShowCmd represents the property show command
var propertyShowCmd = &cobra.Command{
	Use:   "show <property-id>",
	Short: "Show a listing with its agent and reviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return a.gated(ctx, func(ctx context.Context) error {
				if _, err := a.requireLogin(ctx); err != nil {
					return err
				}
				detail, err := a.svc.GetPropertyByID(ctx, id)
				if err != nil {
					if internal.IsNotFound(err) {
						return fmt.Errorf("property %s not found", id)
					}
					return err
				}
				return render(cmd, detail, func() { displayPropertyDetail(cmd.OutOrStdout(), detail) })
			})
		})
	},
}

func displayPropertyDetail(w io.Writer, d *internal.PropertyDetail) {
	name := d.Property.String("name")
	if name == "" {
		name = d.Property.ID()
	}
	fmt.Fprintln(w, nameStyle.Render(name))
	fmt.Fprintln(w, idStyle.Render(d.Property.ID()))
	displayFields(w, d.Property)

	fmt.Fprintln(w, sectionStyle.Render("Agent"))
	if d.Agent == nil {
		fmt.Fprintln(w, dateStyle.Render("—"))
	} else {
		displayFields(w, d.Agent)
	}

	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Reviews (%d)", len(d.Reviews))))
	for _, review := range d.Reviews {
		author := review.String("name")
		if author == "" {
			author = review.ID()
		}
		fmt.Fprintln(w, reviewerStyle.Render(author))
		fmt.Fprintln(w, reviewStyle.Render(review.String("review")))
	}
}

// displayFields prints scalar, non-system fields in name order
func displayFields(w io.Writer, row internal.Row) {
	keys := make([]string, 0, len(row))
	width := 0
	for k, v := range row {
		if strings.HasPrefix(k, "$") {
			continue
		}
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-*s", width+1, k+":")), row.String(k))
	}
}

func init() {
	rootCmd.AddCommand(propertyCmd)
	propertyCmd.AddCommand(propertyShowCmd)
}
