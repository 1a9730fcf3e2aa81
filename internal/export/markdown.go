package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/manucho/restate/internal"
)

// propertyColumns are the leading columns of a property table
var propertyColumns = []string{"name", "type", "address", "price"}

// MarkdownExporter exports results in Markdown format
type MarkdownExporter struct{}

// Export writes rows as a table, a property detail as sections and an
// identity as a short profile
func (e *MarkdownExporter) Export(v interface{}, w io.Writer) error {
	switch val := v.(type) {
	case []internal.Row:
		writeRowTable(w, val)
	case *internal.PropertyDetail:
		writeDetail(w, val)
	case *internal.Identity:
		_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(val.Name))
		_, _ = fmt.Fprintf(w, "**ID:** %s  \n", val.ID)
		if val.Email != "" {
			_, _ = fmt.Fprintf(w, "**Email:** %s  \n", val.Email)
		}
		if val.Avatar != "" {
			_, _ = fmt.Fprintf(w, "\n![avatar](%s)\n", val.Avatar)
		}
	default:
		return unsupported(v)
	}
	return nil
}

func writeRowTable(w io.Writer, rows []internal.Row) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(w, "_No results_\n")
		return
	}
	cols := append([]string{"$id"}, propertyColumns...)
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	_, _ = fmt.Fprintf(w, "|%s\n", strings.Repeat(" --- |", len(cols)))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = escapeCell(row.String(c))
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

func writeDetail(w io.Writer, d *internal.PropertyDetail) {
	name := d.Property.String("name")
	if name == "" {
		name = d.Property.ID()
	}
	_, _ = fmt.Fprintf(w, "# %s\n\n", escapeMarkdown(name))
	writeFields(w, d.Property)

	_, _ = fmt.Fprintf(w, "\n## Agent\n\n")
	if d.Agent == nil {
		_, _ = fmt.Fprintf(w, "_None_\n")
	} else {
		writeFields(w, d.Agent)
	}

	_, _ = fmt.Fprintf(w, "\n## Reviews (%d)\n\n", len(d.Reviews))
	for i, review := range d.Reviews {
		author := review.String("name")
		if author == "" {
			author = review.ID()
		}
		_, _ = fmt.Fprintf(w, "**%s:** %s\n\n", escapeMarkdown(author), escapeMarkdown(review.String("review")))
		if i < len(d.Reviews)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
}

// writeFields lists scalar fields in name order; system and nested fields are skipped
func writeFields(w io.Writer, row internal.Row) {
	keys := make([]string, 0, len(row))
	for k, v := range row {
		if strings.HasPrefix(k, "$") {
			continue
		}
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	_, _ = fmt.Fprintf(w, "**ID:** %s  \n", row.ID())
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "**%s:** %s  \n", k, escapeMarkdown(row.String(k)))
	}
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	inCodeBlock := false

	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		line = strings.ReplaceAll(line, "**", "\\*\\*")
		line = strings.ReplaceAll(line, "__", "\\_\\_")
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
