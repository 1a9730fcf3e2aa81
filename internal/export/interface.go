package export

import (
	"fmt"
	"io"

	"github.com/manucho/restate/internal"
)

// Exporter renders query results. Export accepts []internal.Row,
// *internal.PropertyDetail or *internal.Identity.
type Exporter interface {
	Export(v interface{}, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

func unsupported(v interface{}) error {
	return fmt.Errorf("cannot export value of type %T", v)
}

// checkExportable rejects values the exporters do not know how to render
func checkExportable(v interface{}) error {
	switch v.(type) {
	case []internal.Row, *internal.PropertyDetail, *internal.Identity:
		return nil
	default:
		return unsupported(v)
	}
}
