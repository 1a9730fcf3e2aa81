package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/manucho/restate/internal"
)

// JSONLExporter exports results in JSONL format (one row per line)
type JSONLExporter struct{}

// Export writes each row on its own line; single values take one line
func (e *JSONLExporter) Export(v interface{}, w io.Writer) error {
	enc := json.NewEncoder(w)

	switch val := v.(type) {
	case []internal.Row:
		for _, row := range val {
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("failed to encode row %s: %w", row.ID(), err)
			}
		}
		return nil
	case *internal.PropertyDetail, *internal.Identity:
		return enc.Encode(val)
	default:
		return unsupported(v)
	}
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
