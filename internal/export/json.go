package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports results as pretty-printed JSON
type JSONExporter struct{}

// Export writes v as a single indented JSON document
func (e *JSONExporter) Export(v interface{}, w io.Writer) error {
	if err := checkExportable(v); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
