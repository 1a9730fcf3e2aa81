package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLExporter exports results in YAML format
type YAMLExporter struct{}

// Export writes v as a YAML document
func (e *YAMLExporter) Export(v interface{}, w io.Writer) error {
	if err := checkExportable(v); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(v)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
