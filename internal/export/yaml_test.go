package export

import (
	"bytes"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Rows(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(testRows(), &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0]["$id"] != "prop-2" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestYAMLExporter_Detail(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(testDetail(), &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\n%s", err, buf.String())
	}
	agent, ok := decoded["agent"].(map[string]interface{})
	if !ok || agent["name"] != "Alice Agent" {
		t.Errorf("agent = %v", decoded["agent"])
	}
	reviews, ok := decoded["reviews"].([]interface{})
	if !ok || len(reviews) != 2 {
		t.Errorf("reviews = %v", decoded["reviews"])
	}
}

func TestYAMLExporter_Identity(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLExporter{}).Export(testIdentity(), &buf); err != nil {
		t.Fatalf("YAMLExporter.Export() error = %v", err)
	}

	var decoded map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\n%s", err, buf.String())
	}
	if decoded["id"] != "user-1" || decoded["name"] != "Ada Lovelace" {
		t.Errorf("decoded = %v", decoded)
	}
}
