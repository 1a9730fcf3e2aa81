package export

import (
	"bytes"
	"testing"

	"github.com/manucho/restate/internal"
)

func testRows() []internal.Row {
	return []internal.Row{
		{"$id": "prop-2", "$createdAt": "2025-03-01T11:00:00.000+00:00", "name": "Villa | Sea View", "type": "Villa", "address": "2 Harbour Street", "price": float64(1200)},
		{"$id": "prop-1", "$createdAt": "2025-03-01T10:00:00.000+00:00", "name": "Flat", "type": "Apartment", "address": "1 Harbour Street", "price": float64(1100)},
	}
}

func testDetail() *internal.PropertyDetail {
	return &internal.PropertyDetail{
		Property: internal.Row{"$id": "prop-1", "name": "Flat", "type": "Apartment", "price": float64(1100), "agent": "agent-a"},
		Agent:    internal.Row{"$id": "agent-a", "name": "Alice Agent", "email": "agent-a@restate.example"},
		Reviews: []internal.Row{
			{"$id": "review-1", "name": "Reviewer 1", "review": "Lovely **light**"},
			{"$id": "review-2", "name": "Reviewer 2", "review": "Quiet street"},
		},
	}
}

func testIdentity() *internal.Identity {
	return &internal.Identity{
		ID:     "user-1",
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Avatar: "https://cloud.example.com/v1/avatars/initials?name=Ada+Lovelace&project=proj",
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantExt string
		wantErr bool
	}{
		{"jsonl", "jsonl", "jsonl", false},
		{"markdown short", "md", "md", false},
		{"markdown long", "markdown", "md", false},
		{"yaml", "yaml", "yaml", false},
		{"yml", "yml", "yaml", false},
		{"json", "json", "json", false},
		{"unsupported", "csv", "", true},
		{"table is not an exporter", "table", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := exporter.Extension(); got != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", got, tt.wantExt)
			}
		})
	}
}

func TestExporters_RejectUnknownValues(t *testing.T) {
	for _, format := range []string{"json", "jsonl", "yaml", "md"} {
		t.Run(format, func(t *testing.T) {
			exporter, err := NewExporter(format)
			if err != nil {
				t.Fatalf("NewExporter() error = %v", err)
			}
			var buf bytes.Buffer
			if err := exporter.Export(map[string]int{"x": 1}, &buf); err == nil {
				t.Error("Export() should reject an unknown value type")
			}
		})
	}
}
