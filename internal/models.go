package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Row is one record of a table, keyed by attribute name. System
// attributes carry a "$" prefix ($id, $createdAt, $updatedAt).
type Row map[string]interface{}

// RowList is a page of rows plus the total matching count
type RowList struct {
	Total int   `json:"total"`
	Rows  []Row `json:"rows"`
}

// ID returns the row's $id
func (r Row) ID() string {
	return r.String("$id")
}

// CreatedAt returns the parsed $createdAt, or the zero time
func (r Row) CreatedAt() time.Time {
	s := r.String(CreatedAtAttribute)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// String returns field as a string; numbers and bools are formatted
func (r Row) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case json.Number:
		return v.String()
	case bool, int, int64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// Ref returns the id referenced by field. The backend may return either
// the bare id or the expanded related row.
func (r Row) Ref(field string) string {
	switch v := r[field].(type) {
	case string:
		return v
	case map[string]interface{}:
		return Row(v).ID()
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// PropertyDetail is a property joined with its agent and reviews
type PropertyDetail struct {
	Property Row
	Agent    Row
	Reviews  []Row
}

// Map merges the property's own fields with "agent" and "reviews"
func (d *PropertyDetail) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(d.Property)+2)
	for k, v := range d.Property {
		m[k] = v
	}
	reviews := d.Reviews
	if reviews == nil {
		reviews = []Row{}
	}
	m["reviews"] = reviews
	m["agent"] = d.Agent
	return m
}

// MarshalJSON flattens the detail into a single object
func (d *PropertyDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// MarshalYAML flattens the detail into a single mapping
func (d *PropertyDetail) MarshalYAML() (interface{}, error) {
	return d.Map(), nil
}
