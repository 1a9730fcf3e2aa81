package internal

import (
	"encoding/json"
)

// CreatedAtAttribute is the system attribute every row carries
const CreatedAtAttribute = "$createdAt"

// Query is one filter, sort or limit clause sent with a read request.
// It encodes to the backend's JSON form {"method","attribute","values"}.
type Query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

// OrderAsc sorts ascending on attr
func OrderAsc(attr string) Query {
	return Query{Method: "orderAsc", Attribute: attr}
}

// OrderDesc sorts descending on attr
func OrderDesc(attr string) Query {
	return Query{Method: "orderDesc", Attribute: attr}
}

// Equal matches rows whose attr equals any of values
func Equal(attr string, values ...interface{}) Query {
	return Query{Method: "equal", Attribute: attr, Values: values}
}

// Search runs a full-text match of term against attr
func Search(attr, term string) Query {
	return Query{Method: "search", Attribute: attr, Values: []interface{}{term}}
}

// Limit caps the number of rows returned
func Limit(n int) Query {
	return Query{Method: "limit", Values: []interface{}{n}}
}

// Or matches rows satisfying any of queries
func Or(queries ...Query) Query {
	values := make([]interface{}, len(queries))
	for i, q := range queries {
		values[i] = q
	}
	return Query{Method: "or", Values: values}
}

// String returns the wire encoding of q
func (q Query) String() string {
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(data)
}

// EncodeQueries returns the wire encoding of each clause, in order
func EncodeQueries(queries []Query) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		out = append(out, q.String())
	}
	return out
}
