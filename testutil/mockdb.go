package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

const (
	TestProjectID       = "restate-test"
	TestDatabaseID      = "restate-db"
	TestGalleriesTable  = "galleries"
	TestReviewsTable    = "reviews"
	TestAgentsTable     = "agents"
	TestPropertiesTable = "properties"

	TestUserID        = "user-1"
	TestSecret        = "oauth-secret"
	TestSessionID     = "session-1"
	TestSessionCookie = `{"a_session_restate-test":"cookie-1"}`
)

// RecordedRequest is one request received by MockBackend
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Queries returns the raw queries[] parameters in order
func (r RecordedRequest) Queries() []string {
	return r.Query["queries[]"]
}

// MockBackend is an in-process stand-in for the backend's REST API. It
// serves account, session and table routes and records every request.
type MockBackend struct {
	Server *httptest.Server

	mu         sync.Mutex
	tables     map[string][]map[string]interface{}
	user       map[string]interface{}
	requests   []RecordedRequest
	failStatus int
	failPaths  map[string]int
}

// NewMockBackend starts a backend that is closed when the test ends
func NewMockBackend(t *testing.T) *MockBackend {
	t.Helper()
	m := &MockBackend{
		tables:    make(map[string][]map[string]interface{}),
		failPaths: make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(m.record)
	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/account", m.handleAccount).Methods(http.MethodGet)
	api.HandleFunc("/account/sessions/token", m.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/account/sessions/{session}", m.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/tablesdb/{db}/tables/{table}/rows", m.handleListRows).Methods(http.MethodGet)
	api.HandleFunc("/tablesdb/{db}/tables/{table}/rows/{row}", m.handleGetRow).Methods(http.MethodGet)

	m.Server = httptest.NewServer(r)
	t.Cleanup(m.Server.Close)
	return m
}

// Endpoint returns the API base URL
func (m *MockBackend) Endpoint() string {
	return m.Server.URL + "/v1"
}

// Env returns the environment that points a config at this backend
func (m *MockBackend) Env() map[string]string {
	return map[string]string{
		"APPWRITE_ENDPOINT":            m.Endpoint(),
		"APPWRITE_PROJECT_ID":          TestProjectID,
		"APPWRITE_DATABASE_ID":         TestDatabaseID,
		"APPWRITE_GALLERIES_TABLE_ID":  TestGalleriesTable,
		"APPWRITE_REVIEWS_TABLE_ID":    TestReviewsTable,
		"APPWRITE_AGENTS_TABLE_ID":     TestAgentsTable,
		"APPWRITE_PROPERTIES_TABLE_ID": TestPropertiesTable,
	}
}

// Getenv looks keys up in Env
func (m *MockBackend) Getenv(key string) string {
	return m.Env()[key]
}

// AddRows appends rows to table
func (m *MockBackend) AddRows(table string, rows ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = append(m.tables[table], rows...)
}

// SetUser sets the account returned to a signed-in client; nil means none
func (m *MockBackend) SetUser(user map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}

// FailWith makes every request fail with status; 0 restores normal service
func (m *MockBackend) FailWith(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStatus = status
}

// FailPath makes requests to path fail with status; 0 restores it
func (m *MockBackend) FailPath(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == 0 {
		delete(m.failPaths, path)
		return
	}
	m.failPaths[path] = status
}

// Requests returns a copy of every recorded request
func (m *MockBackend) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestsTo returns the recorded requests matching method and path
func (m *MockBackend) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range m.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// LastRequest returns the most recent request, or a zero value
func (m *MockBackend) LastRequest() RecordedRequest {
	reqs := m.Requests()
	if len(reqs) == 0 {
		return RecordedRequest{}
	}
	return reqs[len(reqs)-1]
}

func (m *MockBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		m.mu.Lock()
		m.requests = append(m.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		status := m.failStatus
		if s, ok := m.failPaths[r.URL.Path]; ok {
			status = s
		}
		m.mu.Unlock()

		if status != 0 {
			writeError(w, status, "general_server_error", "Injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, typ, message string) {
	writeJSON(w, status, map[string]interface{}{
		"message": message,
		"code":    status,
		"type":    typ,
		"version": "1.8.0",
	})
}

func signedIn(r *http.Request) bool {
	return r.Header.Get("X-Fallback-Cookies") == TestSessionCookie
}

func (m *MockBackend) handleAccount(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()

	if !signedIn(r) || user == nil {
		writeError(w, http.StatusUnauthorized, "general_unauthorized_scope", "User (role: guests) missing scopes ([\"account\"])")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (m *MockBackend) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Secret string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "general_argument_invalid", "Invalid body")
		return
	}
	if body.UserID != TestUserID || body.Secret != TestSecret {
		writeError(w, http.StatusUnauthorized, "user_invalid_token", "Invalid token passed in the request.")
		return
	}
	w.Header().Set("X-Fallback-Cookies", TestSessionCookie)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"$id":      TestSessionID,
		"userId":   body.UserID,
		"provider": "oauth2",
		"expire":   "2099-01-01T00:00:00.000+00:00",
	})
}

func (m *MockBackend) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !signedIn(r) {
		writeError(w, http.StatusUnauthorized, "general_unauthorized_scope", "User (role: guests) missing scopes ([\"account\"])")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (m *MockBackend) table(w http.ResponseWriter, r *http.Request) ([]map[string]interface{}, bool) {
	vars := mux.Vars(r)
	if vars["db"] != TestDatabaseID {
		writeError(w, http.StatusNotFound, "database_not_found", "Database not found")
		return nil, false
	}
	m.mu.Lock()
	rows, ok := m.tables[vars["table"]]
	m.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "table_not_found", "Table with the requested ID could not be found.")
		return nil, false
	}
	return rows, true
}

func (m *MockBackend) handleGetRow(w http.ResponseWriter, r *http.Request) {
	rows, ok := m.table(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["row"]
	for _, row := range rows {
		if row["$id"] == id {
			writeJSON(w, http.StatusOK, row)
			return
		}
	}
	writeError(w, http.StatusNotFound, "row_not_found", "Row with the requested ID could not be found.")
}

func (m *MockBackend) handleListRows(w http.ResponseWriter, r *http.Request) {
	rows, ok := m.table(w, r)
	if !ok {
		return
	}
	queries, err := parseQueries(r.URL.Query()["queries[]"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "general_query_invalid", err.Error())
		return
	}

	matched := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, q := range queries {
			if q.isFilter() && !q.matches(row) {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, row)
		}
	}

	total := len(matched)
	limit := -1
	for _, q := range queries {
		switch q.Method {
		case "orderAsc", "orderDesc":
			attr, desc := q.Attribute, q.Method == "orderDesc"
			sort.SliceStable(matched, func(i, j int) bool {
				a, b := fmt.Sprint(matched[i][attr]), fmt.Sprint(matched[j][attr])
				if desc {
					return a > b
				}
				return a < b
			})
		case "limit":
			if len(q.Values) == 1 {
				if n, ok := q.Values[0].(float64); ok {
					limit = int(n)
				}
			}
		}
	}
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"total": total, "rows": matched})
}

// Query is the decoded form of one queries[] parameter
type Query struct {
	Method    string        `json:"method"`
	Attribute string        `json:"attribute,omitempty"`
	Values    []interface{} `json:"values,omitempty"`
}

func parseQueries(raw []string) ([]Query, error) {
	out := make([]Query, 0, len(raw))
	for _, s := range raw {
		var q Query
		if err := json.Unmarshal([]byte(s), &q); err != nil {
			return nil, fmt.Errorf("invalid query %q: %w", s, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func (q Query) isFilter() bool {
	switch q.Method {
	case "equal", "search", "or":
		return true
	}
	return false
}

func (q Query) matches(row map[string]interface{}) bool {
	switch q.Method {
	case "equal":
		got := fmt.Sprint(row[q.Attribute])
		for _, v := range q.Values {
			if fmt.Sprint(v) == got {
				return true
			}
		}
		return false
	case "search":
		if len(q.Values) == 0 {
			return false
		}
		term := strings.ToLower(fmt.Sprint(q.Values[0]))
		return strings.Contains(strings.ToLower(fmt.Sprint(row[q.Attribute])), term)
	case "or":
		for _, v := range q.Values {
			data, _ := json.Marshal(v)
			var sub Query
			if json.Unmarshal(data, &sub) == nil && sub.matches(row) {
				return true
			}
		}
		return false
	}
	return true
}
