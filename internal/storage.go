package internal

import (
	"database/sql"
	"errors"
	"time"
)

// SessionStore persists the session credential between invocations
type SessionStore interface {
	Load(projectID string) (*Session, error)
	Save(session *Session) error
	Delete(projectID string) error
}

// SQLiteSessionStore keeps one session per project in SQLite
type SQLiteSessionStore struct {
	db   *sql.DB
	path string
}

// OpenSessionStore opens the store at path
func OpenSessionStore(path string) (*SQLiteSessionStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StoreError{Path: path, Op: "open", Err: err}
	}
	return &SQLiteSessionStore{db: db, path: path}, nil
}

// Path returns the database location
func (s *SQLiteSessionStore) Path() string {
	return s.path
}

// Load returns the stored session for projectID, or nil if there is none
func (s *SQLiteSessionStore) Load(projectID string) (*Session, error) {
	row := s.db.QueryRow(
		"SELECT session_id, user_id, provider, expire, cookie, created_at FROM sessions WHERE project_id = ?",
		projectID,
	)

	sess := Session{ProjectID: projectID}
	var created int64
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Provider, &sess.Expire, &sess.Cookie, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Path: s.path, Op: "load", Err: err}
	}
	sess.CreatedAt = time.Unix(created, 0)
	return &sess, nil
}

// Save replaces the stored session for the session's project
func (s *SQLiteSessionStore) Save(session *Session) error {
	created := session.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions (project_id, session_id, user_id, provider, expire, cookie, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET
		   session_id = excluded.session_id,
		   user_id    = excluded.user_id,
		   provider   = excluded.provider,
		   expire     = excluded.expire,
		   cookie     = excluded.cookie,
		   created_at = excluded.created_at`,
		session.ProjectID, session.ID, session.UserID, session.Provider, session.Expire, session.Cookie, created.Unix(),
	)
	if err != nil {
		return &StoreError{Path: s.path, Op: "save", Err: err}
	}
	return nil
}

// Delete forgets the session for projectID; deleting nothing is not an error
func (s *SQLiteSessionStore) Delete(projectID string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE project_id = ?", projectID); err != nil {
		return &StoreError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}
