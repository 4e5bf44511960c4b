// Package session persists the viewer's local identity and last-known tip
// ratings between runs. The service is the source of truth for ratings; the
// local copy only seeds the UI before the first fetch completes.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const anonymousIDKey = "anonymous_id"

// Store is a single-connection SQLite store. All methods are safe for
// concurrent use; the connection itself is not, so every access holds mu.
type Store struct {
	mu     sync.Mutex
	conn   *sqlite.Conn
	logger *zap.Logger
}

// Open creates the state directory if needed and opens the session database
// inside it.
func Open(stateDir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	conn, err := sqlite.OpenConn(filepath.Join(stateDir, "session.db"), sqlite.OpenCreate|sqlite.OpenReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	s := &Store{conn: conn, logger: logger.Named("session")}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tip_ratings (
			tip_id TEXT PRIMARY KEY,
			rating INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if err := sqlitex.Execute(s.conn, stmt, nil); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.Close()
}

// Identity returns the id that identifies this viewer to the service. An
// authenticated user id wins; otherwise a random id is generated on first
// call and reused for every later run, so anonymous ratings and votes stay
// attached to the same viewer.
func (s *Store) Identity(authUserID string) (string, error) {
	if authUserID != "" {
		return authUserID, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getValue(anonymousIDKey)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}

	id := uuid.New().String()
	err = sqlitex.Execute(s.conn, "INSERT INTO session (key, value) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{anonymousIDKey, id},
	})
	if err != nil {
		return "", fmt.Errorf("failed to store anonymous id: %w", err)
	}

	s.logger.Debug("Generated anonymous viewer id", zap.String("id", id))

	return id, nil
}

func (s *Store) getValue(key string) (string, error) {
	var value string
	err := sqlitex.Execute(s.conn, "SELECT value FROM session WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to read session value: %w", err)
	}

	return value, nil
}

// SaveRating records the viewer's committed rating for a tip, overwriting
// any previous value.
func (s *Store) SaveRating(tipID string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn,
		"INSERT INTO tip_ratings (tip_id, rating) VALUES (?, ?) ON CONFLICT(tip_id) DO UPDATE SET rating = excluded.rating",
		&sqlitex.ExecOptions{Args: []any{tipID, rating}})
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}

	return nil
}

// Ratings returns all locally recorded ratings keyed by tip id.
func (s *Store) Ratings() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ratings := make(map[string]int)
	err := sqlitex.Execute(s.conn, "SELECT tip_id, rating FROM tip_ratings", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ratings[stmt.ColumnText(0)] = stmt.ColumnInt(1)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}

	return ratings, nil
}

// Reset clears the stored identity and ratings. The next Identity call
// produces a fresh anonymous id.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []string{"DELETE FROM session", "DELETE FROM tip_ratings"} {
		if err := sqlitex.Execute(s.conn, stmt, nil); err != nil {
			return fmt.Errorf("failed to reset session: %w", err)
		}
	}

	return nil
}
