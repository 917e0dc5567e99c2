// README: Chat history persistence; embedded sqlite, one row per message.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("history: session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	intent     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);
`

// Session is one conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one turn in a session; Role is "user" or "assistant". Intent
// records how the question was classified, empty on user turns.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions and messages in a local sqlite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// WAL for concurrent readers while a question is being recorded.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSession starts a new conversation thread.
func (s *Store) CreateSession(ctx context.Context, title string) (Session, error) {
	sess := Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, created_at) VALUES (?, ?, ?)`,
		sess.ID, sess.Title, sess.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// GetSession looks up one session by id.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Title, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// AppendMessage records one turn at the end of a session.
func (s *Store) AppendMessage(ctx context.Context, sessionID, role, content, intent string) (Message, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return Message{}, err
	}
	msg := Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Intent:    intent,
		CreatedAt: time.Now().UTC(),
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, intent, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.SessionID, msg.Role, msg.Content, msg.Intent, msg.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	msg.ID, err = result.LastInsertId()
	if err != nil {
		return Message{}, fmt.Errorf("append message id: %w", err)
	}
	return msg, nil
}

// Messages returns every turn of a session in insertion order.
func (s *Store) Messages(ctx context.Context, sessionID string) ([]Message, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, intent, created_at
		 FROM messages WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.Intent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
