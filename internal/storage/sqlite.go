package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// SQLiteStore persists the session and user cards in a local state file, the
// terminal counterpart of browser local storage.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the state database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// A single connection serializes writers; sqlite allows only one anyway.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping state db: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS session (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        token TEXT NOT NULL,
        email TEXT NOT NULL DEFAULT '',
        document_id TEXT NOT NULL DEFAULT '',
        file_name TEXT NOT NULL DEFAULT '',
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS user_cards (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT UNIQUE NOT NULL,
        document_id TEXT NOT NULL,
        front TEXT NOT NULL,
        back TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_user_cards_document ON user_cards (document_id, seq);
    `
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSession upserts the single session row.
func (s *SQLiteStore) SaveSession(sess *model.Session) error {
	_, err := s.db.Exec(`
        INSERT INTO session (id, token, email, document_id, file_name, updated_at)
        VALUES (1, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            token = excluded.token,
            email = excluded.email,
            document_id = excluded.document_id,
            file_name = excluded.file_name,
            updated_at = excluded.updated_at`,
		sess.Token, sess.Email, sess.DocumentID, sess.FileName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session or ErrNotFound.
func (s *SQLiteStore) LoadSession() (*model.Session, error) {
	var sess model.Session
	err := s.db.QueryRow(`SELECT token, email, document_id, file_name, updated_at FROM session WHERE id = 1`).
		Scan(&sess.Token, &sess.Email, &sess.DocumentID, &sess.FileName, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

// ClearSession deletes the session row.
func (s *SQLiteStore) ClearSession() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// AddCard inserts a card unless the document is at the cap. The count and the
// insert share a transaction, but the cap is still a soft, client-side limit.
func (s *SQLiteStore) AddCard(docID, front, back string) (*model.UserCard, error) {
	if err := validateCard(docID, front, back); err != nil {
		return nil, err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin add card: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM user_cards WHERE document_id = ?`, docID).Scan(&count); err != nil {
		return nil, fmt.Errorf("count cards: %w", err)
	}
	if count >= model.MaxUserCardsPerDocument {
		return nil, ErrCardLimit
	}
	card := model.UserCard{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Front:      front,
		Back:       back,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := tx.Exec(`INSERT INTO user_cards (id, document_id, front, back, created_at) VALUES (?, ?, ?, ?, ?)`,
		card.ID, card.DocumentID, card.Front, card.Back, card.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add card: %w", err)
	}
	return &card, nil
}

// ListCards returns the document's cards in insertion order.
func (s *SQLiteStore) ListCards(docID string) ([]model.UserCard, error) {
	rows, err := s.db.Query(`SELECT id, document_id, front, back, created_at FROM user_cards WHERE document_id = ? ORDER BY seq ASC`, docID)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	cards := []model.UserCard{}
	for rows.Next() {
		var c model.UserCard
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Front, &c.Back, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DeleteCard removes one card or returns ErrNotFound.
func (s *SQLiteStore) DeleteCard(docID, cardID string) error {
	res, err := s.db.Exec(`DELETE FROM user_cards WHERE document_id = ? AND id = ?`, docID, cardID)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Open picks the store for the configured state path: SQLite when a path is
// given, memory otherwise.
func Open(statePath string) (Store, error) {
	if statePath == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(statePath)
}
