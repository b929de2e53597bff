// Package storage keeps the local session and the user-authored flashcards.
// Two implementations share the Store interface: MemoryStore lives for the
// process lifetime and SQLiteStore survives restarts.
package storage

import (
	"errors"
	"strings"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

var (
	// ErrNotFound is returned when a session or card does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCardLimit is returned when a document already holds the maximum
	// number of user-authored cards.
	ErrCardLimit = errors.New("card limit reached")
	// ErrEmptyCard is returned when the front or back of a card is blank.
	ErrEmptyCard = errors.New("card front and back are required")
)

// Store persists the session credential and user-authored cards.
type Store interface {
	SaveSession(sess *model.Session) error
	LoadSession() (*model.Session, error)
	ClearSession() error

	AddCard(docID, front, back string) (*model.UserCard, error)
	ListCards(docID string) ([]model.UserCard, error)
	DeleteCard(docID, cardID string) error

	Close() error
}

func validateCard(docID, front, back string) error {
	if strings.TrimSpace(docID) == "" {
		return errors.New("missing document id")
	}
	if strings.TrimSpace(front) == "" || strings.TrimSpace(back) == "" {
		return ErrEmptyCard
	}
	return nil
}
