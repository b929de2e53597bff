// Package model contains the data-transfer records exchanged with the AkademIQ
// backend. Struct tags such as `json:"document_id"` keep field names aligned
// with the backend's snake_case JSON.
package model

import (
	"time"
)

// CardStatus tags a generated flashcard. In Go a type declared via
// "type X string" creates a named type, so a plain string cannot be passed
// where a CardStatus is expected without a conversion.
type CardStatus string

const (
	StatusNew      CardStatus = "new"
	StatusLater    CardStatus = "later"
	StatusMastered CardStatus = "mastered"
)

// Valid reports whether s is one of the statuses the backend accepts.
func (s CardStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLater, StatusMastered:
		return true
	}
	return false
}

// Session is the credential plus the document the user is currently working
// on. It is handed down to every panel.
type Session struct {
	Token      string    `json:"token"`
	Email      string    `json:"email,omitempty"`
	DocumentID string    `json:"documentId,omitempty"`
	FileName   string    `json:"fileName,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Authenticated reports whether a bearer token is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Document references an uploaded PDF. The ID is opaque to the client.
type Document struct {
	ID        string    `json:"id"`
	FileName  string    `json:"filename,omitempty"`
	PageCount int       `json:"page_count,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UploadResult is returned by POST /documents/upload.
type UploadResult struct {
	DocumentID string `json:"document_id"`
	PageCount  int    `json:"page_count"`
}

// Flashcard is a backend-generated question/answer pair.
type Flashcard struct {
	ID       string     `json:"id"`
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Status   CardStatus `json:"status"`
}

// UserCard is a card authored locally by the user. Cards are kept in
// insertion order per document.
type UserCard struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	CreatedAt  time.Time `json:"createdAt"`
}

// MaxUserCardsPerDocument is the soft cap on user-authored cards.
const MaxUserCardsPerDocument = 20

// Explanation is the response of POST /documents/{id}/explain.
type Explanation struct {
	Style   string `json:"style"`
	Content string `json:"content"`
}

// Explanation styles understood by the backend.
const (
	StyleLayman    = "layman"
	StyleProfessor = "professor"
	StyleIndustry  = "industry"
)

// Difficulty levels shared by flashcard and quiz generation.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)
