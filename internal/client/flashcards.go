package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// DefaultFlashcardCount is how many cards a generate request asks for.
const DefaultFlashcardCount = 8

type flashcardList struct {
	Flashcards []model.Flashcard `json:"flashcards"`
}

// GenerateFlashcards asks the backend to produce count cards at difficulty.
func (c *Client) GenerateFlashcards(ctx context.Context, docID string, count int, difficulty string) ([]model.Flashcard, error) {
	path, err := docPath(docID, "/flashcards/generate")
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultFlashcardCount
	}
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}
	body := map[string]interface{}{"count": count, "difficulty": difficulty}
	var out flashcardList
	if err := c.doJSON(ctx, http.MethodPost, path, body, authOptional, "Failed", &out); err != nil {
		return nil, err
	}
	return out.Flashcards, nil
}

// ListFlashcards fetches the cards already generated for a document.
func (c *Client) ListFlashcards(ctx context.Context, docID string) ([]model.Flashcard, error) {
	path, err := docPath(docID, "/flashcards")
	if err != nil {
		return nil, err
	}
	var out flashcardList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, authOptional, "Failed", &out); err != nil {
		return nil, err
	}
	return out.Flashcards, nil
}

// DeleteFlashcard removes one generated card.
func (c *Client) DeleteFlashcard(ctx context.Context, docID, cardID string) error {
	if cardID == "" {
		return fmt.Errorf("delete flashcard: missing card id")
	}
	path, err := docPath(docID, "/flashcards/", url.PathEscape(cardID))
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, authOptional, "Failed to delete flashcard", nil)
}

// UpdateFlashcardStatus sets a card's study tag.
func (c *Client) UpdateFlashcardStatus(ctx context.Context, cardID string, status model.CardStatus) (*model.Flashcard, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	if cardID == "" {
		return nil, fmt.Errorf("update flashcard: missing card id")
	}
	var out model.Flashcard
	body := map[string]string{"status": string(status)}
	if err := c.doJSON(ctx, http.MethodPatch, "/documents/flashcards/"+url.PathEscape(cardID), body, authOptional, "Failed to update flashcard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
