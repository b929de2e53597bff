package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// GenerateQuiz requests a quiz at the given difficulty.
func (c *Client) GenerateQuiz(ctx context.Context, docID, difficulty string) (*model.Quiz, error) {
	path, err := docPath(docID, "/quiz/generate")
	if err != nil {
		return nil, err
	}
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}
	var out model.Quiz
	body := map[string]string{"difficulty": difficulty}
	if err := c.doJSON(ctx, http.MethodPost, path, body, authRequired, "Failed to generate quiz", &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("response missing quiz_id")
	}
	return &out, nil
}

// SubmitQuiz sends the selected answer indices as one batch.
func (c *Client) SubmitQuiz(ctx context.Context, quizID string, answers []int) (*model.QuizResult, error) {
	if quizID == "" {
		return nil, errors.New("submit quiz: missing quiz id")
	}
	var out model.QuizResult
	body := map[string][]int{"answers": answers}
	if err := c.doJSON(ctx, http.MethodPost, "/documents/quiz/"+url.PathEscape(quizID)+"/submit", body, authRequired, "Failed to submit quiz", &out); err != nil {
		return nil, err
	}
	if out.QuizID == "" {
		out.QuizID = quizID
	}
	return &out, nil
}
