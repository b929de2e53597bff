// Package repository records study activity in the Postgres journal.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ArtifactStatus is the outcome of one generation request.
type ArtifactStatus string

const (
	ArtifactCompleted ArtifactStatus = "completed"
	ArtifactFailed    ArtifactStatus = "failed"
)

// Artifact is a generated output (or failed attempt) for a document.
type Artifact struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"documentId"`
	Kind         string          `json:"kind"`
	Status       ArtifactStatus  `json:"status"`
	Summary      string          `json:"summary"`
	Content      json.RawMessage `json:"content,omitempty"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// QuizAttempt is one graded quiz.
type QuizAttempt struct {
	ID         string    `json:"id"`
	QuizID     string    `json:"quizId"`
	DocumentID string    `json:"documentId"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FocusSession is one finished Pomodoro session.
type FocusSession struct {
	ID             string        `json:"id"`
	Kind           string        `json:"kind"`
	Duration       time.Duration `json:"duration"`
	CompletedCount int           `json:"completedCount"`
	FinishedAt     time.Time     `json:"finishedAt"`
}

// JournalRepository wraps all SQL used by the CLI and the worker.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository constructs a repository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// RecordArtifact inserts an artifact row, filling ID and CreatedAt.
func (r *JournalRepository) RecordArtifact(ctx context.Context, a *Artifact) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	var content any
	if len(a.Content) > 0 {
		content = string(a.Content)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO artifacts (id, document_id, kind, status, summary, content, error_message, created_at)
		VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7,$8)
	`, a.ID, a.DocumentID, a.Kind, a.Status, a.Summary, content, a.ErrorMessage, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// RecordQuizAttempt inserts a graded quiz.
func (r *JournalRepository) RecordQuizAttempt(ctx context.Context, q *QuizAttempt) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quiz_attempts (id, quiz_id, document_id, difficulty, score, total, percentage, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, q.ID, q.QuizID, q.DocumentID, q.Difficulty, q.Score, q.Total, q.Percentage, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quiz attempt: %w", err)
	}
	return nil
}

// RecordFocusSession inserts a finished timer session.
func (r *JournalRepository) RecordFocusSession(ctx context.Context, f *FocusSession) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.FinishedAt.IsZero() {
		f.FinishedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO focus_sessions (id, kind, duration_seconds, completed_count, finished_at)
		VALUES ($1,$2,$3,$4,$5)
	`, f.ID, f.Kind, int(f.Duration/time.Second), f.CompletedCount, f.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert focus session: %w", err)
	}
	return nil
}

// RecentQuizAttempts returns the newest attempts first.
func (r *JournalRepository) RecentQuizAttempts(ctx context.Context, limit int) ([]QuizAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quiz_id, document_id, difficulty, score, total, percentage, created_at
		FROM quiz_attempts ORDER BY created_at DESC LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("select quiz attempts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (QuizAttempt, error) {
		var q QuizAttempt
		err := row.Scan(&q.ID, &q.QuizID, &q.DocumentID, &q.Difficulty, &q.Score, &q.Total, &q.Percentage, &q.CreatedAt)
		return q, err
	})
}

// RecentArtifacts returns the newest artifacts first, optionally for one
// document.
func (r *JournalRepository) RecentArtifacts(ctx context.Context, documentID string, limit int) ([]Artifact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, kind, status, summary, error_message, created_at
		FROM artifacts WHERE ($1::text = '' OR document_id = $1)
		ORDER BY created_at DESC LIMIT $2
	`, documentID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("select artifacts: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Artifact, error) {
		var (
			a        Artifact
			errorMsg sql.NullString
		)
		if err := row.Scan(&a.ID, &a.DocumentID, &a.Kind, &a.Status, &a.Summary, &errorMsg, &a.CreatedAt); err != nil {
			return a, err
		}
		if errorMsg.Valid {
			msg := errorMsg.String
			a.ErrorMessage = &msg
		}
		return a, nil
	})
}

// FocusTotals sums finished work sessions since the given time.
func (r *JournalRepository) FocusTotals(ctx context.Context, since time.Time) (sessions int, focused time.Duration, err error) {
	var secs int64
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_seconds), 0)
		FROM focus_sessions WHERE kind = 'work' AND finished_at >= $1
	`, since).Scan(&sessions, &secs)
	if err != nil {
		return 0, 0, fmt.Errorf("sum focus sessions: %w", err)
	}
	return sessions, time.Duration(secs) * time.Second, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
