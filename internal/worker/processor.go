// Package worker runs queued generation jobs against the backend.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	"github.com/dharsanguruparan/AkademIQ/internal/model"
	"github.com/dharsanguruparan/AkademIQ/internal/queue"
	"github.com/dharsanguruparan/AkademIQ/internal/repository"
	"github.com/dharsanguruparan/AkademIQ/internal/signing"
)

// Backend is the subset of *client.Client the worker calls.
type Backend interface {
	GenerateFlashcards(ctx context.Context, docID string, count int, difficulty string) ([]model.Flashcard, error)
	GenerateQuiz(ctx context.Context, docID, difficulty string) (*model.Quiz, error)
	Explain(ctx context.Context, docID, style string) (*model.Explanation, error)
	GeneratePodcast(ctx context.Context, docID, voice string) (*model.PodcastScript, error)
	GenerateAudio(ctx context.Context, scriptID, voice string) (*model.PodcastAudio, error)
	StreamAudio(ctx context.Context, scriptID string, lineIndex int) (io.ReadCloser, error)
}

// BackendFactory returns a backend authenticated with token. Jobs carry
// their own tokens, so each job gets its own client.
type BackendFactory func(token string) Backend

// Journal records job outcomes.
type Journal interface {
	RecordArtifact(ctx context.Context, a *repository.Artifact) error
}

// AudioArchive stores podcast scripts and audio.
type AudioArchive interface {
	PutScript(ctx context.Context, script *model.PodcastScript) (string, error)
	PutLine(ctx context.Context, scriptID string, lineIndex int, r io.Reader, size int64) (string, error)
}

// Processor is plugged into the asynq worker loop. journal and archive may
// be nil.
type Processor struct {
	backend BackendFactory
	signer  *signing.Signer
	journal Journal
	archive AudioArchive
	now     func() time.Time
}

// NewProcessor constructs a worker processor.
func NewProcessor(backend BackendFactory, signer *signing.Signer, journal Journal, archive AudioArchive) *Processor {
	return &Processor{backend: backend, signer: signer, journal: journal, archive: archive, now: time.Now}
}

// Handler registers one handler per generation task.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for _, kind := range queue.Kinds {
		mux.HandleFunc(kind, p.handle)
	}
	return mux
}

// outcome is what a successful job produced.
type outcome struct {
	summary string
	content any
}

func (p *Processor) handle(ctx context.Context, task *asynq.Task) error {
	payload, err := queue.Decode(task, p.signer, p.now())
	if err != nil {
		// A forged or stale job will never succeed.
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	backend := p.backend(payload.Token)

	var out outcome
	switch task.Type() {
	case queue.GenerateFlashcardsTask:
		out, err = p.flashcards(ctx, backend, payload)
	case queue.GenerateQuizTask:
		out, err = p.quiz(ctx, backend, payload)
	case queue.GenerateExplainTask:
		out, err = p.explain(ctx, backend, payload)
	case queue.GeneratePodcastTask:
		out, err = p.podcast(ctx, backend, payload)
	default:
		return fmt.Errorf("%w: %s: %w", queue.ErrUnknownKind, task.Type(), asynq.SkipRetry)
	}
	if err != nil {
		log.Printf("%s failed for %s: %s", task.Type(), payload.DocumentID, client.Message(err))
		msg := client.Message(err)
		p.record(ctx, &repository.Artifact{DocumentID: payload.DocumentID, Kind: task.Type(), Status: repository.ArtifactFailed, ErrorMessage: &msg})
		if permanent(err) {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}
	art := &repository.Artifact{DocumentID: payload.DocumentID, Kind: task.Type(), Status: repository.ArtifactCompleted, Summary: out.summary}
	if out.content != nil {
		if data, err := json.Marshal(out.content); err == nil {
			art.Content = data
		}
	}
	p.record(ctx, art)
	log.Printf("%s done for %s: %s", task.Type(), payload.DocumentID, out.summary)
	return nil
}

// permanent reports errors that a retry cannot fix: client-side validation
// and 4xx replies other than 408 and 429.
func permanent(err error) bool {
	if errors.Is(err, client.ErrNoDocument) || errors.Is(err, client.ErrNotAuthenticated) {
		return true
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.StatusCode
		return code >= 400 && code < 500 && code != http.StatusRequestTimeout && code != http.StatusTooManyRequests
	}
	return false
}

func (p *Processor) record(ctx context.Context, a *repository.Artifact) {
	if p.journal == nil {
		return
	}
	if err := p.journal.RecordArtifact(ctx, a); err != nil {
		log.Printf("record artifact: %v", err)
	}
}

func (p *Processor) flashcards(ctx context.Context, b Backend, in queue.GeneratePayload) (outcome, error) {
	cards, err := b.GenerateFlashcards(ctx, in.DocumentID, in.Count, in.Difficulty)
	if err != nil {
		return outcome{}, err
	}
	return outcome{summary: fmt.Sprintf("%d flashcards", len(cards)), content: cards}, nil
}

func (p *Processor) quiz(ctx context.Context, b Backend, in queue.GeneratePayload) (outcome, error) {
	quiz, err := b.GenerateQuiz(ctx, in.DocumentID, in.Difficulty)
	if err != nil {
		return outcome{}, err
	}
	return outcome{summary: fmt.Sprintf("quiz %s with %d questions", quiz.ID, len(quiz.Questions)), content: quiz}, nil
}

func (p *Processor) explain(ctx context.Context, b Backend, in queue.GeneratePayload) (outcome, error) {
	exp, err := b.Explain(ctx, in.DocumentID, in.Style)
	if err != nil {
		return outcome{}, err
	}
	return outcome{summary: fmt.Sprintf("%s explanation, %d chars", exp.Style, len(exp.Content)), content: exp}, nil
}

func (p *Processor) podcast(ctx context.Context, b Backend, in queue.GeneratePayload) (outcome, error) {
	script, err := b.GeneratePodcast(ctx, in.DocumentID, in.Voice)
	if err != nil {
		return outcome{}, err
	}
	summary := fmt.Sprintf("script %s with %d lines", script.ID, len(script.Dialogue))
	if p.archive != nil {
		if _, err := p.archive.PutScript(ctx, script); err != nil {
			return outcome{}, err
		}
	}
	if !in.WithAudio {
		return outcome{summary: summary, content: script}, nil
	}
	audio, err := b.GenerateAudio(ctx, script.ID, in.Voice)
	if err != nil {
		return outcome{}, err
	}
	archived := 0
	if p.archive != nil {
		for _, line := range audio.Lines {
			if err := p.archiveLine(ctx, b, script.ID, line.LineIndex); err != nil {
				log.Printf("archive line %d of %s: %v", line.LineIndex, script.ID, err)
				continue
			}
			archived++
		}
	}
	summary += fmt.Sprintf(", %d audio lines, %d archived", len(audio.Lines), archived)
	return outcome{summary: summary, content: script}, nil
}

func (p *Processor) archiveLine(ctx context.Context, b Backend, scriptID string, lineIndex int) error {
	rc, err := b.StreamAudio(ctx, scriptID, lineIndex)
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = p.archive.PutLine(ctx, scriptID, lineIndex, rc, -1)
	return err
}
