package worker

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	"github.com/dharsanguruparan/AkademIQ/internal/model"
	"github.com/dharsanguruparan/AkademIQ/internal/queue"
	"github.com/dharsanguruparan/AkademIQ/internal/repository"
	"github.com/dharsanguruparan/AkademIQ/internal/signing"
)

type fakeBackend struct {
	token   string
	quizErr error
}

func (f *fakeBackend) GenerateFlashcards(ctx context.Context, docID string, count int, difficulty string) ([]model.Flashcard, error) {
	return make([]model.Flashcard, count), nil
}

func (f *fakeBackend) GenerateQuiz(ctx context.Context, docID, difficulty string) (*model.Quiz, error) {
	if f.quizErr != nil {
		return nil, f.quizErr
	}
	return &model.Quiz{ID: "q-1", Questions: make([]model.QuizQuestion, 12)}, nil
}

func (f *fakeBackend) Explain(ctx context.Context, docID, style string) (*model.Explanation, error) {
	return &model.Explanation{Style: style, Content: "plain words"}, nil
}

func (f *fakeBackend) GeneratePodcast(ctx context.Context, docID, voice string) (*model.PodcastScript, error) {
	return &model.PodcastScript{ID: "s-1", Dialogue: []model.DialogueLine{{Speaker: 1, Text: "hi"}, {Speaker: 2, Text: "hello"}}}, nil
}

func (f *fakeBackend) GenerateAudio(ctx context.Context, scriptID, voice string) (*model.PodcastAudio, error) {
	return &model.PodcastAudio{ScriptID: scriptID, Lines: []model.AudioLine{{LineIndex: 0}, {LineIndex: 1}}}, nil
}

func (f *fakeBackend) StreamAudio(ctx context.Context, scriptID string, lineIndex int) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("RIFF")), nil
}

type memJournal struct{ artifacts []repository.Artifact }

func (m *memJournal) RecordArtifact(ctx context.Context, a *repository.Artifact) error {
	m.artifacts = append(m.artifacts, *a)
	return nil
}

type memArchive struct{ keys []string }

func (m *memArchive) PutScript(ctx context.Context, s *model.PodcastScript) (string, error) {
	m.keys = append(m.keys, "script:"+s.ID)
	return "script", nil
}

func (m *memArchive) PutLine(ctx context.Context, scriptID string, lineIndex int, r io.Reader, size int64) (string, error) {
	data, _ := io.ReadAll(r)
	m.keys = append(m.keys, "line:"+string(data))
	return "line", nil
}

func newTask(t *testing.T, signer *signing.Signer, kind string, p queue.GeneratePayload) *asynq.Task {
	t.Helper()
	task, _, err := queue.NewTask(kind, p, signer, time.Minute, time.Now())
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func TestProcessorRecordsArtifacts(t *testing.T) {
	signer := signing.NewSigner([]byte("s"))
	journal := &memJournal{}
	archive := &memArchive{}
	var tokens []string
	p := NewProcessor(func(token string) Backend {
		tokens = append(tokens, token)
		return &fakeBackend{token: token}
	}, signer, journal, archive)
	mux := p.Handler()
	ctx := context.Background()

	jobs := []struct {
		kind    string
		payload queue.GeneratePayload
		summary string
	}{
		{queue.GenerateFlashcardsTask, queue.GeneratePayload{DocumentID: "d", Count: 8}, "8 flashcards"},
		{queue.GenerateQuizTask, queue.GeneratePayload{DocumentID: "d", Token: "tok"}, "quiz q-1 with 12 questions"},
		{queue.GenerateExplainTask, queue.GeneratePayload{DocumentID: "d", Style: "professor"}, "professor explanation, 11 chars"},
		{queue.GeneratePodcastTask, queue.GeneratePayload{DocumentID: "d", Token: "tok", WithAudio: true}, "script s-1 with 2 lines, 2 audio lines, 2 archived"},
	}
	for _, j := range jobs {
		if err := mux.ProcessTask(ctx, newTask(t, signer, j.kind, j.payload)); err != nil {
			t.Fatalf("%s: %v", j.kind, err)
		}
	}
	if len(journal.artifacts) != len(jobs) {
		t.Fatalf("expected %d artifacts, got %d", len(jobs), len(journal.artifacts))
	}
	for i, j := range jobs {
		got := journal.artifacts[i]
		if got.Kind != j.kind || got.Status != repository.ArtifactCompleted || got.Summary != j.summary {
			t.Fatalf("artifact %d: %+v", i, got)
		}
		if len(got.Content) == 0 {
			t.Fatalf("artifact %d missing content", i)
		}
	}
	if strings.Join(archive.keys, ",") != "script:s-1,line:RIFF,line:RIFF" {
		t.Fatalf("unexpected archive writes %v", archive.keys)
	}
	if tokens[1] != "tok" {
		t.Fatalf("job token not forwarded: %v", tokens)
	}
}

func TestProcessorFailurePolicy(t *testing.T) {
	signer := signing.NewSigner([]byte("s"))
	journal := &memJournal{}
	var quizErr error
	p := NewProcessor(func(string) Backend { return &fakeBackend{quizErr: quizErr} }, signer, journal, nil)
	mux := p.Handler()
	ctx := context.Background()
	task := newTask(t, signer, queue.GenerateQuizTask, queue.GeneratePayload{DocumentID: "d"})

	quizErr = &client.APIError{StatusCode: http.StatusBadRequest, Message: "Quiz generation failed"}
	if err := mux.ProcessTask(ctx, task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("4xx should skip retry, got %v", err)
	}
	quizErr = &client.APIError{StatusCode: http.StatusBadGateway, Message: "Failed to generate quiz"}
	if err := mux.ProcessTask(ctx, task); err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("5xx should be retried, got %v", err)
	}
	if len(journal.artifacts) != 2 || journal.artifacts[0].Status != repository.ArtifactFailed || *journal.artifacts[0].ErrorMessage != "Quiz generation failed" {
		t.Fatalf("unexpected artifacts %+v", journal.artifacts)
	}

	forged := newTask(t, signing.NewSigner([]byte("other")), queue.GenerateQuizTask, queue.GeneratePayload{DocumentID: "d"})
	if err := mux.ProcessTask(ctx, forged); !errors.Is(err, asynq.SkipRetry) || !errors.Is(err, signing.ErrBadSignature) {
		t.Fatalf("forged job should be rejected permanently, got %v", err)
	}
}
