package repository

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dharsanguruparan/AkademIQ/internal/database"
)

// openJournal connects to AKADEMIQ_TEST_DATABASE_URL or skips.
func openJournal(t *testing.T) *JournalRepository {
	t.Helper()
	dsn := os.Getenv("AKADEMIQ_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AKADEMIQ_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return NewJournalRepository(pool)
}

func TestJournalRoundTrip(t *testing.T) {
	repo := openJournal(t)
	ctx := context.Background()
	doc := "doc-" + uuid.NewString()

	if err := repo.RecordArtifact(ctx, &Artifact{DocumentID: doc, Kind: "generate:quiz", Status: ArtifactCompleted, Summary: "12 questions", Content: json.RawMessage(`{"quiz_id":"q"}`)}); err != nil {
		t.Fatalf("record artifact: %v", err)
	}
	msg := "Failed to generate quiz"
	if err := repo.RecordArtifact(ctx, &Artifact{DocumentID: doc, Kind: "generate:quiz", Status: ArtifactFailed, ErrorMessage: &msg}); err != nil {
		t.Fatalf("record failed artifact: %v", err)
	}
	arts, err := repo.RecentArtifacts(ctx, doc, 10)
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(arts) != 2 || arts[0].Status != ArtifactFailed || arts[0].ErrorMessage == nil {
		t.Fatalf("unexpected artifacts %+v", arts)
	}

	attempt := &QuizAttempt{QuizID: "q-" + uuid.NewString(), DocumentID: doc, Difficulty: "hard", Score: 12, Total: 15, Percentage: 80}
	if err := repo.RecordQuizAttempt(ctx, attempt); err != nil {
		t.Fatalf("record attempt: %v", err)
	}
	attempts, err := repo.RecentQuizAttempts(ctx, 100)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	found := false
	for _, a := range attempts {
		if a.ID == attempt.ID && a.Score == 12 && a.Percentage == 80 {
			found = true
		}
	}
	if !found {
		t.Fatalf("attempt %s not listed", attempt.ID)
	}

	since := time.Now().Add(-time.Minute)
	before, _, err := repo.FocusTotals(ctx, since)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if err := repo.RecordFocusSession(ctx, &FocusSession{Kind: "work", Duration: 25 * time.Minute, CompletedCount: 1}); err != nil {
		t.Fatalf("record focus: %v", err)
	}
	after, focused, err := repo.FocusTotals(ctx, since)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if after != before+1 || focused < 25*time.Minute {
		t.Fatalf("unexpected totals %d %v", after, focused)
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{0: 20, -1: 20, 5: 5, 100: 100, 101: 20} {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
