package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	return New(srv.URL, 5*time.Second, opts...)
}

func TestLoginInstallsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body credentials
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Email != "ana@example.com" || body.Password != "secret" {
			t.Errorf("unexpected credentials %+v", body)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must not send a bearer token")
		}
		w.Write([]byte(`{"access_token":"tok-1"}`))
	})
	token, err := c.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok-1" || c.Token() != "tok-1" {
		t.Fatalf("expected token installed, got %q / %q", token, c.Token())
	}
}

func TestErrorDetailAndFallback(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"detail string", `{"detail":"Registration failed"}`, "Registration failed"},
		{"validation list", `{"detail":[{"loc":["body","email"],"msg":"field required"}]}`, "Failed"},
		{"not json", `<html>bad gateway</html>`, "Failed"},
		{"empty detail", `{"detail":""}`, "Failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, tc.body)
			})
			_, err := c.Register(context.Background(), "a@b.c", "pw")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != http.StatusBadRequest {
				t.Fatalf("unexpected status %d", apiErr.StatusCode)
			}
			if Message(err) != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, Message(err))
			}
		})
	}
}

func TestUploadSendsPDFPart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/upload" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "notes.pdf" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("expected application/pdf part, got %q", ct)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "%PDF-1.4 body" {
			t.Errorf("unexpected body %q", data)
		}
		w.Write([]byte(`{"document_id":"doc-9","page_count":3}`))
	}, WithToken("tok"))
	res, err := c.Upload(context.Background(), "/tmp/notes.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.DocumentID != "doc-9" || res.PageCount != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestUploadFailureFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{}`))
	})
	_, err := c.Upload(context.Background(), "a.pdf", strings.NewReader("%PDF"))
	if Message(err) != "upload failed" {
		t.Fatalf("expected fallback message, got %q", Message(err))
	}
}

func TestDocumentScopedCallsRequireID(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, WithToken("tok"))
	ctx := context.Background()
	if _, err := c.GenerateFlashcards(ctx, "", 8, "easy"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if _, err := c.GenerateQuiz(ctx, " ", "easy"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if _, err := c.Explain(ctx, "", ""); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
	if _, err := c.GeneratePodcast(ctx, "", ""); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestQuizRequiresToken(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	if _, err := c.GenerateQuiz(context.Background(), "doc", "hard"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestGenerateFlashcardsDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/doc-1/flashcards/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Count      int    `json:"count"`
			Difficulty string `json:"difficulty"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Count != DefaultFlashcardCount || body.Difficulty != "medium" {
			t.Errorf("unexpected body %+v", body)
		}
		w.Write([]byte(`{"flashcards":[{"id":"c1","question":"Q","answer":"A","status":"new"}]}`))
	})
	cards, err := c.GenerateFlashcards(context.Background(), "doc-1", 0, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(cards) != 1 || cards[0].Status != model.StatusNew {
		t.Fatalf("unexpected cards %+v", cards)
	}
}

func TestDeleteAndUpdateFlashcard(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPatch:
			w.Write([]byte(`{"id":"c1","question":"Q","answer":"A","status":"mastered"}`))
		}
	})
	ctx := context.Background()
	if err := c.DeleteFlashcard(ctx, "doc-1", "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	card, err := c.UpdateFlashcardStatus(ctx, "c1", model.StatusMastered)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if card.Status != model.StatusMastered {
		t.Fatalf("unexpected status %q", card.Status)
	}
	if _, err := c.UpdateFlashcardStatus(ctx, "c1", "forgotten"); err == nil {
		t.Fatalf("expected invalid status to be rejected")
	}
	want := []string{"DELETE /documents/doc-1/flashcards/c1", "PATCH /documents/flashcards/c1"}
	if strings.Join(seen, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected requests %v", seen)
	}
}

func TestQuizRoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/documents/doc-1/quiz/generate":
			w.Write([]byte(`{"quiz_id":"q-1","difficulty":"easy","questions":[{"id":"a","question":"2+2?","options":["3","4"],"correct_answer":1,"explanation":"math"}]}`))
		case "/documents/quiz/q-1/submit":
			var body struct {
				Answers []int `json:"answers"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if len(body.Answers) != 1 || body.Answers[0] != 1 {
				t.Errorf("unexpected answers %v", body.Answers)
			}
			w.Write([]byte(`{"score":1,"total_questions":1,"percentage":100,"results":[{"question_id":"a","question":"2+2?","user_answer":1,"correct_answer":1,"is_correct":true,"explanation":"math"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, WithToken("tok"))
	ctx := context.Background()
	quiz, err := c.GenerateQuiz(ctx, "doc-1", "easy")
	if err != nil {
		t.Fatalf("generate quiz: %v", err)
	}
	res, err := c.SubmitQuiz(ctx, quiz.ID, []int{1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.QuizID != "q-1" || res.Score != 1 || !res.Results[0].IsCorrect {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestListDocumentsAcceptsBothShapes(t *testing.T) {
	for _, body := range []string{
		`[{"id":"d1","filename":"a.pdf","page_count":2}]`,
		`{"documents":[{"id":"d1","filename":"a.pdf","page_count":2}]}`,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
		docs, err := c.ListDocuments(context.Background())
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(docs) != 1 || docs[0].ID != "d1" || docs[0].PageCount != 2 {
			t.Fatalf("unexpected docs %+v", docs)
		}
	}
}

func TestStreamAudio(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/audio/stream/s-1/2" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFF"))
	})
	rc, err := c.StreamAudio(context.Background(), "s-1", 2)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "RIFF" {
		t.Fatalf("unexpected audio %q", data)
	}
}

func TestMessageForNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	err := c.Health(context.Background())
	if err == nil {
		t.Fatalf("expected network error")
	}
	if Message(err) == "" {
		t.Fatalf("network errors should still render a message")
	}
}
