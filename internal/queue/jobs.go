// Package queue defines the generation tasks handed from the CLI to the
// background worker through asynq.
package queue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dharsanguruparan/AkademIQ/internal/signing"
)

const (
	GenerateFlashcardsTask = "generate:flashcards"
	GenerateQuizTask       = "generate:quiz"
	GenerateExplainTask    = "generate:explain"
	GeneratePodcastTask    = "generate:podcast"
)

// signatureLifetime bounds how long an enqueued job stays runnable.
const signatureLifetime = 24 * time.Hour

var (
	// ErrDuplicate is returned when an identical request is already queued
	// or finished inside the uniqueness window.
	ErrDuplicate   = errors.New("identical generation job already queued")
	ErrUnknownKind = errors.New("unknown job kind")
)

// Kinds lists every task type in a stable order.
var Kinds = []string{GenerateFlashcardsTask, GenerateQuizTask, GenerateExplainTask, GeneratePodcastTask}

// KindFor maps a short CLI name such as "quiz" to its task type.
func KindFor(name string) (string, error) {
	for _, k := range Kinds {
		if k == name || k == "generate:"+name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, name)
}

// GeneratePayload carries the parameters of one generation request. The
// token travels with the job because quiz and podcast generation require an
// authenticated caller.
type GeneratePayload struct {
	DocumentID string `json:"document_id"`
	Token      string `json:"token,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Count      int    `json:"count,omitempty"`
	Style      string `json:"style,omitempty"`
	Voice      string `json:"voice,omitempty"`
	WithAudio  bool   `json:"with_audio,omitempty"`
}

// envelope is the wire form of a task payload.
type envelope struct {
	Payload   json.RawMessage `json:"payload"`
	Expires   int64           `json:"expires"`
	Signature string          `json:"signature"`
}

// TaskID is deterministic for a kind and its parameters so asynq rejects an
// identical request while the first one is still retained.
func TaskID(kind string, p GeneratePayload) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s|%d|%s|%s|%t", kind, p.DocumentID, p.Difficulty, p.Count, p.Style, p.Voice, p.WithAudio)))
	return kind + ":" + hex.EncodeToString(sum[:8])
}

// NewTask seals p and returns the task together with its dedup options.
// The expiry is rounded to the uniqueness window so identical requests in
// the same window produce byte-identical payloads for asynq.Unique.
func NewTask(kind string, p GeneratePayload, signer *signing.Signer, uniqueTTL time.Duration, now time.Time) (*asynq.Task, []asynq.Option, error) {
	if _, err := KindFor(kind); err != nil {
		return nil, nil, err
	}
	if p.DocumentID == "" {
		return nil, nil, errors.New("job payload missing document id")
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal payload: %w", err)
	}
	expires := now.Truncate(uniqueTTL).Add(signatureLifetime).Unix()
	data, err := json.Marshal(envelope{Payload: body, Expires: expires, Signature: signer.Sign(body, expires)})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal envelope: %w", err)
	}
	opts := []asynq.Option{
		asynq.TaskID(TaskID(kind, p)),
		asynq.Unique(uniqueTTL),
		asynq.Retention(uniqueTTL),
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
	}
	return asynq.NewTask(kind, data), opts, nil
}

// Decode verifies the task signature and returns its payload.
func Decode(task *asynq.Task, signer *signing.Signer, now time.Time) (GeneratePayload, error) {
	var env envelope
	if err := json.Unmarshal(task.Payload(), &env); err != nil {
		return GeneratePayload{}, fmt.Errorf("decode envelope: %w", err)
	}
	if err := signer.Validate(env.Payload, env.Expires, env.Signature, now); err != nil {
		return GeneratePayload{}, fmt.Errorf("verify payload: %w", err)
	}
	var p GeneratePayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return GeneratePayload{}, fmt.Errorf("decode payload: %w", err)
	}
	return p, nil
}

// Enqueuer submits generation jobs.
type Enqueuer struct {
	client    *asynq.Client
	signer    *signing.Signer
	uniqueTTL time.Duration
}

// NewEnqueuer wraps an asynq client.
func NewEnqueuer(client *asynq.Client, signer *signing.Signer, uniqueTTL time.Duration) *Enqueuer {
	return &Enqueuer{client: client, signer: signer, uniqueTTL: uniqueTTL}
}

// Enqueue submits one job. Duplicates surface as ErrDuplicate.
func (e *Enqueuer) Enqueue(ctx context.Context, kind string, p GeneratePayload) (*asynq.TaskInfo, error) {
	task, opts, err := NewTask(kind, p, e.signer, e.uniqueTTL, time.Now())
	if err != nil {
		return nil, err
	}
	info, err := e.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, TaskID(kind, p))
	}
	if err != nil {
		return nil, fmt.Errorf("enqueue %s task: %w", kind, err)
	}
	return info, nil
}
