package s3storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dharsanguruparan/AkademIQ/internal/config"
)

func TestKeys(t *testing.T) {
	if got := ScriptKey("abc"); got != "podcasts/abc/script.json" {
		t.Fatalf("unexpected script key %q", got)
	}
	if got := LineKey("abc", 7); got != "podcasts/abc/line-007.wav" {
		t.Fatalf("unexpected line key %q", got)
	}
	if got := LineKey("a/b", 0); strings.Count(got, "/") != 2 {
		t.Fatalf("script id must not add path segments: %q", got)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := New(&config.Config{}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestPresignIsLocal(t *testing.T) {
	a, err := New(&config.Config{S3Endpoint: "localhost:9000", S3AccessKey: "k", S3SecretKey: "s", S3Region: "us-east-1", AudioBucket: "audio"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u, err := a.Presign(context.Background(), LineKey("s1", 2), time.Hour)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(u, "/audio/podcasts/s1/line-002.wav") || !strings.Contains(u, "X-Amz-Signature=") {
		t.Fatalf("unexpected url %q", u)
	}
}
