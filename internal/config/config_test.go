package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"AKADEMIQ_API_BASE", "AKADEMIQ_HTTP_TIMEOUT", "AKADEMIQ_MAX_PDF_PAGES",
		"AKADEMIQ_TIMER_WORK_MINUTES", "AKADEMIQ_TIMER_SHORT_BREAK_MINUTES",
		"AKADEMIQ_TIMER_LONG_BREAK_MINUTES", "AKADEMIQ_TIMER_LONG_BREAK_INTERVAL",
		"AKADEMIQ_SIGNING_SECRET", "AKADEMIQ_PERSIST_SESSION",
		"AKADEMIQ_S3_ENDPOINT", "AKADEMIQ_DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("expected default api base, got %q", cfg.APIBase)
	}
	if cfg.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("expected default timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.MaxPDFPages != 10 {
		t.Fatalf("expected 10 pages, got %d", cfg.MaxPDFPages)
	}
	if !cfg.PersistSession {
		t.Fatalf("expected session persistence by default")
	}
	if cfg.JobsEnabled() {
		t.Fatalf("jobs need an explicit signing secret")
	}
	want := TimerConfig{WorkMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4}
	if cfg.Timer != want {
		t.Fatalf("unexpected timer defaults: %+v", cfg.Timer)
	}
	if cfg.S3Enabled() || cfg.JournalEnabled() {
		t.Fatalf("optional backends should be off by default")
	}
}

func TestLoadOverridesAndClamps(t *testing.T) {
	t.Setenv("AKADEMIQ_API_BASE", "http://localhost:8000/")
	t.Setenv("AKADEMIQ_HTTP_TIMEOUT", "5s")
	t.Setenv("AKADEMIQ_WORKERS", "-3")
	t.Setenv("AKADEMIQ_TIMER_LONG_BREAK_INTERVAL", "0")
	t.Setenv("AKADEMIQ_PERSIST_SESSION", "false")
	t.Setenv("AKADEMIQ_DATABASE_URL", "postgres://localhost/akademiq")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBase != "http://localhost:8000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBase)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.WorkerCount != defaultWorkerCount {
		t.Fatalf("negative worker count should fall back, got %d", cfg.WorkerCount)
	}
	if cfg.Timer.LongBreakInterval != defaultLongInterval {
		t.Fatalf("zero interval should fall back, got %d", cfg.Timer.LongBreakInterval)
	}
	if cfg.PersistSession {
		t.Fatalf("expected persistence disabled")
	}
	if !cfg.JournalEnabled() {
		t.Fatalf("expected journal enabled")
	}
}
