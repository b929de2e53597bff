// Package config centralizes how AkademIQ reads environment variables and
// exposes them as strongly typed Go values.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the CLI and the worker. Struct
// fields in Go begin with capital letters when they must be exported (visible
// to other packages), while lower-case fields remain private.
type Config struct {
	APIBase        string
	HTTPTimeout    time.Duration
	StatePath      string
	PersistSession bool
	MaxFileSize    int64
	MaxPDFPages    int

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	WorkerCount   int
	JobUniqueTTL  time.Duration
	SigningSecret []byte

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3UseSSL    bool
	S3Region    string
	AudioBucket string

	AudioPlayer string

	Timer TimerConfig
}

// TimerConfig holds the Pomodoro defaults in minutes.
type TimerConfig struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakInterval int
}

const (
	// const declares compile-time constants; shifts work on integers so
	// 25 << 20 equals 25 * 2^20 bytes.
	defaultAPIBase      = "https://akademiq-reviewer-backend.onrender.com"
	defaultHTTPTimeout  = 60 * time.Second
	defaultMaxFileSize  = 25 << 20 // 25 MiB
	defaultMaxPDFPages  = 10
	defaultRedisAddr    = "localhost:6379"
	defaultWorkerCount  = 2
	defaultUniqueTTL    = 2 * time.Minute
	defaultS3Region     = "us-east-1"
	defaultAudioBucket  = "akademiq-audio"
	defaultAudioPlayer  = "ffplay -nodisp -autoexit -loglevel quiet"
	defaultWorkMinutes  = 25
	defaultShortMinutes = 5
	defaultLongMinutes  = 15
	defaultLongInterval = 4
)

// Load reads configuration from environment variables falling back to defaults.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}
	cfg := &Config{
		APIBase:        strings.TrimRight(readEnv("AKADEMIQ_API_BASE", defaultAPIBase), "/"),
		HTTPTimeout:    parseDuration("AKADEMIQ_HTTP_TIMEOUT", defaultHTTPTimeout),
		StatePath:      readEnv("AKADEMIQ_STATE_PATH", ""),
		PersistSession: parseBool("AKADEMIQ_PERSIST_SESSION", true),
		MaxFileSize:    parseInt64("AKADEMIQ_MAX_FILE_BYTES", defaultMaxFileSize),
		MaxPDFPages:    parseInt("AKADEMIQ_MAX_PDF_PAGES", defaultMaxPDFPages),
		DatabaseURL:    readEnv("AKADEMIQ_DATABASE_URL", ""),
		RedisAddr:      readEnv("AKADEMIQ_REDIS_ADDR", defaultRedisAddr),
		RedisPassword:  readEnv("AKADEMIQ_REDIS_PASSWORD", ""),
		RedisDB:        parseInt("AKADEMIQ_REDIS_DB", 0),
		WorkerCount:    parseInt("AKADEMIQ_WORKERS", defaultWorkerCount),
		JobUniqueTTL:   parseDuration("AKADEMIQ_JOB_UNIQUE_TTL", defaultUniqueTTL),
		SigningSecret:  parseSecret("AKADEMIQ_SIGNING_SECRET"),
		S3Endpoint:     readEnv("AKADEMIQ_S3_ENDPOINT", ""),
		S3AccessKey:    readEnv("AKADEMIQ_S3_ACCESS_KEY", ""),
		S3SecretKey:    readEnv("AKADEMIQ_S3_SECRET_KEY", ""),
		S3UseSSL:       parseBool("AKADEMIQ_S3_USE_SSL", false),
		S3Region:       readEnv("AKADEMIQ_S3_REGION", defaultS3Region),
		AudioBucket:    readEnv("AKADEMIQ_AUDIO_BUCKET", defaultAudioBucket),
		AudioPlayer:    readEnv("AKADEMIQ_AUDIO_PLAYER", defaultAudioPlayer),
		Timer: TimerConfig{
			WorkMinutes:       parseInt("AKADEMIQ_TIMER_WORK_MINUTES", defaultWorkMinutes),
			ShortBreakMinutes: parseInt("AKADEMIQ_TIMER_SHORT_BREAK_MINUTES", defaultShortMinutes),
			LongBreakMinutes:  parseInt("AKADEMIQ_TIMER_LONG_BREAK_MINUTES", defaultLongMinutes),
			LongBreakInterval: parseInt("AKADEMIQ_TIMER_LONG_BREAK_INTERVAL", defaultLongInterval),
		},
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	if cfg.MaxPDFPages <= 0 {
		cfg.MaxPDFPages = defaultMaxPDFPages
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = defaultWorkerCount
	}
	if cfg.JobUniqueTTL <= 0 {
		cfg.JobUniqueTTL = defaultUniqueTTL
	}
	cfg.Timer = cfg.Timer.normalized()
	return cfg, nil
}

// S3Enabled reports whether an object store endpoint was configured.
func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

// JobsEnabled reports whether a signing secret shared by the CLI and the
// worker was configured.
func (c *Config) JobsEnabled() bool {
	return len(c.SigningSecret) > 0
}

// JournalEnabled reports whether a Postgres journal was configured.
func (c *Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}

func (t TimerConfig) normalized() TimerConfig {
	if t.WorkMinutes <= 0 {
		t.WorkMinutes = defaultWorkMinutes
	}
	if t.ShortBreakMinutes <= 0 {
		t.ShortBreakMinutes = defaultShortMinutes
	}
	if t.LongBreakMinutes <= 0 {
		t.LongBreakMinutes = defaultLongMinutes
	}
	if t.LongBreakInterval <= 0 {
		t.LongBreakInterval = defaultLongInterval
	}
	return t
}

func readEnv(key, def string) string {
	// LookupEnv returns (value, true) when the variable is present, mirroring
	// Go's pattern of providing extra information via multiple return values.
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func parseInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	// time.ParseDuration understands inputs like "5m" or "30s".
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func parseSecret(key string) []byte {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return []byte(v)
	}
	return nil
}

