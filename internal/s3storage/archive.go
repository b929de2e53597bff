// Package s3storage archives podcast scripts and their audio in an
// S3-compatible bucket.
package s3storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dharsanguruparan/AkademIQ/internal/config"
	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// ErrDisabled is returned by New when no endpoint is configured.
var ErrDisabled = errors.New("object storage not configured")

// Archive wraps MinIO/S3 interactions for podcast artifacts.
type Archive struct {
	client *minio.Client
	bucket string
	region string
}

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Archive, error) {
	if !cfg.S3Enabled() {
		return nil, ErrDisabled
	}
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Archive{client: client, bucket: cfg.AudioBucket, region: cfg.S3Region}, nil
}

// EnsureBucket creates the audio bucket when missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", a.bucket, err)
		}
	}
	return nil
}

// ScriptKey is the object key of a script's JSON.
func ScriptKey(scriptID string) string {
	return path.Join("podcasts", url.PathEscape(scriptID), "script.json")
}

// LineKey is the object key of one line's audio.
func LineKey(scriptID string, lineIndex int) string {
	return path.Join("podcasts", url.PathEscape(scriptID), fmt.Sprintf("line-%03d.wav", lineIndex))
}

// PutScript stores the script as JSON and returns its key.
func (a *Archive) PutScript(ctx context.Context, script *model.PodcastScript) (string, error) {
	data, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal script: %w", err)
	}
	key := ScriptKey(script.ID)
	opts := minio.PutObjectOptions{ContentType: "application/json"}
	if _, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", fmt.Errorf("upload script: %w", err)
	}
	return key, nil
}

// PutLine stores one line of audio. size may be -1 when unknown.
func (a *Archive) PutLine(ctx context.Context, scriptID string, lineIndex int, r io.Reader, size int64) (string, error) {
	key := LineKey(scriptID, lineIndex)
	opts := minio.PutObjectOptions{ContentType: "audio/wav"}
	if _, err := a.client.PutObject(ctx, a.bucket, key, r, size, opts); err != nil {
		return "", fmt.Errorf("upload audio line %d: %w", lineIndex, err)
	}
	return key, nil
}

// Presign returns a signed GET URL for an archived object.
func (a *Archive) Presign(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := a.client.PresignedGetObject(ctx, a.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
