// Package signing implements a minimal HMAC helper for sealing job payloads so
// a worker only runs generation requests that a trusted CLI enqueued.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

var (
	ErrBadSignature = errors.New("signature mismatch")
	ErrExpired      = errors.New("signature expired")
)

// Signer generates and validates HMAC based signatures.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer.
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign returns the hex signature over body and its expiry.
func (s *Signer) Sign(body []byte, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(body)
	mac.Write([]byte(":" + strconv.FormatInt(expiresUnix, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate checks signature against body and rejects it once expiresUnix has
// passed relative to now.
func (s *Signer) Validate(body []byte, expiresUnix int64, signature string, now time.Time) error {
	expected := s.Sign(body, expiresUnix)
	// hmac.Equal is constant time.
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	if now.Unix() > expiresUnix {
		return ErrExpired
	}
	return nil
}
