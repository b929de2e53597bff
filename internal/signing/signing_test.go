package signing

import (
	"errors"
	"testing"
	"time"
)

func TestSigner(t *testing.T) {
	s := NewSigner([]byte("topsecret"))
	body := []byte(`{"documentId":"doc-1"}`)
	now := time.Unix(1700000000, 0)
	exp := now.Add(time.Hour).Unix()
	sig := s.Sign(body, exp)
	if len(sig) != 64 {
		t.Fatalf("expected hex sha256 signature, got %q", sig)
	}
	if err := s.Validate(body, exp, sig, now); err != nil {
		t.Fatalf("expected signature to validate: %v", err)
	}
	if err := s.Validate([]byte(`{"documentId":"doc-2"}`), exp, sig, now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected tampered body to fail, got %v", err)
	}
	if err := s.Validate(body, exp+1, sig, now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected wrong expiry to fail, got %v", err)
	}
	if err := s.Validate(body, exp, sig, now.Add(2*time.Hour)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected expired signature, got %v", err)
	}
	if err := NewSigner([]byte("other")).Validate(body, exp, sig, now); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected different secret to fail, got %v", err)
	}
}
