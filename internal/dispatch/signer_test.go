package dispatch

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestSign(t *testing.T) {
	tests := []struct {
		name   string
		body   []byte
		secret string
	}{
		{
			name:   "basic envelope",
			body:   []byte(`{"event":"reply","notification":{"id":"n1"}}`),
			secret: "s3cr3t",
		},
		{
			name:   "empty body",
			body:   []byte(`{}`),
			secret: "secret",
		},
		{
			name:   "unicode body",
			body:   []byte(`{"title":"café","message":"€10"}`),
			secret: "unicode-key-日本語",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Sign(tt.secret, tt.body)

			decoded, err := hex.DecodeString(sig)
			if err != nil {
				t.Fatalf("signature is not valid hex: %v", err)
			}

			// HMAC-SHA256 always produces 32 bytes (64 hex chars)
			if len(decoded) != 32 {
				t.Fatalf("expected 32 bytes, got %d", len(decoded))
			}

			mac := hmac.New(sha256.New, []byte(tt.secret))
			mac.Write(tt.body)
			expected := hex.EncodeToString(mac.Sum(nil))

			if sig != expected {
				t.Errorf("signature mismatch:\n  got:  %s\n  want: %s", sig, expected)
			}
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	body := []byte(`{"event":"mention"}`)
	secret := "test-secret"

	if Sign(secret, body) != Sign(secret, body) {
		t.Error("signing the same body twice should produce the same signature")
	}
}

func TestSign_BodyChangesSignature(t *testing.T) {
	secret := "my-secret"
	sig1 := Sign(secret, []byte(`{"a":1}`))
	sig2 := Sign(secret, []byte(`{"a":2}`))

	if sig1 == sig2 {
		t.Error("changing one byte of the body should change the signature")
	}
}

func TestSign_DifferentSecrets(t *testing.T) {
	body := []byte(`{"event":"digest"}`)

	if Sign("secret-1", body) == Sign("secret-2", body) {
		t.Error("different secrets should produce different signatures")
	}
}
