package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Success(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	res := client.Deliver(context.Background(), server.URL, []byte(`{"event":"reply"}`), "deadbeef")

	if res.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want 200", res.StatusCode)
	}
	if res.Error != "" {
		t.Errorf("Error = %q, want empty", res.Error)
	}
	if gotHeaders.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotHeaders.Get("Content-Type"))
	}
	if gotHeaders.Get(SignatureHeader) != "deadbeef" {
		t.Errorf("signature header = %q, want deadbeef", gotHeaders.Get(SignatureHeader))
	}
}

func TestClient_NoSignatureHeaderWhenUnsigned(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	client.Deliver(context.Background(), server.URL, []byte(`{}`), "")

	if _, ok := gotHeaders[http.CanonicalHeaderKey(SignatureHeader)]; ok {
		t.Error("unsigned delivery should not carry a signature header")
	}
}

func TestClient_Non2xxIsNotATransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(5 * time.Second)
	res := client.Deliver(context.Background(), server.URL, []byte(`{}`), "")

	if res.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500 (the receiver's actual response)", res.StatusCode)
	}
	if res.Error != ErrNon2xx {
		t.Errorf("Error = %q, want %q", res.Error, ErrNon2xx)
	}
}

func TestClient_TimeoutYieldsStatusZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(50 * time.Millisecond)
	res := client.Deliver(context.Background(), server.URL, []byte(`{}`), "")

	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for a timed-out call", res.StatusCode)
	}
	if res.Error == "" {
		t.Error("timed-out delivery should populate Error")
	}
}

func TestClient_ConnectionRefusedYieldsStatusZero(t *testing.T) {
	// Grab a URL, then close the listener so the port refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(1 * time.Second)
	res := client.Deliver(context.Background(), url, []byte(`{}`), "")

	if res.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for an unreachable endpoint", res.StatusCode)
	}
	if res.Error == "" {
		t.Error("unreachable endpoint should populate Error")
	}
}
