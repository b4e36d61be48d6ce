// Mock webhook receivers for local testing of the delivery pipeline.
// Run alongside the server and point subscriptions at the endpoints
// below to exercise success, rejection and timeout paths.
package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

var requestCount atomic.Int64

func main() {
	port := "9090"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	secret := os.Getenv("WEBHOOK_SECRET")

	// Always accepts; verifies the signature when WEBHOOK_SECRET is set
	http.HandleFunc("/hook/ok", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		body, _ := io.ReadAll(r.Body)

		if secret != "" {
			mac := hmac.New(sha256.New, []byte(secret))
			mac.Write(body)
			expected := hex.EncodeToString(mac.Sum(nil))
			got := r.Header.Get("x-webhook-signature")
			if !hmac.Equal([]byte(expected), []byte(got)) {
				log.Printf("[%d] signature mismatch: got %q", count, got)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}

		log.Printf("[%d] %s event=%s", count, r.URL.Path, eventType(body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "received"})
	})

	// Always rejects with 500
	http.HandleFunc("/hook/reject", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		log.Printf("[%d] %s -> 500", count, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
	})

	// Sleeps past the 5s delivery timeout, forcing a transport failure
	http.HandleFunc("/hook/hang", func(w http.ResponseWriter, r *http.Request) {
		count := requestCount.Add(1)
		log.Printf("[%d] %s (hanging)", count, r.URL.Path)
		time.Sleep(10 * time.Second)
		w.WriteHeader(http.StatusOK)
	})

	http.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{"total_requests": requestCount.Load()})
	})

	log.Printf("Mock receiver starting on :%s", port)
	log.Printf("  POST /hook/ok      -> 200 OK (verifies signature if WEBHOOK_SECRET set)")
	log.Printf("  POST /hook/reject  -> 500 Error")
	log.Printf("  POST /hook/hang    -> 10s delay (times out deliveries)")
	log.Printf("  GET  /stats        -> request count")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func eventType(body []byte) string {
	var env struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "?"
	}
	return env.Event
}
