package domain

import "testing"

func TestKnownEventType(t *testing.T) {
	for _, typ := range []string{EventMention, EventReply, EventDigest} {
		if !KnownEventType(typ) {
			t.Errorf("KnownEventType(%q) = false, want true", typ)
		}
	}
	for _, typ := range []string{"", "thread_locked", "Reply", "reply "} {
		if KnownEventType(typ) {
			t.Errorf("KnownEventType(%q) = true, want false", typ)
		}
	}
}

func TestDeliveryAttempt_Succeeded(t *testing.T) {
	marker := "non-2xx response"
	tests := []struct {
		name    string
		attempt DeliveryAttempt
		want    bool
	}{
		{"200 no error", DeliveryAttempt{StatusCode: 200}, true},
		{"204 no error", DeliveryAttempt{StatusCode: 204}, true},
		{"500 with marker", DeliveryAttempt{StatusCode: 500, Error: &marker}, false},
		{"transport failure", DeliveryAttempt{StatusCode: 0, Error: &marker}, false},
		{"2xx with error set", DeliveryAttempt{StatusCode: 200, Error: &marker}, false},
		{"300", DeliveryAttempt{StatusCode: 300, Error: &marker}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.attempt.Succeeded(); got != tt.want {
				t.Errorf("Succeeded() = %v, want %v", got, tt.want)
			}
		})
	}
}
