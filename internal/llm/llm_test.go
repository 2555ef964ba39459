package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{name: "plain", content: ` {"a":1} `, want: `{"a":1}`},
		{name: "json fence", content: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", content: "Here you go:\n```\n{\"a\":[1,2]}\n```\nThanks", want: `{"a":[1,2]}`},
		{name: "prose around object", content: "Result: {\"a\":true} done", want: `{"a":true}`},
		{name: "garbage", content: "no json here", wantErr: true},
		{name: "truncated", content: `{"a":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.content)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJSON) {
					t.Fatalf("expected ErrInvalidJSON, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTransientWrapping(t *testing.T) {
	base := &StatusError{Provider: "openai", StatusCode: 503}
	err := fmt.Errorf("call: %w", Transient(base))

	if !IsTransient(err) {
		t.Fatalf("expected transient")
	}
	var status *StatusError
	if !errors.As(err, &status) || status.StatusCode != 503 {
		t.Fatalf("expected status error to unwrap, got %v", err)
	}
	if IsTransient(errors.New("bad request")) {
		t.Fatalf("plain errors are not transient")
	}
	if Transient(nil) != nil {
		t.Fatalf("Transient(nil) should be nil")
	}
}

func TestStatusErrorRetryable(t *testing.T) {
	for code, want := range map[int]bool{400: false, 401: false, 429: true, 500: true, 503: true} {
		if got := (&StatusError{StatusCode: code}).Retryable(); got != want {
			t.Fatalf("status %d retryable=%v, want %v", code, got, want)
		}
	}
}

func TestPlaceholderClient(t *testing.T) {
	_, err := PlaceholderClient{}.AnalyzeResume(context.Background(), AnalyzeInput{})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}
