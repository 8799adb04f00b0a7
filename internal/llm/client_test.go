package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KhanhD1nh/compare-gcn/internal/llm"
)

func TestRecognizeReturnsTrimmedContent(t *testing.T) {
	var gotPayload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  AA 01555158\n"}}]}`))
	}))
	defer srv.Close()

	c := llm.NewClient(llm.Config{URL: srv.URL, Model: "test-model"}, nil)
	text, err := c.Recognize(context.Background(), []byte("fake-png"))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if text != "AA 01555158" {
		t.Fatalf("text = %q, want trimmed id", text)
	}

	if gotPayload["model"] != "test-model" {
		t.Fatalf("model not forwarded: %v", gotPayload["model"])
	}
	msgs, ok := gotPayload["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %v", gotPayload["messages"])
	}
}

func TestRecognizeNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := llm.NewClient(llm.Config{URL: srv.URL}, nil)
	_, err := c.Recognize(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Fatalf("error should carry the status code: %v", err)
	}
}

func TestRecognizeRejectsMalformedEnvelope(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty choices", `{"choices":[]}`},
		{"missing message", `{"choices":[{}]}`},
		{"content wrong type", `{"choices":[{"message":{"content":42}}]}`},
		{"no choices field", `{"error":"oops"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := llm.NewClient(llm.Config{URL: srv.URL}, nil)
			if _, err := c.Recognize(context.Background(), []byte("img")); err == nil {
				t.Fatal("expected envelope validation error")
			}
		})
	}
}

func TestRecognizeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"AA 1"}}]}`))
	}))
	defer srv.Close()

	c := llm.NewClient(llm.Config{URL: srv.URL, Timeout: 20 * time.Millisecond}, nil)
	if _, err := c.Recognize(context.Background(), []byte("img")); err == nil {
		t.Fatal("expected timeout error")
	}
}
