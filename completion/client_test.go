package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Options{
		URL:         srv.URL + "/chat/completions",
		APIKey:      "secret",
		Model:       "llama3-8b-8192",
		Temperature: 0.7,
		MaxTokens:   3000,
	})
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got openai.ChatCompletionRequest
	var auth, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<p>hello</p>"}}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv).Complete(context.Background(), "tell me")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if out != "<p>hello</p>" {
		t.Errorf("Complete() = %q", out)
	}

	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if path != "/chat/completions" {
		t.Errorf("path = %q, want /chat/completions", path)
	}
	if got.Model != "llama3-8b-8192" || got.Temperature != float32(0.7) || got.MaxTokens != 3000 {
		t.Errorf("unexpected request settings: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != openai.ChatMessageRoleUser || got.Messages[0].Content != "tell me" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestCompleteMissingChoices(t *testing.T) {
	for _, body := range []string{`{}`, `{"choices":[]}`, `{"choices":[{"message":{}}]}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))

		out, err := newTestClient(srv).Complete(context.Background(), "x")
		srv.Close()

		if err != nil {
			t.Errorf("body %s: unexpected error %v", body, err)
		}
		if out != "" {
			t.Errorf("body %s: expected empty text, got %q", body, out)
		}
	}
}

func TestCompleteErrors(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantErr     []string
	}{
		{
			"Unauthorized", http.StatusUnauthorized, "application/json",
			`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`,
			[]string{"status code 401", "Invalid API Key"},
		},
		{"Server error", http.StatusInternalServerError, "text/plain", "boom", []string{"500"}},
		{"Malformed JSON", http.StatusOK, "application/json", "{not json", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tc.contentType)
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv).Complete(context.Background(), "x")
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestCompleteHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := newTestClient(srv).Complete(ctx, "x"); err == nil {
		t.Error("expected an error when the context expires")
	}
}

func TestBaseURL(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{DefaultURL, "https://api.groq.com/openai/v1"},
		{"http://localhost:8080/v1/chat/completions/", "http://localhost:8080/v1"},
		{"http://localhost:8080/v1", "http://localhost:8080/v1"},
	}
	for _, tc := range testCases {
		if got := baseURL(tc.in); got != tc.want {
			t.Errorf("baseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})
	if c.opts.URL != DefaultURL {
		t.Errorf("URL = %q, want %q", c.opts.URL, DefaultURL)
	}
	if c.opts.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", c.opts.Timeout)
	}
}
