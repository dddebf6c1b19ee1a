package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/dogfight/internal/errors"
)

// testTransport redirects every request to targetURL, keeping the path.
type testTransport struct {
	targetURL string
	transport http.RoundTripper
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target := strings.TrimPrefix(t.targetURL, "http://")
	req.URL.Scheme = "http"
	req.URL.Host = target
	return t.transport.RoundTrip(req)
}

func TestNewAnthropic_NoAPIKey(t *testing.T) {
	_, err := NewAnthropic("")
	if !errors.Is(err, errors.ErrMissingAPIKey) {
		t.Fatalf("NewAnthropic(\"\") error = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewAnthropic_Options(t *testing.T) {
	o, err := NewAnthropic("test-key",
		WithAnthropicModel("custom-model"),
		WithAnthropicBaseURL("http://proxy.local/"),
		WithAnthropicTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Model() != "custom-model" {
		t.Errorf("Model() = %q, want custom-model", o.Model())
	}
	if o.url != "http://proxy.local/v1/messages" {
		t.Errorf("url = %q", o.url)
	}
	if o.httpClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", o.httpClient.Timeout)
	}

	def, _ := NewAnthropic("k", WithAnthropicModel(""))
	if def.Model() != DefaultAnthropicModel {
		t.Errorf("empty model should keep default, got %q", def.Model())
	}
}

func TestAnthropicOracle_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing or invalid API key header")
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("missing or invalid anthropic-version header")
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MaxTokens != 1000 {
			t.Errorf("max_tokens = %d, want 1000", req.MaxTokens)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "design a cache" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := messagesResponse{
			Content: []contentBlock{
				{Type: "text", Text: "Use an LRU "},
				{Type: "tool_use"},
				{Type: "text", Text: "with TTLs."},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o, err := NewAnthropic("test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o.httpClient.Transport = &testTransport{
		targetURL: server.URL,
		transport: http.DefaultTransport,
	}

	got, err := o.Generate(context.Background(), "design a cache", 1000)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "Use an LRU with TTLs." {
		t.Errorf("Generate() = %q", got)
	}
}

func TestAnthropicOracle_Generate_EmptyTextIsValid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(messagesResponse{Content: []contentBlock{{Type: "text", Text: ""}}})
	}))
	defer server.Close()

	o, _ := NewAnthropic("k", WithAnthropicBaseURL(server.URL))
	got, err := o.Generate(context.Background(), "p", 10)
	if err != nil || got != "" {
		t.Errorf("Generate() = (%q, %v), want (\"\", nil)", got, err)
	}
}

func TestAnthropicOracle_Generate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		retryable  bool
		wantErr    error
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
			wantStatus: 429,
			retryable:  true,
		},
		{
			name:       "bad request",
			status:     http.StatusBadRequest,
			body:       `not json`,
			wantStatus: 400,
		},
		{
			name:    "no content",
			status:  http.StatusOK,
			body:    `{"content":[]}`,
			wantErr: errors.ErrEmptyResponse,
		},
		{
			name:   "error payload",
			status: http.StatusOK,
			body:   `{"error":{"type":"overloaded_error","message":"overloaded"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			o, _ := NewAnthropic("k", WithAnthropicBaseURL(server.URL))
			got, err := o.Generate(context.Background(), "p", 10)
			if err == nil {
				t.Fatalf("Generate() = %q, want error", got)
			}

			var oracleErr *errors.OracleError
			if !errors.As(err, &oracleErr) {
				t.Fatalf("error type = %T, want *errors.OracleError", err)
			}
			if oracleErr.Backend != BackendAnthropic {
				t.Errorf("Backend = %q", oracleErr.Backend)
			}
			if oracleErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", oracleErr.StatusCode, tt.wantStatus)
			}
			if errors.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", errors.IsRetryable(err), tt.retryable)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("errors.Is(err, %v) = false", tt.wantErr)
			}
		})
	}
}

func TestAnthropicOracle_Generate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	o, _ := NewAnthropic("k", WithAnthropicBaseURL(server.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Generate(ctx, "p", 10); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}
