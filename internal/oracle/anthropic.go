package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Iron-Ham/dogfight/internal/errors"
)

const (
	// anthropicAPIURL is the Anthropic Messages API endpoint.
	anthropicAPIURL = "https://api.anthropic.com/v1/messages"

	// anthropicVersion is the API version header value.
	anthropicVersion = "2023-06-01"

	// DefaultAnthropicModel is used when no model is configured.
	DefaultAnthropicModel = "claude-3-7-sonnet-latest"

	// defaultTimeout bounds a single oracle call.
	defaultTimeout = 120 * time.Second
)

// AnthropicOracle implements TextOracle using the Anthropic Messages API.
type AnthropicOracle struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// AnthropicOption configures an AnthropicOracle.
type AnthropicOption func(*AnthropicOracle)

// WithAnthropicModel sets the model. An empty model keeps the default.
func WithAnthropicModel(model string) AnthropicOption {
	return func(o *AnthropicOracle) {
		if model != "" {
			o.model = model
		}
	}
}

// WithAnthropicBaseURL points the client at a compatible endpoint. The
// messages path is appended to baseURL.
func WithAnthropicBaseURL(baseURL string) AnthropicOption {
	return func(o *AnthropicOracle) {
		if baseURL != "" {
			o.url = strings.TrimRight(baseURL, "/") + "/v1/messages"
		}
	}
}

// WithAnthropicTimeout sets the HTTP client timeout. 0 disables it.
func WithAnthropicTimeout(timeout time.Duration) AnthropicOption {
	return func(o *AnthropicOracle) {
		o.httpClient.Timeout = timeout
	}
}

// WithAnthropicHTTPClient replaces the HTTP client.
func WithAnthropicHTTPClient(client *http.Client) AnthropicOption {
	return func(o *AnthropicOracle) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// NewAnthropic creates an AnthropicOracle. It fails when apiKey is empty.
func NewAnthropic(apiKey string, opts ...AnthropicOption) (*AnthropicOracle, error) {
	if apiKey == "" {
		return nil, errors.NewOracleError(BackendAnthropic, "ANTHROPIC_API_KEY is not set", errors.ErrMissingAPIKey)
	}

	o := &AnthropicOracle{
		apiKey:     apiKey,
		model:      DefaultAnthropicModel,
		url:        anthropicAPIURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Model returns the configured model name.
func (o *AnthropicOracle) Model() string { return o.model }

// messagesRequest is the Anthropic Messages API request structure.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic Messages API response structure.
type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Generate sends prompt as a single user message and returns the
// concatenated text blocks of the reply.
func (o *AnthropicOracle) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reqBytes, err := json.Marshal(messagesRequest{
		Model:     o.model,
		MaxTokens: maxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", errors.NewOracleError(BackendAnthropic, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(reqBytes))
	if err != nil {
		return "", errors.NewOracleError(BackendAnthropic, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", o.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", errors.NewOracleError(BackendAnthropic, "send request", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewOracleError(BackendAnthropic, "read response", err).WithStatus(resp.StatusCode)
	}

	var respData messagesResponse
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &respData) == nil && respData.Error != nil {
			msg = respData.Error.Message
		}
		return "", errors.NewOracleError(BackendAnthropic, fmt.Sprintf("API error: %s", msg), nil).WithStatus(resp.StatusCode)
	}

	if err := json.Unmarshal(body, &respData); err != nil {
		return "", errors.NewOracleError(BackendAnthropic, "unmarshal response", err)
	}
	if respData.Error != nil {
		return "", errors.NewOracleError(BackendAnthropic, "API error: "+respData.Error.Message, nil)
	}
	if len(respData.Content) == 0 {
		return "", errors.NewOracleError(BackendAnthropic, "no content blocks", errors.ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, block := range respData.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
