package oracle

import (
	"context"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Iron-Ham/dogfight/internal/errors"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIOracle implements TextOracle with the chat completions API. Any
// OpenAI-compatible endpoint (OpenRouter, LM Studio, vLLM) works through
// WithOpenAIBaseURL.
type OpenAIOracle struct {
	client openai.Client
	model  string
}

type openAIOptions struct {
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// OpenAIOption configures an OpenAIOracle.
type OpenAIOption func(*openAIOptions)

// WithOpenAIModel sets the model. An empty model keeps the default.
func WithOpenAIModel(model string) OpenAIOption {
	return func(o *openAIOptions) {
		if model != "" {
			o.model = model
		}
	}
}

// WithOpenAIBaseURL points the client at a compatible endpoint.
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(o *openAIOptions) { o.baseURL = baseURL }
}

// WithOpenAITimeout sets the HTTP client timeout. 0 disables it.
func WithOpenAITimeout(timeout time.Duration) OpenAIOption {
	return func(o *openAIOptions) { o.timeout = timeout }
}

// WithOpenAIHTTPClient replaces the HTTP client. The timeout option is
// ignored when a client is supplied.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(o *openAIOptions) { o.httpClient = client }
}

// NewOpenAI creates an OpenAIOracle. It fails when apiKey is empty.
func NewOpenAI(apiKey string, opts ...OpenAIOption) (*OpenAIOracle, error) {
	if apiKey == "" {
		return nil, errors.NewOracleError(BackendOpenAI, "OPENAI_API_KEY is not set", errors.ErrMissingAPIKey)
	}

	o := openAIOptions{model: DefaultOpenAIModel, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		// Retries are the caller's decision; a debate never retries.
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &OpenAIOracle{
		client: openai.NewClient(reqOpts...),
		model:  o.model,
	}, nil
}

// Model returns the configured model name.
func (o *OpenAIOracle) Model() string { return o.model }

// Generate sends prompt as a single user message and returns the first
// choice's content.
func (o *OpenAIOracle) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		oracleErr := errors.NewOracleError(BackendOpenAI, "chat completion", err)
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			oracleErr.WithStatus(apiErr.StatusCode)
		}
		return "", oracleErr
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewOracleError(BackendOpenAI, "no choices", errors.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
