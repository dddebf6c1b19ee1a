package oracle

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/dogfight/internal/config"
	"github.com/Iron-Ham/dogfight/internal/errors"
)

// NewFromConfig builds the configured backend. Credentials come from
// secrets, never from the config file.
func NewFromConfig(cfg config.OracleConfig, secrets config.Secrets) (TextOracle, error) {
	backend := strings.ToLower(cfg.Backend)
	switch backend {
	case BackendAnthropic, "":
		o, err := NewAnthropic(secrets.AnthropicAPIKey,
			WithAnthropicModel(cfg.Model),
			WithAnthropicBaseURL(cfg.BaseURL),
			WithAnthropicTimeout(cfg.Timeout()),
		)
		if err != nil {
			return nil, err
		}
		return o, nil
	case BackendOpenAI:
		o, err := NewOpenAI(secrets.OpenAIAPIKey,
			WithOpenAIModel(cfg.Model),
			WithOpenAIBaseURL(cfg.BaseURL),
			WithOpenAITimeout(cfg.Timeout()),
		)
		if err != nil {
			return nil, err
		}
		return o, nil
	case BackendEcho:
		return NewEcho(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownBackend, cfg.Backend)
	}
}
