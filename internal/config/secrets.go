package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/subosito/gotenv"
)

// Secrets holds credentials that never live in the config file.
type Secrets struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
}

// LoadSecrets reads credentials from the environment. When envFile is set and
// exists, its entries are loaded first without overriding variables that are
// already set.
func LoadSecrets(envFile string) (Secrets, error) {
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Secrets{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	return parseSecrets(env.Options{})
}

// SecretsFromMap parses credentials from an explicit environment, for tests
// and embedding.
func SecretsFromMap(environ map[string]string) (Secrets, error) {
	return parseSecrets(env.Options{Environment: environ})
}

func parseSecrets(opts env.Options) (Secrets, error) {
	var s Secrets
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Secrets{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// APIKey returns the credential used by the named backend.
func (s Secrets) APIKey(backend string) string {
	switch backend {
	case "anthropic":
		return s.AnthropicAPIKey
	case "openai":
		return s.OpenAIAPIKey
	default:
		return ""
	}
}
