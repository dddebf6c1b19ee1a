package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default config should be valid, got: %v", ValidationErrors(errs))
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"zero rounds", func(c *Config) { c.Debate.MaxRounds = 0 }, "debate.max_rounds"},
		{"zero threshold", func(c *Config) { c.Debate.ConsensusThreshold = 0 }, "debate.consensus_threshold"},
		{"threshold above one", func(c *Config) { c.Debate.ConsensusThreshold = 1.01 }, "debate.consensus_threshold"},
		{"zero max tokens", func(c *Config) { c.Debate.MaxTokens = 0 }, "debate.max_tokens"},
		{"empty roster", func(c *Config) { c.Debate.Roster = nil }, "debate.roster"},
		{"blank actor name", func(c *Config) { c.Debate.Roster[1].Name = "  " }, "debate.roster[1].name"},
		{"duplicate actor", func(c *Config) { c.Debate.Roster[2].Name = c.Debate.Roster[0].Name }, "debate.roster[2].name"},
		{"unknown backend", func(c *Config) { c.Oracle.Backend = "gemini" }, "oracle.backend"},
		{"negative timeout", func(c *Config) { c.Oracle.TimeoutSeconds = -1 }, "oracle.timeout_seconds"},
		{"relative base url", func(c *Config) { c.Oracle.BaseURL = "api.example.com" }, "oracle.base_url"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
		{"unknown transport", func(c *Config) { c.Server.Transport = "grpc" }, "server.transport"},
		{"http without addr", func(c *Config) { c.Server.Transport = "http"; c.Server.HTTPAddr = "" }, "server.http_addr"},
		{"watch without file", func(c *Config) { c.Server.WatchRoster = true }, "server.watch_roster"},
		{"bad tracing endpoint", func(c *Config) { c.Tracing.Endpoint = "localhost:4318" }, "tracing.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), ValidationErrors(errs))
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_RosterFileAllowsEmptyRoster(t *testing.T) {
	cfg := Default()
	cfg.Debate.Roster = nil
	cfg.Debate.RosterFile = "roster.yaml"
	cfg.Server.WatchRoster = true

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", ValidationErrors(errs))
	}
}

func TestConfig_Validate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Debate.MaxRounds = 0
	cfg.Oracle.Backend = ""
	cfg.Server.Transport = ""

	if errs := cfg.Validate(); len(errs) != 3 {
		t.Errorf("Validate() returned %d errors, want 3: %v", len(errs), ValidationErrors(errs))
	}
}
