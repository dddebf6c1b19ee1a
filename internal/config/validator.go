package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "debate.max_rounds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateDebate()...)
	errors = append(errors, c.validateRoster()...)
	errors = append(errors, c.validateOracle()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateTracing()...)

	return errors
}

// validateDebate validates the round parameters of DebateConfig
func (c *Config) validateDebate() []ValidationError {
	var errors []ValidationError

	if c.Debate.MaxRounds < 1 {
		errors = append(errors, ValidationError{
			Field:   "debate.max_rounds",
			Value:   c.Debate.MaxRounds,
			Message: "must be at least 1",
		})
	}

	if c.Debate.ConsensusThreshold <= 0 || c.Debate.ConsensusThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "debate.consensus_threshold",
			Value:   c.Debate.ConsensusThreshold,
			Message: "must be greater than 0 and at most 1",
		})
	}

	if c.Debate.MaxTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "debate.max_tokens",
			Value:   c.Debate.MaxTokens,
			Message: "must be at least 1",
		})
	}

	return errors
}

// validateRoster validates the inline roster. An empty inline roster is
// accepted when a roster file is configured, since the file replaces it.
func (c *Config) validateRoster() []ValidationError {
	var errors []ValidationError

	if len(c.Debate.Roster) == 0 {
		if c.Debate.RosterFile == "" {
			errors = append(errors, ValidationError{
				Field:   "debate.roster",
				Value:   0,
				Message: "at least one actor is required when debate.roster_file is not set",
			})
		}
		return errors
	}

	seen := make(map[string]bool, len(c.Debate.Roster))
	for i, actor := range c.Debate.Roster {
		field := fmt.Sprintf("debate.roster[%d].name", i)
		name := strings.TrimSpace(actor.Name)
		if name == "" {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   actor.Name,
				Message: "cannot be empty",
			})
			continue
		}
		if seen[name] {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   actor.Name,
				Message: "duplicates an earlier actor name",
			})
		}
		seen[name] = true
	}

	return errors
}

// validateOracle validates the OracleConfig
func (c *Config) validateOracle() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidBackends(), c.Oracle.Backend) {
		errors = append(errors, ValidationError{
			Field:   "oracle.backend",
			Value:   c.Oracle.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	if c.Oracle.TimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "oracle.timeout_seconds",
			Value:   c.Oracle.TimeoutSeconds,
			Message: "must be non-negative",
		})
	}

	if c.Oracle.BaseURL != "" && !isHTTPURL(c.Oracle.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "oracle.base_url",
			Value:   c.Oracle.BaseURL,
			Message: "must be an absolute http or https URL",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateServer validates the ServerConfig
func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidTransports(), c.Server.Transport) {
		errors = append(errors, ValidationError{
			Field:   "server.transport",
			Value:   c.Server.Transport,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidTransports(), ", ")),
		})
	}

	if c.Server.Transport == "http" && strings.TrimSpace(c.Server.HTTPAddr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.http_addr",
			Value:   c.Server.HTTPAddr,
			Message: "is required when server.transport is http",
		})
	}

	if c.Server.WatchRoster && c.Debate.RosterFile == "" {
		errors = append(errors, ValidationError{
			Field:   "server.watch_roster",
			Value:   c.Server.WatchRoster,
			Message: "requires debate.roster_file",
		})
	}

	return errors
}

// validateTracing validates the TracingConfig
func (c *Config) validateTracing() []ValidationError {
	var errors []ValidationError

	if c.Tracing.Endpoint != "" && !isHTTPURL(c.Tracing.Endpoint) {
		errors = append(errors, ValidationError{
			Field:   "tracing.endpoint",
			Value:   c.Tracing.Endpoint,
			Message: "must be an absolute http or https URL",
		})
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
