package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/dogfight/internal/config"
	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/logging"
	"github.com/Iron-Ham/dogfight/internal/oracle"
	"github.com/Iron-Ham/dogfight/internal/roster"
	"github.com/Iron-Ham/dogfight/internal/tracing"
)

// runtime bundles what every debate-running command builds from config.
type runtime struct {
	cfg      *config.Config
	logger   *logging.Logger
	oracle   oracle.TextOracle
	shutdown tracing.ShutdownFunc
}

// newRuntime loads and validates config, then builds the logger, tracing and
// oracle in that order.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := CreateLogger(cfg)

	shutdown, err := tracing.Setup(ctx, cfg.Tracing, tracing.ServiceName)
	if err != nil {
		logger.Warn("tracing disabled", "error", err.Error())
	}

	secrets, err := config.LoadSecrets(envFile)
	if err != nil {
		_ = shutdown(ctx)
		_ = logger.Close()
		return nil, err
	}
	o, err := oracle.NewFromConfig(cfg.Oracle, secrets)
	if err != nil {
		_ = shutdown(ctx)
		_ = logger.Close()
		return nil, fmt.Errorf("create oracle: %w", err)
	}
	if cfg.Tracing.Enabled {
		o = oracle.Traced(o, cfg.Oracle.Backend, nil)
	}

	return &runtime{cfg: cfg, logger: logger, oracle: o, shutdown: shutdown}, nil
}

// Close flushes spans and closes the log file.
func (r *runtime) Close(ctx context.Context) {
	if err := r.shutdown(ctx); err != nil {
		r.logger.Warn("tracing shutdown failed", "error", err.Error())
	}
	_ = r.logger.Close()
}

// debateConfig maps the debate section onto the protocol parameters.
func debateConfig(cfg *config.Config) dogfight.Config {
	return dogfight.Config{
		MaxRounds:          cfg.Debate.MaxRounds,
		ConsensusThreshold: cfg.Debate.ConsensusThreshold,
		MaxTokens:          cfg.Debate.MaxTokens,
		Debug:              cfg.Debate.Debug,
	}
}

// resolveRoster returns the roster file's actors when one is configured, and
// the inline roster otherwise.
func resolveRoster(fsys afero.Fs, cfg *config.Config) ([]dogfight.ActorSpec, error) {
	if cfg.Debate.RosterFile != "" {
		return roster.Load(fsys, cfg.Debate.RosterFile)
	}
	specs := make([]dogfight.ActorSpec, len(cfg.Debate.Roster))
	for i, a := range cfg.Debate.Roster {
		specs[i] = dogfight.ActorSpec{Name: a.Name, Expertise: a.Expertise}
	}
	return specs, nil
}

// CreateLogger creates a logger if logging is enabled in config.
// Returns a NopLogger if logging is disabled or if creation fails.
func CreateLogger(cfg *config.Config) *logging.Logger {
	if !cfg.Logging.Enabled {
		return logging.NopLogger()
	}

	rotationConfig := logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}

	logger, err := logging.NewLoggerWithRotation(cfg.Logging.ResolveDir(), cfg.Logging.Level, rotationConfig)
	if err != nil {
		// Log creation failure shouldn't prevent the application from starting
		fmt.Fprintf(os.Stderr, "Warning: failed to create logger: %v\n", err)
		return logging.NopLogger()
	}
	return logger
}
