package dogfight

import (
	"context"
	"sync"

	"github.com/Iron-Ham/dogfight/internal/errors"
	"github.com/Iron-Ham/dogfight/internal/logging"
	"github.com/Iron-Ham/dogfight/internal/oracle"
)

// Scribe consolidates a round's proposals into a single draft.
type Scribe struct {
	oracle    oracle.TextOracle
	maxTokens int
	debug     bool
	logger    *logging.Logger

	mu        sync.Mutex
	lastDraft string
}

// NewScribe creates a scribe that talks to o. A nil logger discards output.
func NewScribe(o oracle.TextOracle, cfg Config, logger *logging.Logger) *Scribe {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scribe{
		oracle:    o,
		maxTokens: cfg.maxTokens(),
		debug:     cfg.Debug,
		logger:    logger.With("role", "scribe"),
	}
}

// LastDraft returns the most recent draft this scribe produced.
func (s *Scribe) LastDraft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDraft
}

// SynthesizeDraft joins proposals, in the order given, into one prompt and
// returns the oracle's draft verbatim. Empty proposals return ErrNoProposals
// without calling the oracle. A failed call yields "" and a nil error.
func (s *Scribe) SynthesizeDraft(ctx context.Context, problem string, proposals []string) (string, error) {
	if len(proposals) == 0 {
		return "", errors.ErrNoProposals
	}

	draft, err := s.oracle.Generate(ctx, buildScribePrompt(problem, proposals), s.maxTokens)
	if err != nil {
		s.logger.Warn("draft synthesis failed", "error", err.Error())
		draft = ""
	}

	s.mu.Lock()
	s.lastDraft = draft
	s.mu.Unlock()

	if s.debug {
		s.logger.Debug("draft generated", "proposals", len(proposals), "chars", len(draft))
	}
	return draft, nil
}
