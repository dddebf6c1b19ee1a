package dogfight

import (
	"context"
	"sync"

	"github.com/Iron-Ham/dogfight/internal/logging"
	"github.com/Iron-Ham/dogfight/internal/oracle"
)

// Actor is a named, expertise-tagged participant. Name and expertise never
// change after construction.
type Actor struct {
	name      string
	expertise string
	oracle    oracle.TextOracle
	maxTokens int
	debug     bool
	logger    *logging.Logger

	mu           sync.Mutex
	lastProposal string
}

// NewActor creates an actor that talks to o. A nil logger discards output.
func NewActor(spec ActorSpec, o oracle.TextOracle, cfg Config, logger *logging.Logger) *Actor {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Actor{
		name:      spec.Name,
		expertise: spec.Expertise,
		oracle:    o,
		maxTokens: cfg.maxTokens(),
		debug:     cfg.Debug,
		logger:    logger.WithActor(spec.Name),
	}
}

// Name returns the actor's name.
func (a *Actor) Name() string { return a.name }

// Expertise returns the actor's expertise description.
func (a *Actor) Expertise() string { return a.expertise }

// LastProposal returns the most recent proposal this actor produced.
func (a *Actor) LastProposal() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastProposal
}

// ProposeDraft asks the oracle for this actor's proposal. currentDraft, when
// non-empty, is included as context. The oracle's text is returned verbatim;
// a failed call yields "".
func (a *Actor) ProposeDraft(ctx context.Context, problem, currentDraft string) string {
	prompt := buildProposalPrompt(a.name, a.expertise, problem, currentDraft)

	proposal, err := a.oracle.Generate(ctx, prompt, a.maxTokens)
	if err != nil {
		a.logger.Warn("proposal generation failed", "error", err.Error())
		proposal = ""
	}

	a.mu.Lock()
	a.lastProposal = proposal
	a.mu.Unlock()

	if a.debug {
		a.logger.Debug("proposal generated", "chars", len(proposal), "with_draft", currentDraft != "")
	}
	return proposal
}

// VoteOnDraft asks the oracle to vote on draft. An empty draft is voted on
// like any other. A failed call or unparseable reply is a disagreement.
func (a *Actor) VoteOnDraft(ctx context.Context, problem, draft string) Vote {
	prompt := buildVotePrompt(a.name, a.expertise, problem, draft)

	reply, err := a.oracle.Generate(ctx, prompt, a.maxTokens)
	if err != nil {
		a.logger.Warn("vote generation failed", "error", err.Error())
		reply = ""
	}

	vote := ParseVoteResult(reply)
	vote.Actor = a.name

	if a.debug {
		if !vote.Parsed {
			a.logger.Debug("could not parse vote, counting as disagree", "response", reply)
		}
		a.logger.Debug("vote cast", "agree", vote.Agree, "reason", vote.Reason)
	}
	return vote
}
