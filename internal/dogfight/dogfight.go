package dogfight

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Iron-Ham/dogfight/internal/errors"
	"github.com/Iron-Ham/dogfight/internal/event"
	"github.com/Iron-Ham/dogfight/internal/logging"
	"github.com/Iron-Ham/dogfight/internal/oracle"
)

// Defaults for Config fields.
const (
	DefaultMaxRounds          = 3
	DefaultConsensusThreshold = 0.67
	DefaultMaxTokens          = 1000
)

const tracerName = "github.com/Iron-Ham/dogfight/internal/dogfight"

// ActorSpec names one roster entry.
type ActorSpec struct {
	Name      string `json:"name" yaml:"name" toml:"name"`
	Expertise string `json:"expertise" yaml:"expertise" toml:"expertise"`
}

// Config holds the debate parameters.
type Config struct {
	// MaxRounds is the round budget, at least 1.
	MaxRounds int
	// ConsensusThreshold is the agreeing fraction of the roster, in (0, 1],
	// that ends the debate.
	ConsensusThreshold float64
	// MaxTokens is passed to every oracle call. 0 or less uses DefaultMaxTokens.
	MaxTokens int
	// Debug logs proposals, drafts and votes at debug level.
	Debug bool
}

// DefaultConfig returns 3 rounds, a 0.67 threshold and 1000 tokens.
func DefaultConfig() Config {
	return Config{
		MaxRounds:          DefaultMaxRounds,
		ConsensusThreshold: DefaultConsensusThreshold,
		MaxTokens:          DefaultMaxTokens,
	}
}

func (c Config) maxTokens() int {
	if c.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return c.MaxTokens
}

// Option configures optional Dogfight collaborators.
type Option func(*Dogfight)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *logging.Logger) Option {
	return func(d *Dogfight) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithEventBus publishes debate events on bus.
func WithEventBus(bus *event.Bus) Option {
	return func(d *Dogfight) { d.bus = bus }
}

// WithTracer sets the tracer for debate and round spans. The default uses the
// global tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dogfight) {
		if tracer != nil {
			d.tracer = tracer
		}
	}
}

// Dogfight runs the round protocol over a fixed roster. The roster order
// given to New is the order of proposals, votes and events for every round.
type Dogfight struct {
	actors  []*Actor
	scribe  *Scribe
	cfg     Config
	workers int

	logger *logging.Logger
	bus    *event.Bus
	tracer trace.Tracer
}

// New validates the roster and parameters and builds the actors and scribe.
// Errors are *errors.ConfigError wrapping one of ErrNilOracle, ErrEmptyRoster,
// ErrEmptyActorName, ErrDuplicateActor, ErrInvalidMaxRounds or
// ErrInvalidThreshold.
func New(roster []ActorSpec, o oracle.TextOracle, cfg Config, opts ...Option) (*Dogfight, error) {
	if o == nil {
		return nil, errors.NewConfigError("oracle", nil, errors.ErrNilOracle)
	}
	if len(roster) == 0 {
		return nil, errors.NewConfigError("roster", 0, errors.ErrEmptyRoster)
	}
	seen := make(map[string]bool, len(roster))
	for _, spec := range roster {
		if strings.TrimSpace(spec.Name) == "" {
			return nil, errors.NewConfigError("roster", spec.Name, errors.ErrEmptyActorName)
		}
		if seen[spec.Name] {
			return nil, errors.NewConfigError("roster", spec.Name, errors.ErrDuplicateActor)
		}
		seen[spec.Name] = true
	}
	if cfg.MaxRounds < 1 {
		return nil, errors.NewConfigError("max_rounds", cfg.MaxRounds, errors.ErrInvalidMaxRounds)
	}
	// Written as a negation so NaN is rejected too.
	if !(cfg.ConsensusThreshold > 0 && cfg.ConsensusThreshold <= 1) {
		return nil, errors.NewConfigError("consensus_threshold", cfg.ConsensusThreshold, errors.ErrInvalidThreshold)
	}

	d := &Dogfight{
		cfg:     cfg,
		workers: max(len(roster), 1),
		logger:  logging.NopLogger(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.actors = make([]*Actor, len(roster))
	for i, spec := range roster {
		d.actors[i] = NewActor(spec, o, cfg, d.logger)
	}
	d.scribe = NewScribe(o, cfg, d.logger)
	return d, nil
}

// Actors returns the roster in canonical order.
func (d *Dogfight) Actors() []*Actor {
	out := make([]*Actor, len(d.actors))
	copy(out, d.actors)
	return out
}

// Scribe returns the debate's scribe.
func (d *Dogfight) Scribe() *Scribe { return d.scribe }

// Config returns the parameters the debate was built with.
func (d *Dogfight) Config() Config { return d.cfg }

// Debate runs the protocol on problem and returns the final round's draft,
// whether or not consensus was reached. It never fails: oracle errors
// degrade to empty proposals, drafts and disagreeing votes.
func (d *Dogfight) Debate(ctx context.Context, problem string) string {
	return d.Run(ctx, problem).FinalDraft
}

// Run is Debate with the full per-round record. Rounds stop early, keeping
// the latest draft, if ctx is done before a round starts.
func (d *Dogfight) Run(ctx context.Context, problem string) Transcript {
	start := time.Now()
	debateID := uuid.NewString()
	log := d.logger.WithDebate(debateID)

	ctx, span := d.tracer.Start(ctx, "dogfight.debate", trace.WithAttributes(
		attribute.String("dogfight.debate_id", debateID),
		attribute.Int("dogfight.actors", len(d.actors)),
		attribute.Int("dogfight.max_rounds", d.cfg.MaxRounds),
		attribute.Float64("dogfight.consensus_threshold", d.cfg.ConsensusThreshold),
	))
	defer span.End()

	d.publish(event.NewDebateStartedEvent(debateID, problem, d.actorNames(), d.cfg.MaxRounds, d.cfg.ConsensusThreshold))
	log.Info("debate started",
		"actors", len(d.actors),
		"max_rounds", d.cfg.MaxRounds,
		"consensus_threshold", d.cfg.ConsensusThreshold)

	transcript := Transcript{DebateID: debateID, Problem: problem}
	draft := ""
	for n := 1; n <= d.cfg.MaxRounds; n++ {
		if err := ctx.Err(); err != nil {
			log.Warn("debate stopped before round", "round", n, "error", err.Error())
			break
		}

		round := d.runRound(ctx, log.WithRound(n), debateID, n, problem, draft)
		transcript.Rounds = append(transcript.Rounds, round)
		draft = round.Draft
		if round.Consensus {
			transcript.Consensus = true
			break
		}
	}

	transcript.FinalDraft = draft
	transcript.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("dogfight.rounds", len(transcript.Rounds)),
		attribute.Bool("dogfight.consensus", transcript.Consensus),
	)
	d.publish(event.NewDebateFinishedEvent(debateID, len(transcript.Rounds), transcript.Consensus, draft, transcript.Duration))
	log.Info("debate finished",
		"rounds", len(transcript.Rounds),
		"consensus", transcript.Consensus,
		"duration_ms", transcript.Duration.Milliseconds())

	return transcript
}

// runRound executes propose, synthesize, vote and evaluation for round n.
func (d *Dogfight) runRound(ctx context.Context, log *logging.Logger, debateID string, n int, problem, prevDraft string) Round {
	ctx, span := d.tracer.Start(ctx, "dogfight.round", trace.WithAttributes(
		attribute.Int("dogfight.round", n),
	))
	defer span.End()

	d.publish(event.NewPhaseStartedEvent(debateID, n, event.PhasePropose))
	texts := d.propose(ctx, problem, prevDraft)

	d.publish(event.NewPhaseStartedEvent(debateID, n, event.PhaseSynthesize))
	draft, err := d.scribe.SynthesizeDraft(ctx, problem, texts)
	if err != nil {
		// Unreachable with a validated roster.
		log.Error("draft synthesis rejected", "error", err.Error())
	}

	d.publish(event.NewPhaseStartedEvent(debateID, n, event.PhaseVote))
	votes := d.vote(ctx, problem, draft)
	for _, v := range votes {
		d.publish(event.NewVoteCastEvent(debateID, n, v.Actor, v.Agree, v.Reason, v.Parsed))
	}

	agreement := agreementFraction(votes)
	consensus := agreement >= d.cfg.ConsensusThreshold

	round := Round{
		Number:    n,
		Proposals: make([]Proposal, len(texts)),
		Draft:     draft,
		Votes:     votes,
		Agreement: agreement,
		Consensus: consensus,
	}
	for i, text := range texts {
		round.Proposals[i] = Proposal{Actor: d.actors[i].Name(), Text: text}
	}

	span.SetAttributes(
		attribute.Float64("dogfight.agreement", agreement),
		attribute.Bool("dogfight.consensus", consensus),
	)
	d.publish(event.NewRoundCompletedEvent(debateID, n, draft, agreement, consensus))
	log.Info("round completed",
		"agree", countAgrees(votes),
		"votes", len(votes),
		"agreement", agreement,
		"consensus", consensus)

	return round
}

// propose fans ProposeDraft out to every actor and returns the proposals in
// roster order.
func (d *Dogfight) propose(ctx context.Context, problem, draft string) []string {
	mapper := iter.Mapper[*Actor, string]{MaxGoroutines: d.workers}
	return mapper.Map(d.actors, func(a **Actor) string {
		return (*a).ProposeDraft(ctx, problem, draft)
	})
}

// vote fans VoteOnDraft out to every actor and returns the votes in roster order.
func (d *Dogfight) vote(ctx context.Context, problem, draft string) []Vote {
	mapper := iter.Mapper[*Actor, Vote]{MaxGoroutines: d.workers}
	return mapper.Map(d.actors, func(a **Actor) Vote {
		return (*a).VoteOnDraft(ctx, problem, draft)
	})
}

func (d *Dogfight) publish(e event.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}

func (d *Dogfight) actorNames() []string {
	names := make([]string, len(d.actors))
	for i, a := range d.actors {
		names[i] = a.Name()
	}
	return names
}
