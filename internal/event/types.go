package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "debate.started", "debate.vote")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeDebateStarted  = "debate.started"
	TypePhaseStarted   = "debate.phase"
	TypeVoteCast       = "debate.vote"
	TypeRoundCompleted = "debate.round_completed"
	TypeDebateFinished = "debate.finished"
)

// Round phases, in the order they run.
const (
	PhasePropose    = "propose"
	PhaseSynthesize = "synthesize"
	PhaseVote       = "vote"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// DebateStartedEvent is emitted once before the first round.
type DebateStartedEvent struct {
	baseEvent
	DebateID  string
	Problem   string
	Actors    []string // roster order
	MaxRounds int
	Threshold float64
}

// NewDebateStartedEvent creates a DebateStartedEvent.
func NewDebateStartedEvent(debateID, problem string, actors []string, maxRounds int, threshold float64) DebateStartedEvent {
	return DebateStartedEvent{
		baseEvent: newBaseEvent(TypeDebateStarted),
		DebateID:  debateID,
		Problem:   problem,
		Actors:    actors,
		MaxRounds: maxRounds,
		Threshold: threshold,
	}
}

// PhaseStartedEvent is emitted when a round enters a phase.
type PhaseStartedEvent struct {
	baseEvent
	DebateID string
	Round    int // 1-based
	Phase    string
}

// NewPhaseStartedEvent creates a PhaseStartedEvent.
func NewPhaseStartedEvent(debateID string, round int, phase string) PhaseStartedEvent {
	return PhaseStartedEvent{
		baseEvent: newBaseEvent(TypePhaseStarted),
		DebateID:  debateID,
		Round:     round,
		Phase:     phase,
	}
}

// VoteCastEvent is emitted for every vote after the vote barrier, in roster order.
type VoteCastEvent struct {
	baseEvent
	DebateID string
	Round    int
	Actor    string
	Agree    bool
	Reason   string
	Parsed   bool // false when the response carried no well-formed vote
}

// NewVoteCastEvent creates a VoteCastEvent.
func NewVoteCastEvent(debateID string, round int, actor string, agree bool, reason string, parsed bool) VoteCastEvent {
	return VoteCastEvent{
		baseEvent: newBaseEvent(TypeVoteCast),
		DebateID:  debateID,
		Round:     round,
		Actor:     actor,
		Agree:     agree,
		Reason:    reason,
		Parsed:    parsed,
	}
}

// RoundCompletedEvent is emitted after a round's agreement has been evaluated.
type RoundCompletedEvent struct {
	baseEvent
	DebateID  string
	Round     int
	Draft     string
	Agreement float64 // fraction of the roster that agreed
	Consensus bool
}

// NewRoundCompletedEvent creates a RoundCompletedEvent.
func NewRoundCompletedEvent(debateID string, round int, draft string, agreement float64, consensus bool) RoundCompletedEvent {
	return RoundCompletedEvent{
		baseEvent: newBaseEvent(TypeRoundCompleted),
		DebateID:  debateID,
		Round:     round,
		Draft:     draft,
		Agreement: agreement,
		Consensus: consensus,
	}
}

// DebateFinishedEvent is emitted once when a debate returns.
type DebateFinishedEvent struct {
	baseEvent
	DebateID   string
	Rounds     int
	Consensus  bool
	FinalDraft string
	Duration   time.Duration
}

// NewDebateFinishedEvent creates a DebateFinishedEvent.
func NewDebateFinishedEvent(debateID string, rounds int, consensus bool, finalDraft string, duration time.Duration) DebateFinishedEvent {
	return DebateFinishedEvent{
		baseEvent:  newBaseEvent(TypeDebateFinished),
		DebateID:   debateID,
		Rounds:     rounds,
		Consensus:  consensus,
		FinalDraft: finalDraft,
		Duration:   duration,
	}
}
