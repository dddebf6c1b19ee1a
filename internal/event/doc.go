// Package event provides a pub-sub event bus for following a debate from the
// outside.
//
// The debate loop publishes events as it moves through rounds and phases.
// Observers such as the TUI subscribe without the loop knowing about them.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Debate Events
//
//   - [DebateStartedEvent]: roster, problem and parameters, once per debate
//   - [PhaseStartedEvent]: a round entered propose, synthesize or vote
//   - [VoteCastEvent]: one actor's decision, published in roster order
//   - [RoundCompletedEvent]: the round's draft and agreement fraction
//   - [DebateFinishedEvent]: final draft and whether consensus was reached
//
// # Delivery
//
// Publish calls handlers synchronously on the publisher's goroutine, specific
// subscribers before wildcard ones. Handlers that block stall the debate;
// handlers that hand off to another goroutine (as the TUI does with
// tea.Program.Send) should do so without waiting.
package event
