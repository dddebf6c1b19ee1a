// Package tui renders a live view of a running debate: the round counter,
// the current phase, each actor's vote and the final draft.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/dogfight/internal/event"
)

// EventMsg carries a debate event into the bubbletea loop.
type EventMsg struct {
	Event event.Event
}

// voteLine is one rendered vote.
type voteLine struct {
	actor  string
	agree  bool
	parsed bool
	reason string
}

// roundSummary is a completed round.
type roundSummary struct {
	number    int
	agreement float64
	consensus bool
}

// Model is the bubbletea model for a single debate.
type Model struct {
	spinner spinner.Model
	width   int

	problem   string
	actors    []string
	maxRounds int
	threshold float64

	round  int
	phase  string
	votes  []voteLine
	rounds []roundSummary

	finished   bool
	consensus  bool
	finalDraft string

	// quitOnFinish ends the program when the debate finishes.
	quitOnFinish bool
	// onQuit runs when the user quits before the debate finishes.
	onQuit func()
}

// NewModel creates a model for problem. onQuit, when non-nil, is called if the
// user quits early, typically to cancel the debate's context.
func NewModel(problem string, onQuit func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = phaseStyle
	return Model{
		spinner:      sp,
		problem:      problem,
		quitOnFinish: true,
		onQuit:       onQuit,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles key presses, spinner ticks and debate events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.finished && m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		return m.handleEvent(msg.Event)
	}
	return m, nil
}

func (m Model) handleEvent(e event.Event) (tea.Model, tea.Cmd) {
	switch ev := e.(type) {
	case event.DebateStartedEvent:
		m.problem = ev.Problem
		m.actors = ev.Actors
		m.maxRounds = ev.MaxRounds
		m.threshold = ev.Threshold

	case event.PhaseStartedEvent:
		if ev.Round != m.round {
			m.round = ev.Round
			m.votes = nil
		}
		m.phase = ev.Phase

	case event.VoteCastEvent:
		m.votes = append(m.votes, voteLine{
			actor:  ev.Actor,
			agree:  ev.Agree,
			parsed: ev.Parsed,
			reason: ev.Reason,
		})

	case event.RoundCompletedEvent:
		m.rounds = append(m.rounds, roundSummary{
			number:    ev.Round,
			agreement: ev.Agreement,
			consensus: ev.Consensus,
		})
		m.phase = ""

	case event.DebateFinishedEvent:
		m.finished = true
		m.consensus = ev.Consensus
		m.finalDraft = ev.FinalDraft
		m.phase = ""
		if m.quitOnFinish {
			return m, tea.Quit
		}
	}
	return m, nil
}

// Finished reports whether the debate has finished.
func (m Model) Finished() bool { return m.finished }

// FinalDraft returns the draft from the finished event, if any.
func (m Model) FinalDraft() string { return m.finalDraft }

// View renders the debate.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dogfight"))
	if m.maxRounds > 0 {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  round %d/%d · threshold %.2f", m.round, m.maxRounds, m.threshold)))
	}
	b.WriteString("\n")
	if m.problem != "" {
		b.WriteString(mutedStyle.Render(truncate(m.problem, m.lineWidth())))
		b.WriteString("\n")
	}
	if len(m.actors) > 0 {
		b.WriteString(mutedStyle.Render("actors: " + strings.Join(m.actors, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, r := range m.rounds {
		mark := disagreeStyle.Render("✗")
		if r.consensus {
			mark = agreeStyle.Render("✓")
		}
		fmt.Fprintf(&b, "%s round %d: %.0f%% agreement\n", mark, r.number, r.agreement*100)
	}

	if !m.finished && m.phase != "" {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), phaseStyle.Render(phaseLabel(m.phase)))
	}

	if len(m.votes) > 0 {
		b.WriteString("\n")
		for _, v := range m.votes {
			b.WriteString(renderVote(v, m.lineWidth()))
			b.WriteString("\n")
		}
	}

	if m.finished {
		b.WriteString("\n")
		if m.consensus {
			b.WriteString(consensusStyle.Render("Consensus reached"))
		} else {
			b.WriteString(noConsensusStyle.Render("No consensus; showing the last draft"))
		}
		b.WriteString("\n")
		b.WriteString(draftBox.Render(m.finalDraft))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("q to quit"))
	}

	return b.String()
}

func (m Model) lineWidth() int {
	if m.width <= 0 {
		return 100
	}
	return m.width
}

func renderVote(v voteLine, width int) string {
	label := agreeStyle.Render("AGREE   ")
	if !v.agree {
		label = disagreeStyle.Render("DISAGREE")
	}
	reason := strings.Join(strings.Fields(v.reason), " ")
	if !v.parsed {
		reason = "(no well-formed vote)"
	}
	// 8 for the label plus separators.
	reason = truncate(reason, width-len([]rune(v.actor))-11)
	return fmt.Sprintf("%s %s: %s", label, v.actor, reason)
}

func phaseLabel(phase string) string {
	switch phase {
	case event.PhasePropose:
		return "actors are proposing"
	case event.PhaseSynthesize:
		return "scribe is drafting"
	case event.PhaseVote:
		return "actors are voting"
	default:
		return phase
	}
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
