package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/dogfight/internal/errors"
	"github.com/Iron-Ham/dogfight/internal/event"
)

// Run shows a live view of debate while it runs. Events published on bus are
// forwarded to the view; debate must publish there. Quitting the view cancels
// the context passed to debate. Run returns debate's result once both the
// debate and the view have finished.
func Run(ctx context.Context, bus *event.Bus, problem string, out io.Writer, debate func(context.Context) string) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	p := tea.NewProgram(NewModel(problem, cancel), opts...)

	subID := bus.SubscribeAll(func(e event.Event) {
		p.Send(EventMsg{Event: e})
	})
	defer bus.Unsubscribe(subID)

	result := make(chan string, 1)
	go func() {
		result <- debate(ctx)
	}()

	_, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-result
		return "", err
	}
	// The view may have quit early; the debate stops at its next round.
	cancel()
	return <-result, nil
}
