package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/event"
	"github.com/Iron-Ham/dogfight/internal/tui"
)

var debateCmd = &cobra.Command{
	Use:   "debate [problem]",
	Short: "Run a debate and print the final draft",
	Long: `Run a debate on a problem statement and print the final draft.

The problem is taken from the arguments, or read from stdin when no
arguments are given or the only argument is "-".

Examples:
  dogfight debate "Design a rate limiter for a public API"
  dogfight debate --rounds 5 --threshold 0.75 < problem.md
  dogfight debate --roster team.toml --tui "Pick a queue for job dispatch"`,
	RunE: runDebate,
}

var (
	debateRounds    int
	debateThreshold float64
	debateRoster    string
	debateDebug     bool
	debateTUI       bool
	debateJSON      bool
)

func init() {
	rootCmd.AddCommand(debateCmd)

	debateCmd.Flags().IntVarP(&debateRounds, "rounds", "r", 0, "maximum number of rounds (default from config)")
	debateCmd.Flags().Float64VarP(&debateThreshold, "threshold", "t", 0, "agreeing fraction of the roster that ends the debate (default from config)")
	debateCmd.Flags().StringVar(&debateRoster, "roster", "", "YAML or TOML roster file")
	debateCmd.Flags().BoolVar(&debateDebug, "debug", false, "log every proposal, draft and vote")
	debateCmd.Flags().BoolVar(&debateTUI, "tui", false, "show a live view of the debate (terminal only)")
	debateCmd.Flags().BoolVar(&debateJSON, "json", false, "print the full transcript as JSON")
}

// applyDebateFlags copies explicitly set flags over the loaded config.
func applyDebateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("rounds") {
		viper.Set("debate.max_rounds", debateRounds)
	}
	if flags.Changed("threshold") {
		viper.Set("debate.consensus_threshold", debateThreshold)
	}
	if flags.Changed("roster") {
		viper.Set("debate.roster_file", debateRoster)
	}
	if flags.Changed("debug") {
		viper.Set("debate.debug", debateDebug)
	}
}

func runDebate(cmd *cobra.Command, args []string) error {
	problem, err := readProblem(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	applyDebateFlags(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	specs, err := resolveRoster(afero.NewOsFs(), rt.cfg)
	if err != nil {
		return err
	}

	bus := event.NewBus(event.WithBusLogger(rt.logger))
	d, err := dogfight.New(specs, rt.oracle, debateConfig(rt.cfg),
		dogfight.WithLogger(rt.logger),
		dogfight.WithEventBus(bus),
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var transcript dogfight.Transcript
	run := func(ctx context.Context) string {
		transcript = d.Run(ctx, problem)
		return transcript.FinalDraft
	}

	if debateTUI && isTerminal(out) {
		if _, err := tui.Run(ctx, bus, problem, nil, run); err != nil {
			return fmt.Errorf("live view: %w", err)
		}
	} else {
		if debateTUI {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: --tui needs a terminal, printing the result only")
		}
		run(ctx)
	}

	if debateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(transcript)
	}
	fmt.Fprintln(out, transcript.FinalDraft)
	return nil
}

// readProblem joins args into the problem statement, falling back to in.
func readProblem(in io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read problem from stdin: %w", err)
	}
	problem := strings.TrimSpace(string(data))
	if problem == "" {
		return "", fmt.Errorf("a problem statement is required, as arguments or on stdin")
	}
	return problem, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
