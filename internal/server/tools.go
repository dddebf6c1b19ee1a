package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/errors"
)

// ActorInput is one roster entry supplied with a tool call.
type ActorInput struct {
	Name      string `json:"name" jsonschema:"unique actor name, e.g. Security Engineer"`
	Expertise string `json:"expertise" jsonschema:"the actor's field of expertise"`
}

// DebateInput is the dogfight tool input.
type DebateInput struct {
	Problem            string       `json:"problem" jsonschema:"problem statement for the experts to debate"`
	MaxRounds          int          `json:"max_rounds,omitempty" jsonschema:"optional round budget (default from server config)"`
	ConsensusThreshold float64      `json:"consensus_threshold,omitempty" jsonschema:"optional agreeing fraction in (0, 1] that ends the debate"`
	Actors             []ActorInput `json:"actors,omitempty" jsonschema:"optional roster overriding the server's configured actors"`
}

// DebateResult is the dogfight tool output.
type DebateResult struct {
	Draft     string `json:"draft" jsonschema:"final draft proposal"`
	Rounds    int    `json:"rounds" jsonschema:"number of rounds run"`
	Consensus bool   `json:"consensus" jsonschema:"whether the threshold was reached"`
}

// DebateTool defines the MCP tool schema for running a debate.
func DebateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolName,
		Description: "Run a multi-round debate between expert actors and return the consolidated draft proposal",
	}
}

func (s *Server) handleDebate(ctx context.Context, _ *mcp.CallToolRequest, input DebateInput) (*mcp.CallToolResult, DebateResult, error) {
	d, err := s.buildDebate(input)
	if err != nil {
		return nil, DebateResult{}, err
	}

	tr := d.Run(ctx, input.Problem)
	result := DebateResult{
		Draft:     tr.FinalDraft,
		Rounds:    len(tr.Rounds),
		Consensus: tr.Consensus,
	}
	s.logger.Info("tool call completed",
		"tool", ToolName,
		"debate_id", tr.DebateID,
		"rounds", result.Rounds,
		"consensus", result.Consensus)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: result.Draft}},
	}, result, nil
}

// buildDebate applies per-call overrides to the server defaults.
func (s *Server) buildDebate(input DebateInput) (*dogfight.Dogfight, error) {
	if input.Problem == "" {
		return nil, errors.NewValidationError("problem is required").WithField("problem")
	}
	if input.MaxRounds < 0 {
		return nil, errors.NewValidationError("max_rounds must be positive").
			WithField("max_rounds").WithValue(input.MaxRounds)
	}

	cfg := s.opts.Config
	if input.MaxRounds > 0 {
		cfg.MaxRounds = input.MaxRounds
	}
	if input.ConsensusThreshold != 0 {
		cfg.ConsensusThreshold = input.ConsensusThreshold
	}

	roster := s.opts.Roster()
	if len(input.Actors) > 0 {
		roster = make([]dogfight.ActorSpec, len(input.Actors))
		for i, a := range input.Actors {
			roster[i] = dogfight.ActorSpec{Name: a.Name, Expertise: a.Expertise}
		}
	}

	opts := []dogfight.Option{dogfight.WithLogger(s.logger)}
	if s.opts.Tracer != nil {
		opts = append(opts, dogfight.WithTracer(s.opts.Tracer))
	}
	return dogfight.New(roster, s.opts.Oracle, cfg, opts...)
}
