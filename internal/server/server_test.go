package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/oracle"
)

// fakeOracle agrees with every draft unless disagree is set, and records the
// actors it was asked to speak for.
type fakeOracle struct {
	disagree bool

	mu     sync.Mutex
	actors map[string]bool
}

func (f *fakeOracle) Generate(_ context.Context, prompt string, _ int) (string, error) {
	if strings.HasPrefix(prompt, "You are a seasoned scribe") {
		return "FINAL DRAFT", nil
	}
	if name, _, ok := strings.Cut(strings.TrimPrefix(prompt, "You are "), ", a seasoned expert"); ok {
		f.mu.Lock()
		if f.actors == nil {
			f.actors = make(map[string]bool)
		}
		f.actors[name] = true
		f.mu.Unlock()
	}
	if strings.Contains(prompt, "<draft_proposal>") {
		if f.disagree {
			return "<vote>DISAGREE</vote><reason>no</reason>", nil
		}
		return "<vote>AGREE</vote><reason>yes</reason>", nil
	}
	return "proposal", nil
}

func (f *fakeOracle) sawActor(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.actors[name]
}

var testRoster = []dogfight.ActorSpec{
	{Name: "Software Engineer", Expertise: "software development"},
	{Name: "Security Engineer", Expertise: "security"},
}

func newTestServer(t *testing.T, o oracle.TextOracle) *Server {
	t.Helper()
	s, err := New(Options{
		Oracle: o,
		Roster: StaticRoster(testRoster),
		Config: dogfight.DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// connect serves s over in-memory transports and returns a client session.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() { serveErr <- s.ServeTransport(ctx, serverTransport) }()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-serveErr:
			if err != nil {
				t.Errorf("serve returned error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
		_ = session.Close()
	})
	return session
}

func decodeResult(t *testing.T, value any) DebateResult {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	var out DebateResult
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
	return out
}

func callDebate(t *testing.T, session *mcp.ClientSession, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: ToolName, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool() error = %v", err)
	}
	return result
}

func TestNew_RequiresOracleAndRoster(t *testing.T) {
	if _, err := New(Options{Roster: StaticRoster(testRoster)}); err == nil {
		t.Error("New() without oracle should fail")
	}
	if _, err := New(Options{Oracle: &fakeOracle{}}); err == nil {
		t.Error("New() without roster should fail")
	}
}

func TestDebateTool_Listed(t *testing.T) {
	session := connect(t, newTestServer(t, &fakeOracle{}))

	tools, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(tools.Tools) != 1 || tools.Tools[0].Name != ToolName {
		t.Fatalf("tools = %+v, want one %q tool", tools.Tools, ToolName)
	}
	if tools.Tools[0].InputSchema == nil {
		t.Error("tool has no input schema")
	}
}

func TestDebateTool_Consensus(t *testing.T) {
	o := &fakeOracle{}
	session := connect(t, newTestServer(t, o))

	result := callDebate(t, session, map[string]any{"problem": "Choose a message broker"})
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}

	out := decodeResult(t, result.StructuredContent)
	if out.Draft != "FINAL DRAFT" || out.Rounds != 1 || !out.Consensus {
		t.Errorf("result = %+v", out)
	}
	if len(result.Content) != 1 {
		t.Fatalf("content = %+v", result.Content)
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok || text.Text != "FINAL DRAFT" {
		t.Errorf("content[0] = %#v, want the draft text", result.Content[0])
	}
	for _, a := range testRoster {
		if !o.sawActor(a.Name) {
			t.Errorf("configured actor %q did not take part", a.Name)
		}
	}
}

func TestDebateTool_Overrides(t *testing.T) {
	o := &fakeOracle{disagree: true}
	session := connect(t, newTestServer(t, o))

	result := callDebate(t, session, map[string]any{
		"problem":             "Pick a cache",
		"max_rounds":          2,
		"consensus_threshold": 0.5,
		"actors": []map[string]any{
			{"name": "Performance Engineer", "expertise": "latency"},
		},
	})
	if result.IsError {
		t.Fatalf("tool returned error: %+v", result.Content)
	}

	out := decodeResult(t, result.StructuredContent)
	if out.Rounds != 2 || out.Consensus {
		t.Errorf("result = %+v, want 2 rounds without consensus", out)
	}
	if !o.sawActor("Performance Engineer") {
		t.Error("override actor did not take part")
	}
	if o.sawActor("Software Engineer") {
		t.Error("configured roster used despite override")
	}
}

func TestDebateTool_InvalidInput(t *testing.T) {
	session := connect(t, newTestServer(t, &fakeOracle{}))

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty problem", map[string]any{"problem": ""}},
		{"negative rounds", map[string]any{"problem": "p", "max_rounds": -1}},
		{"threshold above one", map[string]any{"problem": "p", "consensus_threshold": 1.5}},
		{"duplicate actors", map[string]any{"problem": "p", "actors": []map[string]any{
			{"name": "A", "expertise": "x"},
			{"name": "A", "expertise": "y"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: ToolName, Arguments: tt.args})
			if err == nil && (result == nil || !result.IsError) {
				t.Errorf("CallTool() = %+v, want a tool error", result)
			}
		})
	}
}

func TestRun_UnsupportedTransport(t *testing.T) {
	s := newTestServer(t, &fakeOracle{})
	err := s.Run(context.Background(), "websocket", "")
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Errorf("Run() error = %v, want unsupported transport", err)
	}
}

func TestServeHTTP(t *testing.T) {
	s := newTestServer(t, &fakeOracle{})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- s.serveListener(ctx, listener) }()

	base := "http://" + listener.Addr().String()
	resp, err := http.Get(base + "/mcp/health")
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: base + "/mcp"}, nil)
	if err != nil {
		t.Fatalf("connect over http: %v", err)
	}
	result := callDebate(t, session, map[string]any{"problem": "p"})
	if out := decodeResult(t, result.StructuredContent); out.Draft != "FINAL DRAFT" {
		t.Errorf("result = %+v", out)
	}
	_ = session.Close()

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Errorf("serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("http server did not stop after cancel")
	}
}
