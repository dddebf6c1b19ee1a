// Package server exposes dogfight debates as an MCP tool over stdio or
// streamable HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/Iron-Ham/dogfight/internal/dogfight"
	"github.com/Iron-Ham/dogfight/internal/errors"
	"github.com/Iron-Ham/dogfight/internal/logging"
	"github.com/Iron-Ham/dogfight/internal/oracle"
)

// Transport names accepted by Run.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultHTTPAddr binds the HTTP transport to localhost only.
const DefaultHTTPAddr = "localhost:8081"

// ToolName is the name of the debate tool.
const ToolName = "dogfight"

// RosterSource returns the roster to debate with when a call names no actors.
// It is called once per tool call so a reloading roster takes effect between
// debates.
type RosterSource func() []dogfight.ActorSpec

// StaticRoster returns a RosterSource that always yields specs.
func StaticRoster(specs []dogfight.ActorSpec) RosterSource {
	return func() []dogfight.ActorSpec { return specs }
}

// Options configures a Server.
type Options struct {
	Oracle  oracle.TextOracle
	Roster  RosterSource
	Config  dogfight.Config
	Logger  *logging.Logger
	Tracer  trace.Tracer
	Version string
}

// Server owns the MCP server and the collaborators each debate is built from.
type Server struct {
	opts      Options
	logger    *logging.Logger
	mcpServer *mcp.Server
}

// New registers the dogfight tool on a fresh MCP server.
func New(opts Options) (*Server, error) {
	if opts.Oracle == nil {
		return nil, errors.NewConfigError("oracle", nil, errors.ErrNilOracle)
	}
	if opts.Roster == nil {
		return nil, errors.NewConfigError("roster", nil, errors.ErrEmptyRoster)
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}

	s := &Server{
		opts:   opts,
		logger: logger.With("component", "mcp"),
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "dogfight",
			Version: opts.Version,
		}, nil),
	}
	mcp.AddTool(s.mcpServer, DebateTool(), s.handleDebate)
	return s, nil
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server { return s.mcpServer }

// Run serves on the named transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport, httpAddr string) error {
	switch strings.ToLower(transport) {
	case "", TransportStdio:
		return s.ServeTransport(ctx, &mcp.StdioTransport{})
	case TransportHTTP:
		return s.ServeHTTP(ctx, httpAddr)
	default:
		return fmt.Errorf("transport %q is not supported", transport)
	}
}

// ServeTransport runs the MCP server over t. Cancellation is a clean exit.
func (s *Server) ServeTransport(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("mcp server starting", "transport", fmt.Sprintf("%T", t))
	err := s.mcpServer.Run(ctx, t)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	return err
}

// Handler returns the streamable HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// ServeHTTP listens on addr and serves the streamable HTTP transport at /mcp
// until ctx is cancelled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultHTTPAddr
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.serveListener(ctx, listener)
}

func (s *Server) serveListener(ctx context.Context, listener net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", s.Handler())
	mux.HandleFunc("/mcp/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mcp http server listening", "addr", listener.Addr().String())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			// Streaming sessions can outlive the grace period.
			s.logger.Warn("http shutdown timed out, closing connections", "error", err.Error())
			if err := httpServer.Close(); err != nil {
				return fmt.Errorf("close http server: %w", err)
			}
		}
		return nil
	}
}
