package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/dogfight/internal/roster"
	"github.com/Iron-Ham/dogfight/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve debates as an MCP tool",
	Long: `Run an MCP server exposing a "dogfight" tool that runs a debate and
returns the final draft.

The stdio transport (default) is for MCP clients that launch dogfight as
a subprocess. The http transport serves streamable HTTP at /mcp.

With --watch-roster, edits to the configured roster file apply to the
next tool call without restarting the server.`,
	RunE: runServe,
}

var (
	serveTransport   string
	serveHTTPAddr    string
	serveWatchRoster bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "stdio or http (default from config)")
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "", "listen address for the http transport (default from config)")
	serveCmd.Flags().BoolVar(&serveWatchRoster, "watch-roster", false, "reload the roster file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("transport") {
		viper.Set("server.transport", serveTransport)
	}
	if flags.Changed("http-addr") {
		viper.Set("server.http_addr", serveHTTPAddr)
	}
	if flags.Changed("watch-roster") {
		viper.Set("server.watch_roster", serveWatchRoster)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close(context.Background())

	var source server.RosterSource
	if rt.cfg.Server.WatchRoster {
		w, err := roster.NewWatcher(rt.cfg.Debate.RosterFile, rt.logger)
		if err != nil {
			return err
		}
		defer w.Stop()
		source = w.Current
	} else {
		specs, err := resolveRoster(afero.NewOsFs(), rt.cfg)
		if err != nil {
			return err
		}
		source = server.StaticRoster(specs)
	}

	srv, err := server.New(server.Options{
		Oracle:  rt.oracle,
		Roster:  source,
		Config:  debateConfig(rt.cfg),
		Logger:  rt.logger,
		Version: Version,
	})
	if err != nil {
		return err
	}

	if err := srv.Run(ctx, rt.cfg.Server.Transport, rt.cfg.Server.HTTPAddr); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
