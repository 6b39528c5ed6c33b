package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/galileo-platform/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP tools on stdin/stdout",
		Long: `Serve reads newline-delimited JSON-RPC requests from stdin and writes
responses to stdout until stdin closes or the process is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newPlatform()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.logger.Info("galileo-mcp starting",
				"version", a.build.Version,
				"build_time", a.build.BuildTime,
				"commit", a.build.GitCommit,
			)

			srv := server.New(svc, a.logger,
				server.WithBatchConcurrency(a.cfg.Batch.Concurrency),
				server.WithVersion(a.build.Version),
			)
			err = srv.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				a.logger.Info("galileo-mcp stopped")
				return nil
			}
			return err
		},
	}
}
