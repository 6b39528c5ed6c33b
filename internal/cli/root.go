// Package cli contains the galileo-mcp command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/galileo-platform/internal/config"
	"github.com/ironsheep/galileo-platform/internal/platform"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app holds state shared by every subcommand once PersistentPreRunE has run.
type app struct {
	build   BuildInfo
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the command tree. Running the root with no
// subcommand is the same as "serve", which is how MCP clients launch it.
func NewRootCommand(build BuildInfo) *cobra.Command {
	a := &app{build: build}

	serveCmd := newServeCommand(a)

	root := &cobra.Command{
		Use:   "galileo-mcp",
		Short: "Image loading tools for galileo over MCP",
		Long: `galileo-mcp fetches images over HTTP(S), decodes them and exposes the
results as MCP tools on stdin/stdout.

Example usage:
  galileo-mcp                          # Serve MCP on stdio
  galileo-mcp fetch https://host/a.png # Describe one image
  galileo-mcp version                  # Print build information

Settings come from .galileo.yaml and GALILEO_* environment variables,
e.g. GALILEO_LOGGING_LEVEL=debug or GALILEO_HTTP_TIMEOUT=30s.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: serveCmd.RunE,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .galileo.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(serveCmd, newFetchCommand(a), newVersionCommand(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	// stdout carries protocol traffic, so logs always go to stderr.
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	a.logger.Debug("configuration loaded",
		"logging_format", cfg.Logging.Format,
		"http_timeout", cfg.HTTP.Timeout,
		"batch_concurrency", cfg.Batch.Concurrency,
	)
	return nil
}

func (a *app) newPlatform() (*platform.NativeService, error) {
	return platform.NewNativeService(
		platform.WithLogger(a.logger),
		platform.WithTimeout(a.cfg.HTTP.Timeout),
		platform.WithMaxIdleConnsPerHost(a.cfg.HTTP.MaxIdleConnsPerHost),
	)
}
