package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(a *app) *cobra.Command {
	var short, jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			if short {
				fmt.Fprintln(w, a.build.Version)
				return nil
			}

			if jsonOutput {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]string{
					"version":   a.build.Version,
					"commit":    a.build.GitCommit,
					"built":     a.build.BuildTime,
					"goVersion": runtime.Version(),
				})
			}

			fmt.Fprintf(w, "galileo-mcp %s\n", a.build.Version)
			fmt.Fprintf(w, "  Build time: %s\n", a.build.BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", a.build.GitCommit)
			fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print version string only")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
