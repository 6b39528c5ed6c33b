package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ironsheep/galileo-platform/internal/imaging"
)

func newFetchCommand(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch one image and print its description",
		Long: `Fetch downloads and decodes the image at url and prints its size and
format as JSON. With --raw the undecoded response body is written to stdout
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newPlatform()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			url := args[0]

			if raw {
				data, err := svc.LoadBytesFromURL(ctx, url)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			img, err := svc.LoadImageURL(ctx, url)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(imaging.Describe(img, 0))
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "write the undecoded body instead of a description")
	return cmd
}
