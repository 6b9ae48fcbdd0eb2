package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/wificard/config"
)

func newGenerateCmd(a *app) *cobra.Command {
	var debugPath string
	cmd := &cobra.Command{
		Use:   "generate CONFIG OUTPUT",
		Short: "Print every network of a TOML credential file, one per page",
		Long: `Print every network of a TOML credential file, one per page.

Each top-level table is a network named by its key:

  ["Home"]
  security = "WPA2"
  password = "correct horse"

  [guest]
  ssid = "Guests"
  security = "open"
  hidden = true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening credential file: %w", err)
			}
			defer f.Close()

			records, err := config.LoadCredentials(f)
			if err != nil {
				var ve *config.ValidationError
				if errors.As(err, &ve) {
					for _, issue := range ve.Issues {
						fmt.Fprintln(cmd.ErrOrStderr(), issue.String())
					}
				}
				return fmt.Errorf("%s: %w", args[0], err)
			}
			a.log.Debug("Credential file loaded", zap.String("path", args[0]), zap.Int("networks", len(records)))
			return a.writePDF(cmd.OutOrStdout(), records, args[1], debugPath)
		},
	}
	cmd.Flags().StringVar(&debugPath, "debug", "", "write the layout result as JSON to this path")
	return cmd
}
