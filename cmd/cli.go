package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/wificard/credential"
)

func newCLICmd(a *app) *cobra.Command {
	var (
		password  string
		hidden    bool
		debugPath string
	)
	cmd := &cobra.Command{
		Use:   "cli SSID SECURITY OUTPUT",
		Short: "Print one network given on the command line",
		Long: `Print one network given on the command line.

SECURITY is one of: ` + joinNames(credential.SecurityNames()) + `.
A password (8 to 63 characters) is required unless the network is open.`,
		Example: `  wificard cli Home WPA2 home.pdf --password 'correct horse'
  wificard cli Guests open guests.pdf --hidden`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := recordFromArgs(args[0], args[1], password, hidden)
			if err != nil {
				return err
			}
			return a.writePDF(cmd.OutOrStdout(), []credential.Record{rec}, args[2], debugPath)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "network password")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "the network does not broadcast its SSID")
	cmd.Flags().StringVar(&debugPath, "debug", "", "write the layout result as JSON to this path")
	return cmd
}
