package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tdewolff/minify/v2"
	minifysvg "github.com/tdewolff/minify/v2/svg"
	"go.uber.org/zap"

	"github.com/ByLCY/wificard/qr"
)

const svgMediaType = "image/svg+xml"

func newSVGCmd(a *app) *cobra.Command {
	var (
		password string
		hidden   bool
		minified bool
	)
	cmd := &cobra.Command{
		Use:   "svg SSID SECURITY OUTPUT",
		Short: "Write only the QR code of one network as a scalable SVG",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := recordFromArgs(args[0], args[1], password, hidden)
			if err != nil {
				return err
			}
			graphic, err := qr.Graphic(rec)
			if err != nil {
				return err
			}
			data := []byte(graphic.SVG)
			if minified {
				if data, err = minifySVG(data); err != nil {
					return err
				}
			}
			if err := writeFile(args[2], data); err != nil {
				return err
			}
			a.log.Info("SVG written", zap.String("path", args[2]), zap.Int("bytes", len(data)))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[2])
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "network password")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "the network does not broadcast its SSID")
	cmd.Flags().BoolVar(&minified, "minify", false, "minify the SVG output")
	return cmd
}

func minifySVG(data []byte) ([]byte, error) {
	m := minify.New()
	m.AddFunc(svgMediaType, minifysvg.Minify)
	out, err := m.Bytes(svgMediaType, data)
	if err != nil {
		return nil, fmt.Errorf("minifying SVG: %w", err)
	}
	return out, nil
}

func joinNames(names []string) string { return strings.Join(names, ", ") }
