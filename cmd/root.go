// Package cmd implements the wificard command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ByLCY/wificard/config"
	"github.com/ByLCY/wificard/observability"
)

// newRootCmd builds the command tree. Each call returns an independent tree with
// its own viper instance, so tests can execute it repeatedly.
func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "wificard",
		Short:         "Print Wi-Fi credentials as PDF pages with a scannable QR code.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Setup(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "wificard"})
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			logger := observability.GetLogger()
			logger.Debug("Starting wificard",
				zap.String("version", Version),
				zap.String("config", v.ConfigFileUsed()),
			)
			return a.setup(cfg, configBaseDir(v), logger)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "settings file (default is ./wificard.yaml or ~/.config/wificard/wificard.yaml)")
	flags.String("colors", "", "password color palette (everyone, deuteranopia, protanopia, tritanopia, black-white)")
	flags.String("lang", "", "label language (system, en, fr, zh)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("render.palette", flags.Lookup("colors"))
	_ = v.BindPFlag("render.lang", flags.Lookup("lang"))
	_ = v.BindPFlag("logger.level", flags.Lookup("log-level"))

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(
		newCLICmd(a),
		newGenerateCmd(a),
		newSVGCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		observability.Sync()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
