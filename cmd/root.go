package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chabad360/improtron-osc/config"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "improtron-osc",
	Short: "OSC remote control for live show cues",
	Long: `improtron-osc listens for OSC messages from a touch panel or any OSC
client and turns them into sound, media, counter and button cues.`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: error, warn, info, debug")
}

// loadConfig reads the config file, if any, applies flag overrides and validates the result.
func loadConfig(cmd *cobra.Command, o config.FlagOverrides) (config.Config, error) {
	cfg := config.DefaultConfig()
	if cfgFile != "" {
		var err error
		if cfg, err = config.LoadFile(cfgFile); err != nil {
			return config.Config{}, errors.Wrap(err, "loading config")
		}
	}
	if cmd.Flags().Changed("log-level") {
		o.LogLevel = &logLevel
	}
	o.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
