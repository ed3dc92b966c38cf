package main

import (
	"github.com/hupe1980/datasetter"
	"github.com/hupe1980/datasetter/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "datasetter",
		Short:         "Serve and query tabular datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default ./datasetter.yaml or /etc/datasetter/)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format override (text, json)")

	cmd.AddCommand(
		newServeCmd(flags),
		newMetadataCmd(flags),
		newCountCmd(flags),
		newCountByCmd(flags),
		newSampleCmd(flags),
	)
	return cmd
}

// load reads the configuration and applies the flag overrides.
func (f *rootFlags) load() (*config.Config, *datasetter.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
