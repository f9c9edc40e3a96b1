package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/snipfmt/config"
)

// Version is injected at build time.
var Version = "dev"

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the snipfmt command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "snipfmt",
		Short: "snipfmt serves a snippet catalog and formats YAML and JSON",
		Long: `snipfmt hosts a catalog of configuration snippets and a YAML/JSON
formatter. The same format, parse and convert operations are available
from the command line.

Configuration is read from --config, then SNIPFMT_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (json, console)")

	root.AddCommand(
		newServeCommand(opts),
		newOperationCommand(opFormat),
		newOperationCommand(opParse),
		newOperationCommand(opConvert),
		newDetectCommand(),
		newSnippetsCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "snipfmt:", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies flag overrides.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.Context(), o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel == "" && o.logFormat == "" {
		return cfg, nil
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
