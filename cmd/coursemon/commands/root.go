package commands

import (
	"context"
	"course-monitor/internal/components/telemetry"
	"course-monitor/internal/config"
	"course-monitor/internal/scrapers/zajel"
	"course-monitor/lib/restyutil"
	"course-monitor/lib/serviceutil"
	libtelemetry "course-monitor/lib/telemetry"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

const serviceName = "coursemon"

var (
	configPath string
	verbose    bool
)

// set up by the root command before any subcommand runs
var (
	cfg       config.Config
	tel       telemetry.API = telemetry.SlogAPI{}
	otel      libtelemetry.Telemetry
	logCloser io.Closer
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "Path to the configuration file, <name>.local.json5 next to it is merged over it.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information and dump portal requests to .dev/resty/portal.")
}

var rootCmd = &cobra.Command{
	Use:   "coursemon",
	Short: "coursemon watches the Zajel portal and emails you when a course section opens.",
	// running without a subcommand starts the monitor
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCmd.RunE(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath, configScope(cmd))
		if err != nil {
			return err
		}

		logCloser, err = libtelemetry.InitSlog(libtelemetry.SlogOptions{
			Level:   cfg.Log.Level,
			Verbose: verbose,
			File:    cfg.Log.File,
		})
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		otel, err = libtelemetry.SetupFromEnv(cmd.Context(), serviceName)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := otel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

// commands that need only part of the config name it with this annotation,
// everything else validates the whole file
const scopeAnnotation = "config_scope"

func configScope(cmd *cobra.Command) config.Scope {
	switch cmd.Annotations[scopeAnnotation] {
	case "portal":
		return config.ScopePortal
	case "smtp":
		return config.ScopeSmtp
	}
	if dryRun {
		return config.ScopePortal
	}
	return config.ScopeAll
}

func newPortalClient() (*zajel.Client, error) {
	opts, err := cfg.Portal.ClientOptions()
	if err != nil {
		return nil, err
	}
	if verbose {
		output, err := restyutil.NewFilesystemOutput(".dev/resty/portal")
		if err != nil {
			return nil, err
		}
		opts.DumpOutput = output
	}
	return zajel.NewClient(opts, tel)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("coursemon exited", err)
	}
}
