package commands

import (
	"course-monitor/internal/components/chrono"
	"course-monitor/internal/monitor"
	"course-monitor/internal/notifier"
	"course-monitor/internal/tracker"
	libtelemetry "course-monitor/lib/telemetry"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var dryRun bool

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log notifications instead of sending emails.")
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.AddCommand(runCmd)
}

func newMonitor(n notifier.Notifier) (*monitor.Monitor, error) {
	clock, err := chrono.NewStandardTime(cfg.Monitor.Timezone)
	if err != nil {
		return nil, err
	}
	schedule, err := chrono.ParseSchedule(cfg.Monitor.Schedule, clock.Location())
	if err != nil {
		return nil, err
	}
	clearPolicy, err := tracker.ParseClearPolicy(cfg.Monitor.ClearPolicy)
	if err != nil {
		return nil, err
	}
	fetchFailurePolicy, err := monitor.ParseFetchFailurePolicy(cfg.Monitor.FetchFailurePolicy)
	if err != nil {
		return nil, err
	}
	retryDelay, err := time.ParseDuration(cfg.Monitor.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("monitor.retry_delay: %w", err)
	}
	clientOpts, err := cfg.Portal.ClientOptions()
	if err != nil {
		return nil, err
	}
	client, err := newPortalClient()
	if err != nil {
		return nil, err
	}

	return monitor.New(monitor.Options{
		Courses:            cfg.ZajelCourses(),
		Fetcher:            client,
		Extractor:          newExtractor(),
		Notifier:           n,
		ClearPolicy:        clearPolicy,
		FetchFailurePolicy: fetchFailurePolicy,
		Schedule:           schedule,
		FetchTimeout:       clientOpts.Timeout,
		RetryDelay:         retryDelay,
		Time:               clock,
		Telemetry:          tel,
	}), nil
}

var runCmd = &cobra.Command{
	Use:   "run [--dry-run]",
	Short: "Polls the portal on the configured schedule until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var n notifier.Notifier = notifier.LogNotifier{}
		if !dryRun {
			emailOpts, err := cfg.Smtp.EmailOptions()
			if err != nil {
				return err
			}
			email, err := notifier.NewEmailNotifier(emailOpts, tel)
			if err != nil {
				return err
			}
			n = email
		}

		m, err := newMonitor(n)
		if err != nil {
			return err
		}

		libtelemetry.InstrumentPerfStats(ctx)

		slog.Info(
			"monitoring courses",
			"courses", len(cfg.Courses),
			"schedule", cfg.Monitor.Schedule,
			"clear_policy", cfg.Monitor.ClearPolicy,
			"dry_run", dryRun,
		)
		err = m.Run(ctx)
		slog.Info("stopped", "notified", len(m.Notified()))
		return err
	},
}
