package commands

import (
	"course-monitor/internal/components/chrono"
	"course-monitor/internal/notifier"
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testEmailCmd)
}

var testEmailCmd = &cobra.Command{
	Use:         "test-email",
	Short:       "Sends a test email to the configured recipients.",
	Annotations: map[string]string{scopeAnnotation: "smtp"},
	RunE: func(cmd *cobra.Command, args []string) error {
		clock, err := chrono.NewStandardTime(cfg.Monitor.Timezone)
		if err != nil {
			return err
		}
		emailOpts, err := cfg.Smtp.EmailOptions()
		if err != nil {
			return err
		}
		email, err := notifier.NewEmailNotifier(emailOpts, tel)
		if err != nil {
			return err
		}

		err = email.Notify(cmd.Context(), notifier.TestMessage(clock.Now()))
		if err != nil {
			return err
		}
		slog.Info("test email sent", "to", emailOpts.To)
		return nil
	},
}
