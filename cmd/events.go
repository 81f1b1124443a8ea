package cmd

import (
	"fmt"

	"github.com/josephlewis42/rawsh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var sessionID string

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"logs"},
	Short:   "Explore the shell event log.",
}

type reportUpdater interface {
	Update(le *logger.LogEntry)
}

// newReportCommand creates a command that feeds the app log through a report
// and prints the value returned by view as YAML.
func newReportCommand(use, short string, newReport func() reportUpdater, view func(reportUpdater) (interface{}, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			config, err := loadConfig()
			if err != nil {
				return err
			}

			fd, err := config.ReadAppLog()
			if err != nil {
				return err
			}
			defer fd.Close()

			report := newReport()
			if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
				return err
			}

			var toPrint interface{} = report
			if view != nil {
				if toPrint, err = view(report); err != nil {
					return err
				}
			}

			out, err := yaml.Marshal(toPrint)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return nil
		},
	}
}

var (
	reportCommand = newReportCommand("report", "Show a report of events.", func() reportUpdater {
		return &logger.Report{}
	}, nil)

	bugsCommand = newReportCommand("bugs", "Show unknown commands and errors.", func() reportUpdater {
		return logger.NewBugReport()
	}, nil)

	sessionsCommand = newReportCommand("sessions", "Show the commands run in each session.", func() reportUpdater {
		return &logger.InteractionReport{}
	}, func(report reportUpdater) (interface{}, error) {
		if sessionID == "" {
			return report, nil
		}

		session, ok := report.(*logger.InteractionReport).Session(sessionID)
		if !ok {
			return nil, fmt.Errorf("no session with ID %q", sessionID)
		}
		return session, nil
	})
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
	eventsCmd.AddCommand(bugsCommand)
	eventsCmd.AddCommand(sessionsCommand)

	sessionsCommand.Flags().StringVar(&sessionID, "session", "", "only show the session with this ID")
}
