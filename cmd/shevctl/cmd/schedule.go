package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shev/pkg/api"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage absolute-time schedules",
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		schedules, err := client().ListSchedules()
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, schedules)
			return nil
		}
		if len(schedules) == 0 {
			cmd.Println("no schedules")
			return nil
		}
		for _, s := range schedules {
			kind := "once"
			if s.Periodic {
				kind = "daily"
			}
			cmd.Printf("%-24s  %s  %s\n", s.EventType, s.ScheduledTime.Format(time.RFC3339), kind)
		}
		return nil
	},
}

func scheduleRequestFromFlags(cmd *cobra.Command) (api.CreateScheduleRequest, error) {
	eventType, _ := cmd.Flags().GetString("event-type")
	context, _ := cmd.Flags().GetString("context")
	at, _ := cmd.Flags().GetString("at")
	periodic, _ := cmd.Flags().GetBool("periodic")

	scheduledTime, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return api.CreateScheduleRequest{}, fmt.Errorf("invalid --at time (want RFC3339): %w", err)
	}

	return api.CreateScheduleRequest{
		EventType:     eventType,
		Context:       context,
		ScheduledTime: scheduledTime,
		Periodic:      periodic,
	}, nil
}

var scheduleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Schedule an event to fire at an absolute time",
	Long: `Schedule an event to fire at an absolute time, once or daily.

Example:
  shevctl schedule create --event-type nightly.backup --at 2026-08-07T02:00:00Z --periodic`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := scheduleRequestFromFlags(cmd)
		if err != nil {
			cmd.Println("Error:", err)
			return nil
		}
		s, err := client().CreateSchedule(req)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("schedule created for %s at %s\n", s.EventType, s.ScheduledTime.Format(time.RFC3339))
		return nil
	},
}

var scheduleUpdateCmd = &cobra.Command{
	Use:   "update [event_type]",
	Short: "Replace an existing schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := scheduleRequestFromFlags(cmd)
		if err != nil {
			cmd.Println("Error:", err)
			return nil
		}
		s, err := client().UpdateSchedule(args[0], req)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("schedule updated for %s at %s\n", s.EventType, s.ScheduledTime.Format(time.RFC3339))
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete [event_type]",
	Short: "Remove a schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client().DeleteSchedule(args[0])
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Println(result.Message)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{scheduleCreateCmd, scheduleUpdateCmd} {
		flags := c.Flags()
		flags.String("event-type", "", "event type to fire (required on create)")
		flags.String("context", "", "opaque context string passed with the firing")
		flags.String("at", "", "RFC3339 timestamp to fire at (required)")
		flags.Bool("periodic", false, "repeat daily at the same time of day")
	}

	scheduleCmd.AddCommand(scheduleListCmd, scheduleCreateCmd, scheduleUpdateCmd, scheduleDeleteCmd)
	rootCmd.AddCommand(scheduleCmd)
}
