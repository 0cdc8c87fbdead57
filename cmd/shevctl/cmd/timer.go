package cmd

import (
	"github.com/spf13/cobra"

	"shev/pkg/api"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage interval timers",
}

var timerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List timers",
	RunE: func(cmd *cobra.Command, args []string) error {
		timers, err := client().ListTimers()
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, timers)
			return nil
		}
		if len(timers) == 0 {
			cmd.Println("no timers")
			return nil
		}
		for _, t := range timers {
			cmd.Printf("%-24s  every %ds\n", t.EventType, t.IntervalSecs)
		}
		return nil
	},
}

func timerRequestFromFlags(cmd *cobra.Command) api.CreateTimerRequest {
	eventType, _ := cmd.Flags().GetString("event-type")
	context, _ := cmd.Flags().GetString("context")
	interval, _ := cmd.Flags().GetUint("interval")
	return api.CreateTimerRequest{EventType: eventType, Context: context, IntervalSecs: interval}
}

var timerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a timer that fires an event on a fixed interval",
	Long: `Create a timer that fires an event on a fixed interval.

Example:
  shevctl timer create --event-type heartbeat --interval 60`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := timerRequestFromFlags(cmd)
		t, err := client().CreateTimer(req)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("timer created for %s (every %ds)\n", t.EventType, t.IntervalSecs)
		return nil
	},
}

var timerUpdateCmd = &cobra.Command{
	Use:   "update [event_type]",
	Short: "Replace an existing timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := timerRequestFromFlags(cmd)
		t, err := client().UpdateTimer(args[0], req)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("timer updated for %s (every %ds)\n", t.EventType, t.IntervalSecs)
		return nil
	},
}

var timerDeleteCmd = &cobra.Command{
	Use:   "delete [event_type]",
	Short: "Remove a timer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client().DeleteTimer(args[0])
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Println(result.Message)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{timerCreateCmd, timerUpdateCmd} {
		flags := c.Flags()
		flags.String("event-type", "", "event type to fire (required on create)")
		flags.String("context", "", "opaque context string passed with each firing")
		flags.Uint("interval", 60, "interval in seconds")
	}

	timerCmd.AddCommand(timerListCmd, timerCreateCmd, timerUpdateCmd, timerDeleteCmd)
	rootCmd.AddCommand(timerCmd)
}
