package cmd

import (
	"github.com/spf13/cobra"

	"shev/pkg/api"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Fire events against a running shevd instance",
}

var eventCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Fire an event",
	Long: `Fire an event, which the daemon persists and enqueues for the
handler bound to its event type.

Example:
  shevctl event create --event-type deploy.finished --context '{"env":"prod"}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eventType, _ := cmd.Flags().GetString("event-type")
		context, _ := cmd.Flags().GetString("context")

		if eventType == "" {
			cmd.Println("Error: --event-type is required")
			return nil
		}

		result, err := client().CreateEvent(api.CreateEventRequest{EventType: eventType, Context: context})
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("event dispatched\nid: %s\nevent_type: %s\n", result.ID, result.EventType)
		return nil
	},
}

func init() {
	flags := eventCreateCmd.Flags()
	flags.String("event-type", "", "event type to fire (required)")
	flags.String("context", "", "opaque context string passed to EVENT_CONTEXT")

	eventCmd.AddCommand(eventCreateCmd)
	rootCmd.AddCommand(eventCmd)
}
