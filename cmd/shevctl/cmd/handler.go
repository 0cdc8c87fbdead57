package cmd

import (
	"github.com/spf13/cobra"

	"shev/pkg/api"
)

var handlerCmd = &cobra.Command{
	Use:   "handler",
	Short: "Manage event-type -> command bindings",
}

var handlerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List handlers",
	RunE: func(cmd *cobra.Command, args []string) error {
		handlers, err := client().ListHandlers()
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, handlers)
			return nil
		}
		if len(handlers) == 0 {
			cmd.Println("no handlers")
			return nil
		}
		for _, h := range handlers {
			cmd.Printf("%-24s  %-6s  %s\n", h.EventType, h.Shell, h.Command)
		}
		return nil
	},
}

func handlerRequestFromFlags(cmd *cobra.Command) api.CreateHandlerRequest {
	eventType, _ := cmd.Flags().GetString("event-type")
	shell, _ := cmd.Flags().GetString("shell")
	command, _ := cmd.Flags().GetString("command")
	timeout, _ := cmd.Flags().GetUint("timeout")

	req := api.CreateHandlerRequest{EventType: eventType, Shell: shell, Command: command}
	if timeout > 0 {
		req.TimeoutSecs = &timeout
	}
	return req
}

var handlerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Bind a shell command to an event type",
	Long: `Bind a shell command to an event type.

Example:
  shevctl handler create --event-type deploy.finished --shell bash --command "./notify.sh"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := handlerRequestFromFlags(cmd)
		h, err := client().CreateHandler(req)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("handler created for %s\n", h.EventType)
		return nil
	},
}

var handlerUpdateCmd = &cobra.Command{
	Use:   "update [event_type]",
	Short: "Replace the binding for an event type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := handlerRequestFromFlags(cmd)
		h, err := client().UpdateHandler(args[0], req)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("handler updated for %s\n", h.EventType)
		return nil
	},
}

var handlerDeleteCmd = &cobra.Command{
	Use:   "delete [event_type]",
	Short: "Remove the binding for an event type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client().DeleteHandler(args[0])
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Println(result.Message)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{handlerCreateCmd, handlerUpdateCmd} {
		flags := c.Flags()
		flags.String("event-type", "", "event type to bind (required on create)")
		flags.String("shell", "bash", "interpreter: bash, sh, or pwsh")
		flags.String("command", "", "shell command to run (required)")
		flags.Uint("timeout", 0, "timeout in seconds (0 = no timeout)")
	}

	handlerCmd.AddCommand(handlerListCmd, handlerCreateCmd, handlerUpdateCmd, handlerDeleteCmd)
	rootCmd.AddCommand(handlerCmd)
}
