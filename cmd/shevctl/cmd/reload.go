package cmd

import (
	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload handlers, timers, and schedules from the store",
	Long: `Reload tells shevd to re-read handlers, timers, and schedules from
disk without restarting the process, swapping in the new bindings and
restarting the timer and schedule loops.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client().Reload()
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Printf("reloaded: %d handlers, %d timers, %d schedules\n",
			result.HandlersLoaded, result.TimersLoaded, result.SchedulesLoaded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reloadCmd)
}
