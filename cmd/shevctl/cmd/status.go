package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show aggregate job counts by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client().GetStatus()
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, s)
			return nil
		}
		cmd.Printf("Total:     %d\n", s.TotalJobs)
		cmd.Printf("Pending:   %d\n", s.PendingJobs)
		cmd.Printf("Running:   %d\n", s.RunningJobs)
		cmd.Printf("Completed: %d\n", s.CompletedJobs)
		cmd.Printf("Failed:    %d\n", s.FailedJobs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
