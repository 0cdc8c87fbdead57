package cmd

import (
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Inspect and cancel jobs",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		jobs, err := client().ListJobs(status, limit)
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, jobs)
			return nil
		}
		if len(jobs) == 0 {
			cmd.Println("no jobs")
			return nil
		}
		for _, j := range jobs {
			cmd.Printf("%s  %-12s  %s\n", j.ID, colorizeStatus(j.Status), j.Event.EventType)
		}
		return nil
	},
}

var jobGetCmd = &cobra.Command{
	Use:   "get [job_id]",
	Short: "Show details of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := client().GetJob(args[0])
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, job)
			return nil
		}
		cmd.Printf("%s %sJob Details%s\n", statusIcon(job.Status), colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Printf("%sID:%s          %s\n", colorDim, colorReset, job.ID)
		cmd.Printf("%sEvent Type:%s  %s\n", colorDim, colorReset, job.Event.EventType)
		cmd.Printf("%sStatus:%s      %s\n", colorDim, colorReset, colorizeStatus(job.Status))
		if job.Error != nil {
			cmd.Printf("%sError:%s       %s%s%s\n", colorDim, colorReset, colorRed, *job.Error, colorReset)
		}
		cmd.Printf("%sStarted:%s     %s\n", colorDim, colorReset, formatTimeWithRelative(job.StartedAt))
		cmd.Printf("%sFinished:%s    %s\n", colorDim, colorReset, formatTimeWithRelative(job.FinishedAt))
		return nil
	},
}

var jobCancelCmd = &cobra.Command{
	Use:   "cancel [job_id]",
	Short: "Request cancellation of a running or pending job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client().CancelJob(args[0])
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Println(result.Message)
		return nil
	},
}

func init() {
	jobListCmd.Flags().String("status", "", "filter by status (Pending, Running, Completed, Failed, Cancelled)")
	jobListCmd.Flags().Int("limit", 0, "maximum number of jobs to return")

	jobCmd.AddCommand(jobListCmd, jobGetCmd, jobCancelCmd)
	rootCmd.AddCommand(jobCmd)
}
