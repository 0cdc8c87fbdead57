package cmd

import (
	"sort"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and update persisted operator config",
	Long: `Inspect and update the port, queue_size, and worker_count values
stored in shevd's config table. Changes take effect on the next restart,
not immediately.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show all persisted config values",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := client().GetConfig()
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		if jsonOutput() {
			printJSON(cmd, cfg)
			return nil
		}
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("%-16s %s\n", k, cfg[k])
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a persisted config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := client().SetConfig(args[0], args[1])
		if err != nil {
			printAPIError(cmd, err)
			return nil
		}
		cmd.Println(result.Message)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
