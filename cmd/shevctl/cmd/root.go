package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shev/internal/cliclient"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "shevctl",
	Short: "shevctl is the command line client for shevd",
	Long: `shevctl talks to a running shevd instance over its HTTP API.

shevd is a long-running daemon that binds event types to shell command
handlers, and drives them from three sources: ad-hoc events, interval
timers, and absolute-time schedules.

Common workflows:

  Register a handler for an event type:
    shevctl handler create --event-type deploy.finished --shell bash --command "echo done"

  Fire an event by hand:
    shevctl event create --event-type deploy.finished --context '{"env":"prod"}'

  Check overall job counts:
    shevctl status

  Inspect a job:
    shevctl job get <job-id>

Configuration:
  Set the API endpoint via environment variable or a config file:
    SHEV_URL    shevd's HTTP address (default: http://localhost:3000)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".shevctl")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("SHEV")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shevctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:3000", "shevd HTTP address")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().Bool("json", false, "print raw JSON instead of formatted output")
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// jsonOutput reports whether the caller asked for raw JSON via --json.
func jsonOutput() bool {
	return viper.GetBool("json")
}

// printJSON marshals v and writes it to cmd's output, used by every read
// command when --json is set.
func printJSON(cmd *cobra.Command, v interface{}) {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		cmd.PrintErrf("Error: failed to encode JSON: %v\n", err)
	}
}

// client builds a cliclient.Client bound to the configured URL.
func client() *cliclient.Client {
	return cliclient.New(viper.GetString("url"))
}

// printAPIError writes err to cmd's output, unwrapping *cliclient.APIError
// for a cleaner one-line message.
func printAPIError(cmd *cobra.Command, err error) {
	if apiErr, ok := err.(*cliclient.APIError); ok {
		cmd.PrintErrf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
		return
	}
	cmd.PrintErrf("Error: %v\n", err)
}
