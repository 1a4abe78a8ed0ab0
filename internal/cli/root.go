package cli

import (
	"fmt"
	"os"

	"github.com/s22625/planwatch/internal/client"
	"github.com/s22625/planwatch/internal/config"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitOK            = 0
	ExitPlanNotFound  = 2
	ExitTimeout       = 3
	ExitCancelled     = 4
	ExitMonitorError  = 5
	ExitInternalError = 10
)

// GlobalOptions holds options shared across all commands.
type GlobalOptions struct {
	Server string
	Quiet  bool
}

var globalOpts = &GlobalOptions{}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "planwatch",
	Short: "Monitor and visualize agent plan executions",
	Long: `planwatch observes long-running agent executions (plan → steps →
turns → tool calls) through the executor API and turns the raw record
into a normalized event timeline, a live progress view, and static
reports in console, markdown, or HTML form.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.Server, "server", "s", "", "Executor server URL (or set PLANWATCH_SERVER)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Quiet, "quiet", false, "Suppress progress output")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newFetchCmd())
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitInternalError)
	}
}

// loadConfig resolves configuration and applies global flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if globalOpts.Server != "" {
		cfg.Server = globalOpts.Server
	}
	return cfg, nil
}

// newClient builds the backend client for the resolved config.
func newClient(cfg *config.Config) *client.Client {
	return client.New(cfg.Server)
}
