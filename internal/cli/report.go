package cli

import (
	"github.com/spf13/cobra"
)

type reportOptions struct {
	Output     string
	OutputFile string
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report PLAN_ID",
		Short: "Render a report from the plan's current record",
		Long: `Fetch the plan's execution record once and render the normalized
timeline, without any monitoring. Works for both finished and
still-running plans.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (console|markdown|html)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "f", "", "Write the report to a file")

	return cmd
}

func runReport(planID string, opts *reportOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.Output == "" {
		opts.Output = cfg.Output
	}
	if err := validateFormat(opts.Output); err != nil {
		return err
	}

	return reportOnce(newClient(cfg), planID, opts.Output, opts.OutputFile)
}
