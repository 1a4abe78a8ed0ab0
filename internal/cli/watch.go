package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/s22625/planwatch/internal/client"
	"github.com/s22625/planwatch/internal/monitor"
	"github.com/s22625/planwatch/internal/render"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	PollInterval time.Duration
	Timeout      time.Duration
	Output       string
	OutputFile   string
	Dashboard    bool
	NoMonitor    bool
}

func newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch PLAN_ID",
		Short: "Monitor a running plan and report its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.PollInterval, "poll-interval", 0, "Polling interval (default from config)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Maximum monitoring duration (default from config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (console|markdown|html)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "f", "", "Write the report to a file")
	cmd.Flags().BoolVar(&opts.Dashboard, "dashboard", false, "Show the interactive dashboard while monitoring")
	cmd.Flags().BoolVar(&opts.NoMonitor, "no-monitor", false, "Fetch once instead of monitoring")

	return cmd
}

func runWatch(planID string, opts *watchOptions) error {
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
	if opts.PollInterval == 0 {
		opts.PollInterval = cfg.PollInterval
	}
	if opts.Timeout == 0 {
		opts.Timeout = cfg.Timeout
	}

	cl := newClient(cfg)

	if opts.NoMonitor {
		return reportOnce(cl, planID, opts.Output, opts.OutputFile)
	}
	return monitorAndReport(cl, planID, opts)
}

// reportOnce is the degenerate one-shot path: a single snapshot and
// a single normalization pass, no polling.
func reportOnce(cl *client.Client, planID, format, outputFile string) error {
	snap, events, stats, err := monitor.FetchOnce(context.Background(), cl, planID)
	if err != nil {
		if errors.Is(err, client.ErrPlanNotFound) {
			fmt.Fprintf(os.Stderr, "plan %s not found\n", planID)
			os.Exit(ExitPlanNotFound)
		}
		return err
	}

	content, err := renderReport(format, events, stats, render.MetaFromSnapshot(snap))
	if err != nil {
		return err
	}
	if err := writeReport(content, outputFile); err != nil {
		return err
	}
	if format == FormatConsole && !globalOpts.Quiet {
		printErrorAnalysis(snap)
	}
	return nil
}

// monitorAndReport runs a live monitoring session, then renders the
// accumulated timeline. Partial results from timed-out or cancelled
// sessions are still reported.
func monitorAndReport(cl *client.Client, planID string, opts *watchOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	monOpts := monitor.Options{
		Interval: opts.PollInterval,
		Deadline: opts.Timeout,
	}

	var res *monitor.Result
	if opts.Dashboard {
		dash := monitor.NewDashboard(cl, planID, monOpts)
		var err error
		res, err = dash.Run()
		if err != nil {
			return err
		}
	} else {
		feed := &consoleFeed{}
		if !globalOpts.Quiet {
			fmt.Printf("🚀 Monitoring plan %s\n", planID)
			monOpts.OnEvent = feed.onEvent
			monOpts.OnProgress = feed.onProgress
		}
		res = monitor.New(cl, monOpts).Run(ctx, planID)
		if !globalOpts.Quiet {
			feed.finish(res)
		}
	}
	if res == nil {
		return fmt.Errorf("monitor returned no result")
	}

	content, err := renderReport(opts.Output, res.Events, res.Stats, render.MetaFromSnapshot(res.Snapshot))
	if err != nil {
		return err
	}
	if err := writeReport(content, opts.OutputFile); err != nil {
		return err
	}
	if res.Snapshot != nil && opts.Output == FormatConsole && !globalOpts.Quiet {
		printErrorAnalysis(res.Snapshot)
	}

	switch res.State {
	case monitor.StateCompleted:
		return nil
	case monitor.StateTimedOut:
		os.Exit(ExitTimeout)
	case monitor.StateCancelled:
		os.Exit(ExitCancelled)
	case monitor.StateFailed:
		if errors.Is(res.Err, client.ErrPlanNotFound) {
			os.Exit(ExitPlanNotFound)
		}
		os.Exit(ExitMonitorError)
	}
	return nil
}
