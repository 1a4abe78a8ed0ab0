package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop PLAN_ID",
		Short: "Stop a running plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStop(args[0])
		},
	}
}

func runStop(planID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := newClient(cfg).StopTask(ctx, planID); err != nil {
		return fmt.Errorf("stopping plan %s: %w", planID, err)
	}
	if !globalOpts.Quiet {
		fmt.Printf("🛑 Stop requested for plan %s\n", planID)
	}
	return nil
}
