package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch PLAN_ID REMOTE_PATH LOCAL_PATH",
		Short: "Download a file produced by a plan",
		Long: `Download a file from a plan's working directory through the
file-browser API. Binary files are transferred base64-encoded and
decoded locally.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(args[0], args[1], args[2])
		},
	}
}

func runFetch(planID, remotePath, localPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	content, err := newClient(cfg).FileContent(ctx, planID, remotePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(localPath, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", localPath, err)
	}
	if !globalOpts.Quiet {
		fmt.Printf("✅ Saved %s to %s\n", remotePath, localPath)
	}
	return nil
}
