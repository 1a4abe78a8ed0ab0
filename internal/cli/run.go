package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/s22625/planwatch/internal/client"
	"github.com/spf13/cobra"
)

type runOptions struct {
	Params       string
	ServiceGroup string
	Upload       string
	Template     string
	Conversation string

	watch watchOptions
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run TOOL_NAME",
		Short: "Start a task and monitor its execution",
		Long: `Start a task by tool name on the executor backend, then monitor it
until completion and render the execution timeline.

Optionally imports a workflow template and uploads an input file
before starting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Params, "params", "", "Replacement parameters as a JSON object")
	cmd.Flags().StringVarP(&opts.ServiceGroup, "service-group", "g", "", "Service group for the task")
	cmd.Flags().StringVarP(&opts.Upload, "upload", "u", "", "Upload a local file and pass its key to the task")
	cmd.Flags().StringVarP(&opts.Template, "template", "t", "", "Import a workflow template file before starting")
	cmd.Flags().StringVar(&opts.Conversation, "conversation-id", "", "Conversation id (generated when empty)")
	cmd.Flags().DurationVar(&opts.watch.PollInterval, "poll-interval", 0, "Polling interval (default from config)")
	cmd.Flags().DurationVar(&opts.watch.Timeout, "timeout", 0, "Maximum monitoring duration (default from config)")
	cmd.Flags().StringVarP(&opts.watch.Output, "output", "o", "", "Output format (console|markdown|html)")
	cmd.Flags().StringVarP(&opts.watch.OutputFile, "output-file", "f", "", "Write the report to a file")
	cmd.Flags().BoolVar(&opts.watch.Dashboard, "dashboard", false, "Show the interactive dashboard while monitoring")
	cmd.Flags().BoolVar(&opts.watch.NoMonitor, "no-monitor", false, "Start the task without monitoring it")

	return cmd
}

func runRun(toolName string, opts *runOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.ServiceGroup == "" {
		opts.ServiceGroup = cfg.ServiceGroup
	}

	var params map[string]any
	if opts.Params != "" {
		if err := json.Unmarshal([]byte(opts.Params), &params); err != nil {
			return fmt.Errorf("parsing --params: %w", err)
		}
	}

	cl := newClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if opts.Template != "" {
		if err := cl.ImportTemplate(ctx, opts.Template); err != nil {
			return err
		}
		if !globalOpts.Quiet {
			fmt.Printf("📦 Template imported: %s\n", opts.Template)
		}
	}

	var uploadKey string
	if opts.Upload != "" {
		uploadKey, err = cl.UploadFile(ctx, opts.Upload)
		if err != nil {
			return err
		}
		if !globalOpts.Quiet {
			fmt.Printf("📂 File uploaded, key: %s\n", uploadKey)
		}
	}

	planID, err := cl.ExecuteAsync(ctx, client.ExecuteRequest{
		ToolName:          toolName,
		ReplacementParams: params,
		ConversationID:    opts.Conversation,
		ServiceGroup:      opts.ServiceGroup,
		UploadKey:         uploadKey,
	})
	if err != nil {
		return err
	}
	if !globalOpts.Quiet {
		fmt.Printf("✅ Task started, plan id: %s\n", planID)
	}

	if opts.watch.NoMonitor {
		fmt.Println(planID)
		return nil
	}
	return runWatch(planID, &opts.watch)
}
