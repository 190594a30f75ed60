package main

import (
	"context"
	"fmt"
	"os"

	"github.com/khata-erp/khata-erp/cmd/khata/cli"
	"github.com/khata-erp/khata-erp/internal/app"
)

// runJobsCommand handles `khata jobs trigger <name>` and `khata jobs inspect`.
func runJobsCommand(ctx context.Context, cfg *app.Config, args []string) {
	jobsCLI, err := cli.NewJobsCLI(cfg.RedisAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "jobs:", err)
		os.Exit(1)
	}
	defer func() { _ = jobsCLI.Close() }()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: khata jobs trigger <name> | khata jobs inspect")
		os.Exit(2)
	}

	switch args[0] {
	case "trigger":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: khata jobs trigger <name>")
			os.Exit(2)
		}
		info, err := jobsCLI.Trigger(ctx, args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "trigger:", err)
			os.Exit(1)
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", args[1], info.ID, info.Queue)
	case "inspect":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "inspect:", err)
			os.Exit(1)
		}
		fmt.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	default:
		fmt.Fprintln(os.Stderr, "unknown jobs command:", args[0])
		os.Exit(2)
	}
}
