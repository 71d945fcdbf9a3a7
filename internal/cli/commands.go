package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lumipallolabs/diskprune/internal/config"
	"github.com/lumipallolabs/diskprune/internal/core"
	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/spf13/cobra"
)

func newScanCommand(cfg *config.Config) *cobra.Command {
	var del bool
	cmd := &cobra.Command{
		Use:   "scan [DIR]",
		Short: "List files and directories over the size threshold",
		Long: "Walks DIR (default: home) and lists every file or directory whose\n" +
			"total size meets the threshold. A directory over the threshold is\n" +
			"listed as one entry and not searched further.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cfg.Root
			if len(args) == 1 {
				root = args[0]
			}
			return session(cfg, func() error {
				return runListing(cmd, *cfg, core.KindLarge, root, del)
			})
		},
	}
	cmd.Flags().Var(&cfg.Threshold, "threshold", "minimum size of a reported file or directory")
	cmd.Flags().IntVar(&cfg.Limit, "limit", cfg.Limit, "maximum number of reported entries")
	cmd.Flags().BoolVar(&del, "delete", false, "pick entries to delete after listing")
	return cmd
}

func newCachesCommand(cfg *config.Config) *cobra.Command {
	var del bool
	cmd := &cobra.Command{
		Use:   "caches",
		Short: "List cache directories over the size threshold",
		Long: "Checks the well-known cache locations and lists each immediate child\n" +
			"whose total size meets the threshold.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cfg, func() error {
				return runListing(cmd, *cfg, core.KindCaches, "", del)
			})
		},
	}
	cmd.Flags().Var(&cfg.CacheThreshold, "threshold", "minimum size of a reported cache directory")
	cmd.Flags().BoolVar(&del, "delete", false, "pick entries to delete after listing")
	addCacheRootFlag(cmd, cfg)
	return cmd
}

func newRootsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Show the cache locations searched by caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cfg, func() error {
				home, err := os.UserHomeDir()
				if err != nil {
					logging.Debug.Printf("home directory unknown: %v", err)
				}
				roots, err := cfg.Roots(home)
				if err != nil {
					return err
				}
				return renderRoots(cmd.OutOrStdout(), roots)
			})
		},
	}
	addCacheRootFlag(cmd, cfg)
	return cmd
}

// runListing scans, prints the result and optionally runs the deletion
// prompts over it
func runListing(cmd *cobra.Command, cfg config.Config, kind core.ScanKind, root string, del bool) error {
	ctrl, err := core.NewController(cfg)
	if err != nil {
		return err
	}
	defer ctrl.Stop()

	ctx := cmd.Context()
	var events <-chan core.Event
	if kind == core.KindCaches {
		events = ctrl.StartCacheScan(ctx)
	} else {
		events = ctrl.StartScan(ctx, root)
	}

	var done core.ScanCompletedEvent
	for ev := range events {
		if e, ok := ev.(core.ScanCompletedEvent); ok {
			done = e
		}
	}
	if done.Err != nil {
		return done.Err
	}

	out := cmd.OutOrStdout()
	if !del {
		return renderResult(out, done.Result)
	}

	prompt := &linePrompter{in: bufio.NewScanner(cmd.InOrStdin()), out: out}
	report, err := ctrl.RunWorkflow(ctx, prompt, prompt)
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	return renderReport(out, report)
}
