package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lumipallolabs/diskprune/internal/config"
	"github.com/lumipallolabs/diskprune/internal/core"
	"github.com/lumipallolabs/diskprune/internal/logging"
	"github.com/lumipallolabs/diskprune/internal/ui"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the diskprune command tree. Without a subcommand
// it starts the interactive menu.
func NewRootCommand() *cobra.Command {
	cfg := config.Default()

	root := &cobra.Command{
		Use:   "diskprune",
		Short: "Find and delete large files and cache directories",
		Long: "diskprune finds files and directories over a size threshold, or cache\n" +
			"directories in well-known locations, and deletes the ones you pick.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(&cfg, func() error {
				return runInteractive(cmd.Context(), cfg)
			})
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&cfg.Debug, "debug", false, "write a debug log")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "debug log location")
	flags.StringVar(&cfg.StatsPath, "stats-file", cfg.StatsPath, "freed-space statistics file")
	flags.BoolVar(&cfg.Sequential, "sequential", false, "size directories with a single walker")
	flags.StringVar(&cfg.CPUProfile, "cpuprofile", "", "write a CPU profile to this file")
	_ = flags.MarkHidden("cpuprofile")

	root.Flags().Var(&cfg.Threshold, "threshold", "minimum size of a reported file or directory")
	root.Flags().IntVar(&cfg.Limit, "limit", cfg.Limit, "maximum number of reported entries")
	root.Flags().Var(&cfg.CacheThreshold, "cache-threshold", "minimum size of a reported cache directory")
	addCacheRootFlag(root, &cfg)

	root.AddCommand(
		newScanCommand(&cfg),
		newCachesCommand(&cfg),
		newRootsCommand(&cfg),
	)
	return root
}

func addCacheRootFlag(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringArrayVar(&cfg.CacheRoots, "cache-root", nil,
		"extra cache root, e.g. ~/.npm or ~/code/*/node_modules (repeatable)")
}

// session validates cfg and wraps fn with logging and profiling
func session(cfg *config.Config, fn func() error) (err error) {
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog := logging.Setup(cfg.Debug, cfg.LogFile)
	defer func() {
		if cerr := closeLog(); err == nil {
			err = cerr
		}
	}()

	stop, err := startCPUProfile(cfg.CPUProfile)
	if err != nil {
		return err
	}
	defer stop()

	return fn()
}

func startCPUProfile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("start CPU profile: %w", err)
	}
	logging.Debug.Printf("CPU profiling enabled, writing to %s", path)
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func runInteractive(ctx context.Context, cfg config.Config) error {
	ctrl, err := core.NewController(cfg)
	if err != nil {
		return err
	}
	defer ctrl.Stop()

	p := tea.NewProgram(
		ui.NewApp(ctx, ctrl),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
