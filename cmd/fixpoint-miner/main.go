package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/screa/fixpoint-miner/internal/config"
	"github.com/screa/fixpoint-miner/internal/crypto"
	logpkg "github.com/screa/fixpoint-miner/internal/logger"
	minerpkg "github.com/screa/fixpoint-miner/pkg/miner"
	"github.com/screa/fixpoint-miner/pkg/space"
	"github.com/screa/fixpoint-miner/pkg/worker"
)

var (
	cfg    = config.NewConfig()
	logger *logpkg.Logger
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "fixpoint-miner",
		Short: "Find self-referential hash prefixes",
		Long: `Searches for a hex string C such that substituting C into a text template
and hashing the result gives a digest whose hex encoding begins with C.
Every candidate of the requested width is tried in parallel until one matches.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMiner,
	}

	algorithms := make([]string, len(crypto.Algorithms))
	for i, a := range crypto.Algorithms {
		algorithms[i] = string(a)
	}

	rootCmd.Flags().IntVarP(&cfg.Digits, "digits", "d", cfg.Digits, "Number of hex digits to match (1-32)")
	rootCmd.Flags().StringVarP(&cfg.Template, "text", "t", cfg.Template, "Text template containing the placeholder")
	rootCmd.Flags().StringVarP(&cfg.Placeholder, "placeholder", "p", cfg.Placeholder, "Placeholder character replaced by the candidate")
	rootCmd.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "Only print the resulting string")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Print detailed progress information")
	rootCmd.Flags().IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of worker goroutines")
	rootCmd.Flags().IntVarP(&cfg.ChunkSize, "chunk-size", "c", cfg.ChunkSize, "Candidates per work chunk between cancellation checks")
	rootCmd.Flags().DurationVarP(&cfg.Interval, "interval", "i", cfg.Interval, "Progress update interval")
	rootCmd.Flags().StringVarP(&cfg.Algorithm, "algorithm", "a", cfg.Algorithm, "Digest algorithm ("+strings.Join(algorithms, ", ")+")")
	rootCmd.Flags().StringVarP(&cfg.LogFile, "log-file", "l", "", "Write diagnostics as JSON to this file instead of stderr")
	rootCmd.Flags().StringVar(&cfg.ConfigFile, "config", "", "YAML file providing defaults for unset flags")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMiner(cmd *cobra.Command, args []string) error {
	if cfg.ConfigFile != "" {
		file, err := config.LoadFile(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.Merge(file, cmd.Flags().Changed)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Setup logging
	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	verbosity := cfg.Verbosity()
	out := cmd.OutOrStdout()
	r := newRenderer(out, verbosity)

	cpu := crypto.DetectCPU()
	r.preamble(cfg, cpu)
	if cfg.IsLargeSearch() {
		logger.Warnf("Searching %d digits: exhausting the space would take ~%s",
			cfg.Digits, estimate(cfg))
	}
	logger.Debugf("CPU: %s (%d logical cores, features: %s)",
		cpu.Brand, cpu.LogicalCores, strings.Join(cpu.Features, " "))
	logger.Infof("Starting %s search with %d workers...", cfg.Algorithm, cfg.Workers)

	// Cancel the search on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	miner := minerpkg.NewMiner(cfg, minerpkg.NewState(), logger)
	report, err := miner.Mine(ctx, r.progressFunc(space.New(cfg.Digits).Size()))
	if err != nil && report == nil {
		return err
	}
	if err != nil {
		r.interrupted(report)
		logger.Warnf("Mining stopped: %v", err)
		return nil
	}

	if report.Match != nil {
		if err := worker.Verify(cfg.WorkerConfig(), report.Match); err != nil {
			return fmt.Errorf("result failed verification: %w", err)
		}
	}
	r.result(report)
	return nil
}

func setupLogging() (func(), error) {
	level := logpkg.LevelFor(cfg.Verbosity())
	if cfg.LogFile == "" {
		logger = logpkg.New(level)
		return func() { _ = logger.Sync() }, nil
	}

	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger = logpkg.NewWriter(file, level)
	return func() {
		_ = logger.Sync()
		file.Close()
	}, nil
}
