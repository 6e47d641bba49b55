package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/autoplay"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	flagSoakPreset   string
	flagSoakSessions int
	flagSoakMoves    int
	flagSoakWorkers  int
	flagSoakAsync    bool
	flagSoakDenyRate float64
	flagSoakJournal  bool
)

var soakCmd = &cobra.Command{
	Use:   "soak",
	Short: "Play many boards headless and check invariants",
	Long: `Play boards without a terminal, picking random groups, and verify the
board after every move. Sessions run concurrently; the first failure stops
the run and is reported with its seed so it can be replayed.

Examples:
  blast soak
  blast soak --preset dense --sessions 500 --workers 8
  blast soak --async --deny-rate 0.2
  blast soak --seed 1234 --sessions 1 --moves 1000 --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runSoak,
}

func init() {
	soakCmd.Flags().StringVar(&flagSoakPreset, "preset", "", "Board preset (default from config)")
	soakCmd.Flags().IntVar(&flagSoakSessions, "sessions", 100, "Number of boards to play")
	soakCmd.Flags().IntVar(&flagSoakMoves, "moves", 200, "Selections per board")
	soakCmd.Flags().IntVar(&flagSoakWorkers, "workers", 4, "Boards played concurrently (0 = all at once)")
	soakCmd.Flags().BoolVar(&flagSoakAsync, "async", false, "Complete animations on other goroutines")
	soakCmd.Flags().Float64Var(&flagSoakDenyRate, "deny-rate", 0.1, "Chance of selecting a random cell instead of a group")
	soakCmd.Flags().BoolVar(&flagSoakJournal, "journal", false, "Record every soak session in the journal")
}

func runSoak(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger("blast-soak", os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	preset, err := blastCfg.Preset(flagSoakPreset)
	if err != nil {
		logger.Error("unknown preset", "err", err)
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := autoplay.Options{
		Preset:   preset,
		Sessions: flagSoakSessions,
		Moves:    flagSoakMoves,
		Workers:  flagSoakWorkers,
		Seed:     seed,
		Async:    flagSoakAsync,
		DenyRate: flagSoakDenyRate,
		Logger:   logger,
	}

	if flagSoakJournal {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Error("cannot open session journal", "err", err)
			return err
		}
		defer store.Close()
		opts.Journal = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("soak started", "preset", preset.Name, "sessions", opts.Sessions,
		"moves", opts.Moves, "workers", opts.Workers, "seed", seed, "async", opts.Async)

	report, err := autoplay.Run(ctx, opts)
	if err != nil {
		logger.Error("soak failed", "err", err)
		return err
	}
	printReport(preset.Title, seed, report)
	return nil
}

func printReport(title string, seed int64, report autoplay.Report) {

	deadlocked := 0
	for _, r := range report.Results {
		if r.Deadlocked {
			deadlocked++
		}
	}

	fmt.Printf("Soak - %s (seed %d)\n", title, seed)
	fmt.Println()
	fmt.Printf("  %-12s  %d\n", "Sessions", len(report.Results))
	fmt.Printf("  %-12s  %d\n", "Moves", report.Moves)
	fmt.Printf("  %-12s  %d\n", "Denied", report.Denied)
	fmt.Printf("  %-12s  %d\n", "Shuffles", report.Shuffles)
	fmt.Printf("  %-12s  %d\n", "Deadlocked", deadlocked)
	fmt.Printf("  %-12s  %d\n", "Largest", report.Largest)
	fmt.Printf("  %-12s  %s\n", "Elapsed", report.Elapsed.Round(time.Millisecond))
}
