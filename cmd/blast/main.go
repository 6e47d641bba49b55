// blast is a tile-matching puzzle for the terminal.
//
// Usage:
//
//	blast list              - List available boards
//	blast play [board]      - Play a board (menu when omitted)
//	blast serve             - Start SSH server for remote play
//	blast history [board]   - Show the session journal
//	blast soak              - Play many boards headless and check invariants
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set journal path (default: ~/.blast/journal.db)
//	--config <path>     - Use a custom blast.yaml
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/registry"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

// blastCfg is loaded by the root command before any subcommand runs.
var blastCfg config.BlastConfig

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blast",
	Short: "Blast - a tile-matching puzzle in your terminal",
	Long: `Blast is a tile-matching puzzle. Pick a group of two or more
touching tiles of one colour to blast it; the tiles above fall down and new
ones drop in. When no group is left the board is shuffled.

Available commands:
  list     - Show all boards
  play     - Play a board
  serve    - Start SSH server for remote play
  history  - Show the session journal
  soak     - Headless stress run

Examples:
  blast list
  blast play classic
  blast play mini --seed 42
  blast serve --ssh :2222
  blast soak --sessions 200 --workers 8`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadBlast(flagConfig)
		if err != nil {
			return err
		}
		blastCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blast/journal.db", "Path to session journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blast.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(soakCmd)
}

// newLogger builds the command logger. Logs go to --log-file when given and
// to fallback otherwise. The returned close func is never nil.
func newLogger(prefix string, fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	out, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}

// registerBoards fills the process-wide registry from the loaded presets.
func registerBoards(logger *log.Logger) error {
	return blast.RegisterPresets(registry.Default(), blastCfg, blast.WithLogger(logger))
}
