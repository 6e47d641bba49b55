package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/registry"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryTUI   bool
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [board]",
	Short: "Show the session journal",
	Long: `Display recent sessions from the journal, optionally for one board.

Examples:
  blast history
  blast history classic --limit 5
  blast history --tui
  blast history mini --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of sessions to show")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse the journal interactively")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete journaled sessions instead of showing them")
}

func runHistory(_ *cobra.Command, args []string) {
	var preset string
	if len(args) == 1 {
		preset = args[0]
		if _, err := blastCfg.Preset(preset); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'blast list' to see available boards.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session journal: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		clearHistory(store, preset)
	case flagHistoryTUI:
		browseHistory(store)
	default:
		printHistory(store, preset)
	}
}

func clearHistory(store *storage.Store, preset string) {
	if err := store.ClearSessions(preset); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing sessions: %v\n", err)
		os.Exit(1)
	}
	if preset == "" {
		fmt.Println("Cleared all sessions.")
		return
	}
	fmt.Printf("Cleared sessions for %s.\n", preset)
}

func browseHistory(store *storage.Store) {
	if err := registerBoards(nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	if _, err := tui.RunHistory(store, registry.List(), width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHistory(store *storage.Store, preset string) {
	sessions, err := store.RecentSessions(preset, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	title := "all boards"
	if preset != "" {
		title = preset
	}
	fmt.Printf("Recent sessions - %s\n", title)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'blast play' to start one!")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-5s  %-5s  %-7s  %-8s  %-7s  %s\n",
		"Date", "Board", "From", "Moves", "Blasted", "Shuffles", "Largest", "End")
	fmt.Printf("  %-16s  %-8s  %-5s  %-5s  %-7s  %-8s  %-7s  %s\n",
		"----", "-----", "----", "-----", "-------", "--------", "-------", "---")

	for _, s := range sessions {
		end := "quit"
		if s.Deadlocked {
			end = "no moves"
		}
		fmt.Printf("  %-16s  %-8s  %-5s  %-5d  %-7d  %-8d  %-7d  %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.Preset, s.Source,
			s.Moves, s.Destroyed, s.Shuffles, s.LargestGroup, end)
	}

	stats, err := store.AllPresetStats()
	if err != nil || len(stats) == 0 {
		return
	}
	if st, ok := stats[preset]; ok {
		fmt.Println()
		fmt.Printf("%d sessions, %d tiles blasted, largest group %d\n",
			st.Sessions, st.Destroyed, st.LargestGroup)
	}
}
