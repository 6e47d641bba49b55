package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/platform/tui"
	"github.com/vovakirdan/tui-blast/internal/registry"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [board]",
	Short: "Play a board",
	Long: `Start playing the given board preset. Without an argument a board
picker is shown and you return to it after every game.

Controls:
  Arrows/WASD/HJKL - Move cursor
  Space/Enter      - Blast the group under the cursor
  Mouse click      - Blast the clicked group
  P/Esc            - Pause
  R                - New board
  Q/Ctrl+C         - Quit

Examples:
  blast play
  blast play classic
  blast play mini --seed 42
  blast play dense --config ./my-blast.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	// The terminal belongs to bubbletea, so logs go nowhere unless --log-file is set.
	logger, closeLog, err := newLogger("blast", io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := registerBoards(logger); err != nil {
		return err
	}

	var boardID string
	if len(args) == 1 {
		boardID = args[0]
		if !registry.Exists(boardID) {
			return fmt.Errorf("unknown board %q, run 'blast list' to see available boards", boardID)
		}
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open session journal
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session journal: %v\n", err)
		// Continue without storage - the board still works
		store = nil
	}

	if store != nil {
		defer store.Close()
	}

	if boardID != "" {
		return playBoard(boardID, store, cfg, logger)
	}
	return runMenuLoop(store, cfg, logger)
}

func playBoard(id string, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	game, err := registry.Create(id)
	if err != nil {
		return fmt.Errorf("cannot create board: %w", err)
	}
	return tui.Run(game, store, cfg, logger)
}

// runMenuLoop shows the board picker until the user quits.
func runMenuLoop(store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	for {
		menuResult, err := tui.RunMenu(registry.List(), cfg)
		if err != nil {
			return err
		}

		// Update config with any size changes
		cfg = menuResult.Config

		switch {
		case menuResult.Quit:
			return nil

		case menuResult.WantsHistory:
			goBack, err := tui.RunHistory(store, registry.List(), cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		default:
			if err := playBoard(menuResult.GameID, store, cfg, logger); err != nil {
				return err
			}
		}
	}
}
