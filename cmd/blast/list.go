package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available boards",
	Long:  `Shows every board preset from the loaded blast.yaml.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	names := blastCfg.PresetNames()
	if len(names) == 0 {
		fmt.Println("No boards available.")
		return
	}

	fmt.Println("Available boards:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, n := range names {
		maxIDLen = max(maxIDLen, len(n))
	}

	fmt.Printf("  %-*s  %-10s  %-7s  %-7s  %s\n", maxIDLen, "ID", "Title", "Size", "Colors", "Tiers")
	fmt.Printf("  %-*s  %-10s  %-7s  %-7s  %s\n", maxIDLen, "--", "-----", "----", "------", "-----")

	for _, n := range names {
		p, err := blastCfg.Preset(n)
		if err != nil {
			continue
		}
		marker := ""
		if n == blastCfg.DefaultPreset {
			marker = "  (default)"
		}
		fmt.Printf("  %-*s  %-10s  %-7s  %-7d  %v%s\n", maxIDLen, n, p.Title,
			fmt.Sprintf("%dx%d", p.Width, p.Height), p.Palette, p.Thresholds, marker)
	}

	fmt.Println()
	fmt.Println("Run 'blast play <id>' to play a board.")
}
