package blast

import "github.com/vovakirdan/tui-blast/internal/games/blast/engine"

// Snapshot captures the game state for determinism testing and the session
// journal.
type Snapshot struct {
	Tick       uint64
	Preset     string
	Seed       int64
	Moves      int
	Denied     int
	Phase      string
	Deadlocked bool
	Board      []string // Rows top first, one colour letter per cell
	Stats      engine.Stats
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       g.tick,
		Preset:     g.preset.Name,
		Seed:       g.seed,
		Moves:      g.moves,
		Denied:     g.denied,
		Phase:      g.State().Status,
		Deadlocked: g.deadlocked,
	}
	if g.eng == nil {
		return s
	}
	s.Stats = g.eng.Stats()
	s.Board = Picture(g.eng.Layout(), g.preset.Width, g.preset.Height)
	return s
}

// Picture renders a column-major colour layout as text rows, top row first.
// Empty cells are '.'.
func Picture(layout []engine.Color, w, h int) []string {
	rows := make([]string, 0, h)
	for y := h - 1; y >= 0; y-- {
		row := make([]rune, w)
		for x := range w {
			c := layout[x*h+y]
			if c >= engine.ColorCount {
				row[x] = '.'
				continue
			}
			row[x] = c.Char()
		}
		rows = append(rows, string(row))
	}
	return rows
}
