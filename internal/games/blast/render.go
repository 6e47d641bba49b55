package blast

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast/engine"
)

const (
	cellWidth = 3 // Screen columns per board cell
	hudHeight = 2
	minHUDW   = 56
)

// tierGlyphs are drawn for tiers 0..3.
var tierGlyphs = [...]rune{'●', '◆', '■', '★'}

var tileColors = map[engine.Color]core.Color{
	engine.ColorBlue:   core.ColorBlue,
	engine.ColorGreen:  core.ColorGreen,
	engine.ColorPink:   core.ColorPink,
	engine.ColorPurple: core.ColorPurple,
	engine.ColorRed:    core.ColorRed,
	engine.ColorYellow: core.ColorYellow,
}

// minSize returns the smallest screen the board fits on.
func (g *Game) minSize() (w, h int) {
	w = max(g.preset.Width*cellWidth+2, minHUDW)
	h = hudHeight + g.preset.Height + 2 + 1
	return w, h
}

// boardRect returns the board frame in screen cells.
func (g *Game) boardRect() core.Rect {
	w := g.preset.Width*cellWidth + 2
	h := g.preset.Height + 2
	return core.Rect{X: (g.screenW - w) / 2, Y: hudHeight, W: w, H: h}
}

// cellOrigin returns the screen position of the left column of cell (x, y).
// Row 0 is the bottom row.
func (g *Game) cellOrigin(x, y int) (int, int) {
	r := g.boardRect()
	return r.X + 1 + x*cellWidth, r.Y + 1 + (g.preset.Height - 1 - y)
}

// cellAt maps a screen position to the board cell under it.
func (g *Game) cellAt(px, py int) (engine.Coord, bool) {
	r := g.boardRect()
	inner := core.Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
	if !inner.Contains(px, py) {
		return engine.Coord{}, false
	}
	x := (px - inner.X) / cellWidth
	y := g.preset.Height - 1 - (py - inner.Y)
	return engine.C(x, y), true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.err != nil {
		dst.DrawTextCentered(g.screenH/2, "Cannot create board: "+g.err.Error())
		return
	}

	g.renderHUD(dst)
	dst.DrawBox(g.boardRect(), core.ColorGray)
	g.renderTiles(dst)
	g.renderMarks(dst)
	g.renderOverlays(dst)

	r := g.boardRect()
	dst.DrawTextCentered(r.Bottom(), g.Controls())
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	w, h := g.minSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", w, h))
}

func (g *Game) renderHUD(dst *core.Screen) {
	r := g.boardRect()
	x := min(r.X, (g.screenW-minHUDW)/2)

	dst.DrawTextColored(x, 0, "BLAST · "+g.Title(), core.ColorWhite)
	phase := g.State().Status
	dst.DrawTextColored(x+minHUDW-len(phase), 0, phase, core.ColorDim)

	var s engine.Stats
	if g.eng != nil {
		s = g.eng.Stats()
	}
	dst.DrawText(x, 1, fmt.Sprintf("Moves %d  Cleared %d  Best %d  Groups %d  Shuffles %d",
		g.moves, s.Destroyed, s.LargestGroup, s.Groups, s.Shuffles))
}

func (g *Game) renderTiles(dst *core.Screen) {
	for _, s := range g.sprites {
		fx, fy := s.position()
		x, y := int(math.Round(fx)), int(math.Round(fy))
		if y < 0 || y >= g.preset.Height || x < 0 || x >= g.preset.Width {
			continue
		}
		px, py := g.cellOrigin(x, y)

		glyph := tierGlyphs[min(s.tier, len(tierGlyphs)-1)]
		color := tileColors[s.color]
		cell := core.Cell{Rune: glyph, Color: color, Bold: s.tier > 0}
		if s.tier >= 2 {
			cell.Color = color.Bright()
		}
		if s.motion == motionDestroy {
			cell = core.Cell{Rune: '✶', Color: color.Bright(), Bold: true}
			if s.progress() > 0.5 {
				cell.Rune = '·'
			}
		}
		dst.SetCell(px+1, py, cell)
	}
}

// renderMarks draws the cursor and denied-selection flashes.
func (g *Game) renderMarks(dst *core.Screen) {
	for _, f := range g.flashes {
		if (f.ticks/2)%2 == 0 {
			continue
		}
		px, py := g.cellOrigin(f.at.X, f.at.Y)
		dst.SetColored(px, py, '×', core.ColorBrightRed)
		dst.SetColored(px+2, py, '×', core.ColorBrightRed)
	}

	if g.eng == nil || g.deadlocked {
		return
	}
	px, py := g.cellOrigin(g.cursor.X, g.cursor.Y)
	c := core.ColorWhite
	if g.eng.Locked() {
		c = core.ColorDim
	}
	dst.SetColored(px, py, '[', c)
	dst.SetColored(px+2, py, ']', c)
}

func (g *Game) renderOverlays(dst *core.Screen) {
	switch {
	case g.paused:
		g.drawOverlay(dst, "PAUSED", "Press P to resume")
	case g.deadlocked:
		g.drawOverlay(dst, "NO MOVES LEFT", fmt.Sprintf("%d moves played", g.moves), "Press R to restart")
	}
}

// drawOverlay draws a centered text box over the board.
func (g *Game) drawOverlay(dst *core.Screen, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	box := g.boardRect().Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, core.ColorWhite)
	for i, line := range lines {
		x := box.X + (box.W-len([]rune(line)))/2
		dst.DrawText(x, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space/Click: Blast | P: Pause | R: Restart | Q: Quit"
}
