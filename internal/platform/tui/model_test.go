package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/core"
	"github.com/vovakirdan/tui-blast/internal/games/blast"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.ActionSelect, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionSelect, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")}, core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, core.ActionRestart, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")}, core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.key)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v,%v, want %v,%v", tt.key.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapMouse(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	km.MapMouseToFrame(tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 5, Y: 6, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}, &frame)
	km.MapMouseToFrame(tea.MouseMsg{X: 7, Y: 8, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, &frame)

	if len(frame.Clicks) != 1 || frame.Clicks[0] != (core.Point{X: 3, Y: 4}) {
		t.Errorf("Clicks = %v, want [{3 4}]", frame.Clicks)
	}
}

// tick feeds one TickMsg through the model.
func tick(m Model) Model {
	next, _ := m.Update(TickMsg{})
	return next.(Model)
}

func TestModelJournalsSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	cfg := config.DefaultBlastConfig()
	p, err := cfg.Preset("mini")
	if err != nil {
		t.Fatal(err)
	}
	game := blast.New(p, cfg.Animation)
	m := NewModel(game, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 9}, storage.SourcePlay, nil)
	m.Init()

	for range 2000 {
		if !game.Busy() {
			break
		}
		m = tick(m)
	}

	// Click every tile until one blasts.
	m.game.Render(m.screen)
	for y := range m.screen.Height() {
		for x := range m.screen.Width() {
			if game.State().Moves > 0 || game.Busy() {
				break
			}
			switch m.screen.Get(x, y) {
			case '●', '◆', '■', '★':
			default:
				continue
			}
			next, _ := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m = tick(next.(Model))
		}
	}
	if game.State().Moves != 1 {
		t.Fatalf("Moves = %d, want 1", game.State().Moves)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	if cmd == nil || !m.IsQuitting() {
		t.Fatal("q should quit")
	}

	sessions, err := store.RecentSessions("mini", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("journal has %d sessions, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Moves != 1 || s.Seed != 9 || s.Source != storage.SourcePlay || s.Resolutions != 1 {
		t.Errorf("journaled %+v", s)
	}

	// Quitting twice does not journal twice.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if sessions, _ := store.RecentSessions("mini", 10); len(sessions) != 1 {
		t.Errorf("journal has %d sessions after second quit", len(sessions))
	}
}

func TestModelSkipsEmptySession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	cfg := config.DefaultBlastConfig()
	p, _ := cfg.Preset("mini")
	m := NewModel(blast.New(p, cfg.Animation), store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, storage.SourcePlay, nil)
	m.Init()
	m = tick(m)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if sessions, _ := store.RecentSessions("", 10); len(sessions) != 0 {
		t.Errorf("journal has %d sessions, want 0", len(sessions))
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(6, 1)
	s.DrawText(0, 0, "ab")
	s.SetCell(3, 0, core.Cell{Rune: '●', Color: core.ColorRed, Bold: true})

	out := RenderScreen(s)
	for _, want := range []string{"ab", "●"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen output %q lacks %q", out, want)
		}
	}
}
