package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-blast/internal/config"
	"github.com/vovakirdan/tui-blast/internal/storage"
)

// useSoakFlags points the soak flags at a temp dir and restores them after t.
func useSoakFlags(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	saved := struct {
		cfg                     config.BlastConfig
		db, logFile, level, pre string
		seed                    int64
		sessions, moves, work   int
		journal                 bool
	}{blastCfg, flagDBPath, flagLogFile, flagLogLevel, flagSoakPreset, flagSeed,
		flagSoakSessions, flagSoakMoves, flagSoakWorkers, flagSoakJournal}
	t.Cleanup(func() {
		blastCfg, flagDBPath, flagLogFile, flagLogLevel, flagSoakPreset = saved.cfg, saved.db, saved.logFile, saved.level, saved.pre
		flagSeed, flagSoakSessions, flagSoakMoves, flagSoakWorkers, flagSoakJournal = saved.seed, saved.sessions, saved.moves, saved.work, saved.journal
	})

	blastCfg = config.DefaultBlastConfig()
	flagDBPath = filepath.Join(dir, "journal.db")
	flagLogFile = filepath.Join(dir, "soak.log")
	flagLogLevel = "info"
	flagSeed = 42
	flagSoakSessions = 3
	flagSoakMoves = 5
	flagSoakWorkers = 2
	flagSoakJournal = false
}

func TestSoakReturnsErrorAndKeepsLog(t *testing.T) {
	useSoakFlags(t)
	flagSoakPreset = "huge"

	if err := runSoak(nil, nil); err == nil {
		t.Fatal("expected error for unknown preset")
	}

	data, err := os.ReadFile(flagLogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "unknown preset") {
		t.Errorf("log file is missing the failure, got %q", data)
	}
}

func TestSoakJournalsSessions(t *testing.T) {
	useSoakFlags(t)
	flagSoakPreset = "mini"
	flagSoakJournal = true

	if err := runSoak(nil, nil); err != nil {
		t.Fatalf("runSoak: %v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer store.Close()

	sessions, err := store.RecentSessions("mini", 0)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("journaled %d sessions, expected 3", len(sessions))
	}
	for _, s := range sessions {
		if s.Source != storage.SourceSoak {
			t.Errorf("session %s source = %q, expected %q", s.ID, s.Source, storage.SourceSoak)
		}
	}

	data, _ := os.ReadFile(flagLogFile)
	if !strings.Contains(string(data), "soak started") {
		t.Errorf("log file is missing the start line, got %q", data)
	}
}
