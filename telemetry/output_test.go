package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/navpreett/3D-Particle-Simulation/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManager_WritesCSVFiles(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}
	if om.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", om.Dir(), dir)
	}

	if err := om.WriteStats(WindowStats{WindowEndTick: 120, SpeedMean: 0.5}); err != nil {
		t.Fatalf("WriteStats failed: %v", err)
	}
	if err := om.WriteStats(WindowStats{WindowEndTick: 240, SpeedMean: 0.6}); err != nil {
		t.Fatalf("WriteStats failed: %v", err)
	}
	if err := om.WritePerf(PerfStats{AvgTickDuration: time.Millisecond}, 120); err != nil {
		t.Fatalf("WritePerf failed: %v", err)
	}
	if err := om.WriteRegime(Regime{Type: RegimeFreeze, Tick: 240, Description: "test"}); err != nil {
		t.Fatalf("WriteRegime failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	stats := readLines(t, filepath.Join(dir, "stats.csv"))
	if len(stats) != 3 {
		t.Fatalf("stats.csv has %d lines, want header plus 2 rows", len(stats))
	}
	if !strings.Contains(stats[0], "speed_mean") {
		t.Errorf("stats.csv header looks wrong: %q", stats[0])
	}
	if !strings.HasPrefix(stats[1], "120,") {
		t.Errorf("first stats row = %q, want it to start with the window end", stats[1])
	}

	perf := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perf) != 2 || !strings.Contains(perf[0], "avg_tick_us") {
		t.Errorf("perf.csv = %v, want header plus 1 row", perf)
	}

	regimes := readLines(t, filepath.Join(dir, "regimes.csv"))
	if len(regimes) != 2 || !strings.Contains(regimes[1], "freeze") {
		t.Errorf("regimes.csv = %v, want header plus a freeze row", regimes)
	}
}

func TestOutputManager_DisabledIsNil(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") failed: %v", err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}

	// All methods are nil-safe no-ops
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("WriteStats on nil manager: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil manager: %v", err)
	}
	if err := om.WriteRegime(Regime{}); err != nil {
		t.Errorf("WriteRegime on nil manager: %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("WriteConfig on nil manager: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir on nil manager = %q, want empty", om.Dir())
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManager_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	// The dumped file loads back as a valid config
	back, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("loading dumped config: %v", err)
	}
	if back.Particles.Count != cfg.Particles.Count {
		t.Errorf("dumped config count = %d, want %d", back.Particles.Count, cfg.Particles.Count)
	}
}
