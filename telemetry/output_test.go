package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/sparks/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager without error, got %v, %v", om, err)
	}

	// Nil manager is a no-op
	if err := om.WriteTelemetry([]WindowStats{{Emitter: "sparks"}}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, "run", 1); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir for nil manager")
	}
}

func TestOutputManagerHeadersOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		rows := []WindowStats{
			{RunID: "run-1", Emitter: "sparks", Emitted: i},
			{RunID: "run-1", Emitter: "smoke", Emitted: i},
		}
		if err := om.WriteTelemetry(rows); err != nil {
			t.Fatalf("writing telemetry: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, "run-1", float64(i)); err != nil {
			t.Fatalf("writing perf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header + 6 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "run_id,window_end,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if strings.Count(string(data), "run_id") != 1 {
		t.Error("expected header written exactly once")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(strings.Split(strings.TrimSpace(string(perf)), "\n")); n != 4 {
		t.Errorf("expected header + 3 perf rows, got %d lines", n)
	}
}

func TestOutputManagerWriteConfig(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(om.Dir(), "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
}
