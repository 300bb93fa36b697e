package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Sparks.Capacity != 1024 {
		t.Errorf("expected capacity 1024, got %d", cfg.Sparks.Capacity)
	}
	if cfg.Derived.Gravity32 != -1 {
		t.Errorf("expected gravity -1, got %f", cfg.Derived.Gravity32)
	}
	if cfg.Derived.SparkBufferLen != 1024*44 {
		t.Errorf("expected buffer length %d, got %d", 1024*44, cfg.Derived.SparkBufferLen)
	}

	sparks, ok := cfg.Emitter("sparks")
	if !ok {
		t.Fatal("expected sparks emitter in defaults")
	}
	if sparks.Interval != 0.2 {
		t.Errorf("expected spark interval 0.2, got %f", sparks.Interval)
	}
	if !sparks.Enabled {
		t.Error("expected sparks emitter enabled by default")
	}

	smoke, ok := cfg.Emitter("smoke")
	if !ok {
		t.Fatal("expected smoke emitter in defaults")
	}
	if smoke.Enabled {
		t.Error("expected smoke emitter disabled by default")
	}
	if cfg.Derived.EnabledCount != 1 {
		t.Errorf("expected 1 enabled emitter, got %d", cfg.Derived.EnabledCount)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("sparks:\n  capacity: 64\n  gravity: -2.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Sparks.Capacity != 64 {
		t.Errorf("expected capacity 64, got %d", cfg.Sparks.Capacity)
	}
	if cfg.Derived.Gravity32 != -2.5 {
		t.Errorf("expected gravity -2.5, got %f", cfg.Derived.Gravity32)
	}
	// Fields absent from the override keep their defaults
	if cfg.Sparks.VertexShader != "shaders/sparks.vs" {
		t.Errorf("expected default vertex shader path, got %q", cfg.Sparks.VertexShader)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zero capacity":  "sparks:\n  capacity: 0\n",
		"inverted range": "emitters:\n  - name: a\n    duration: {min: 1, max: 2}\n    size: {min: 5, max: 1}\n",
		"dead duration":  "emitters:\n  - name: a\n    duration: {min: 0, max: 0}\n",
		"duplicate name": "emitters:\n  - name: a\n    duration: {min: 1, max: 1}\n  - name: a\n    duration: {min: 1, max: 1}\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if again.Sparks.Capacity != cfg.Sparks.Capacity || len(again.Emitters) != len(cfg.Emitters) {
		t.Error("written config did not reload to the same values")
	}
}
