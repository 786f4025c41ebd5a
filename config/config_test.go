package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Empty dir, so only the defaults apply.
	if err := Load(t.TempDir()); err != nil {
		t.Fatalf("Load() with no config file error = %v", err)
	}

	if got := viper.GetString("log.level"); got != "info" {
		t.Fatalf("log.level = %q, want info", got)
	}
	if got := viper.GetInt("sim.titans"); got != 3 {
		t.Fatalf("sim.titans = %d, want 3", got)
	}
	if got := viper.GetFloat64("sim.gravity"); got >= 0 {
		t.Fatalf("sim.gravity = %v, want negative", got)
	}
	if !viper.GetBool("telemetry.enabled") {
		t.Fatal("telemetry should default on")
	}
	if got := viper.GetInt("telemetry.sample_every"); got <= 0 {
		t.Fatalf("telemetry.sample_every = %d, want positive", got)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := []byte("log:\n  level: debug\nsim:\n  titans: 7\nwindow:\n  title: custom\n")
	if err := os.WriteFile(filepath.Join(dir, "skyhook.yaml"), cfg, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Load(dir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := viper.GetString("log.level"); got != "debug" {
		t.Fatalf("log.level = %q, want debug", got)
	}
	if got := viper.GetInt("sim.titans"); got != 7 {
		t.Fatalf("sim.titans = %d, want 7", got)
	}
	if got := viper.GetString("window.title"); got != "custom" {
		t.Fatalf("window.title = %q, want custom", got)
	}
	// Untouched keys keep their defaults.
	if got := viper.GetInt("window.width"); got != 1280 {
		t.Fatalf("window.width = %d, want 1280", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "skyhook.yaml"), []byte("{{nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Load(dir); err == nil {
		t.Fatal("Load() accepted a malformed config file")
	}
}
