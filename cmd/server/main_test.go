package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindAndLoadConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, configName)
	if err := os.WriteFile(path, []byte(`{"addr":":9090","db":"games.db","sqlDebug":true}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Chdir(nested)

	found, err := findConfigPath()
	if err != nil {
		t.Fatalf("findConfigPath: %v", err)
	}
	want, _ := filepath.EvalSymlinks(path)
	if got, _ := filepath.EvalSymlinks(found); got != want {
		t.Fatalf("found %s, want %s", got, want)
	}

	cfg, err := loadConfig(found)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DB != "games.db" || !cfg.SQLDebug || cfg.FEN != "" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestLoadConfigRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), configName)
	if err := os.WriteFile(path, []byte(`{"addr":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("TDCHESS_TEST_FLAG", "on")
	if !getenb("TDCHESS_TEST_FLAG", false) {
		t.Fatalf("getenb ignored the environment")
	}
	t.Setenv("TDCHESS_TEST_FLAG", "maybe")
	if getenb("TDCHESS_TEST_FLAG", false) {
		t.Fatalf("unrecognised values should keep the default")
	}
	if got := getenv("TDCHESS_TEST_UNSET", "def"); got != "def" {
		t.Fatalf("getenv = %q", got)
	}
}
