package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/napier-ai/napier/errors"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg == nil {
		t.Fatal("Load must always return a usable config")
	}
	if err == nil {
		t.Fatal("expected a configuration warning for a missing file")
	}
	if !errors.IsKind(err, errors.KindConfiguration) {
		t.Errorf("expected KindConfiguration, got %v", err)
	}
	if cfg.Napier.Name != "gemini-2.0-flash" {
		t.Errorf("expected default model, got %q", cfg.Napier.Name)
	}
	if cfg.Napier.Temperature != 0.2 {
		t.Errorf("expected default temperature 0.2, got %v", cfg.Napier.Temperature)
	}
}

func TestLoadParseErrorFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "napier.yaml")
	if err := os.WriteFile(path, []byte("mcp_servers: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if cfg == nil {
		t.Fatal("Load must always return a usable config")
	}
	if !errors.IsKind(err, errors.KindConfiguration) {
		t.Errorf("expected KindConfiguration, got %v", err)
	}
	if len(cfg.Servers) != 0 {
		t.Errorf("expected empty server registry, got %v", cfg.Servers)
	}
}

func TestLoadRegistryAndDefaults(t *testing.T) {
	content := `
mcp_servers:
  playwright:
    command: npx
    args: ["-y", "@playwright/mcp"]
    env:
      HEADLESS: "1"
  weather:
    command: python
    args: ["weather_server.py"]
defaults:
  server: weather
napier:
  provider: gemini
  model: gemini-1.5-pro
  temperature: 0.3
`
	path := filepath.Join(t.TempDir(), "napier.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv, ok := cfg.Resolve("playwright")
	if !ok {
		t.Fatal("expected playwright to resolve")
	}
	if srv.Command != "npx" || len(srv.Args) != 2 {
		t.Errorf("unexpected descriptor: %+v", srv)
	}
	if srv.Env["HEADLESS"] != "1" {
		t.Errorf("expected env to be loaded, got %v", srv.Env)
	}

	if _, ok := cfg.Resolve("missing"); ok {
		t.Error("unknown server name must not resolve")
	}

	if cfg.DefaultServer() != "weather" {
		t.Errorf("expected default server weather, got %q", cfg.DefaultServer())
	}

	names := cfg.ServerNames()
	if len(names) != 2 || names[0] != "playwright" || names[1] != "weather" {
		t.Errorf("expected sorted names, got %v", names)
	}

	if cfg.Napier.Name != "gemini-1.5-pro" || cfg.Napier.Temperature != 0.3 {
		t.Errorf("unexpected model settings: %+v", cfg.Napier)
	}
}
