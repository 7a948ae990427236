package config

import (
	"os"
	"path/filepath"
	"testing"
)

func testLoader(t *testing.T, workDir, homeDir string, env map[string]string) *Loader {
	t.Helper()
	l := NewLoader(nil)
	l.workDir = workDir
	l.homeDir = homeDir
	l.getenv = func(k string) string { return env[k] }
	return l
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(project, "rules"), 0755); err != nil {
		t.Fatal(err)
	}

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
engine:
  max_iterations: 8
nats:
  source: user-host
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
engine:
  max_iterations: 10
rules:
  dir: rules
`)

	cfg, err := testLoader(t, nested, home, map[string]string{EnvNATSURL: "nats://env:4222"}).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.MaxIterations != 10 {
		t.Errorf("expected project config to win, got %d", cfg.Engine.MaxIterations)
	}
	if cfg.NATS.Source != "user-host" {
		t.Errorf("expected user config source, got %s", cfg.NATS.Source)
	}
	if cfg.Rules.Dir != filepath.Join(project, "rules") {
		t.Errorf("expected rules dir relative to project config, got %s", cfg.Rules.Dir)
	}
	if cfg.NATS.URL != "nats://env:4222" {
		t.Errorf("expected env NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoaderProjectLayerKeepsUserValues(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	writeFile(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
engine:
  incremental: false
nats:
  url: nats://user:4222
  subject: user.subject
`)
	writeFile(t, filepath.Join(project, ProjectConfigFile), `
engine:
  max_iterations: 4
`)

	cfg, err := testLoader(t, project, home, nil).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Engine.IncrementalEnabled() {
		t.Error("expected user incremental: false to survive the project layer")
	}
	if cfg.NATS.URL != "nats://user:4222" {
		t.Errorf("expected user NATS URL, got %s", cfg.NATS.URL)
	}
	if cfg.NATS.Subject != "user.subject" {
		t.Errorf("expected user subject, got %s", cfg.NATS.Subject)
	}
	if cfg.NATS.Source != "semcomply" {
		t.Errorf("expected default source, got %s", cfg.NATS.Source)
	}
	if cfg.Engine.MaxIterations != 4 {
		t.Errorf("expected project max iterations, got %d", cfg.Engine.MaxIterations)
	}
}

func TestLoaderEnvMaxIterations(t *testing.T) {
	empty := t.TempDir()

	cfg, err := testLoader(t, empty, empty, map[string]string{EnvMaxIterations: "3"}).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Engine.MaxIterations != 3 {
		t.Errorf("expected 3, got %d", cfg.Engine.MaxIterations)
	}

	if _, err := testLoader(t, empty, empty, map[string]string{EnvMaxIterations: "many"}).Load(); err == nil {
		t.Error("expected error for non-numeric override")
	}
	if _, err := testLoader(t, empty, empty, map[string]string{EnvMaxIterations: "0"}).Load(); err == nil {
		t.Error("expected validation error for zero iterations")
	}
}

func TestLoaderBrokenProjectConfig(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ProjectConfigFile), "engine: [")

	if _, err := testLoader(t, project, t.TempDir(), nil).Load(); err == nil {
		t.Error("expected error for malformed project config")
	}
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "frameworks"), 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "frameworks:\n  dir: frameworks\n")

	cfg, err := testLoader(t, dir, dir, nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Frameworks.Dir != filepath.Join(dir, "frameworks") {
		t.Errorf("unexpected frameworks dir %s", cfg.Frameworks.Dir)
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := testLoader(t, home, home, nil)

	if err := l.EnsureUserConfig(); err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	path := filepath.Join(home, UserConfigDir, UserConfigFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("user config not created: %v", err)
	}
	if err := l.EnsureUserConfig(); err != nil {
		t.Errorf("second EnsureUserConfig() error = %v", err)
	}
}
