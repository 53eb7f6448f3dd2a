package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"LIGHTHOUSE_ADDR", "LIGHTHOUSE_RUNTIME", "DOCKER_HOST", "LIGHTHOUSE_BUILD_DIR", "NGROK_AUTHTOKEN", "LIGHTHOUSE_LOG_LEVEL"} {
		if v, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIGHTHOUSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "listen_addr: \":9000\"\nruntime: sdk\nngrok_authtoken: from-file\nbuild_dir: ./web\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LIGHTHOUSE_CONFIG", path)
	t.Setenv("NGROK_AUTHTOKEN", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9000" || cfg.Runtime != RuntimeSDK || cfg.BuildDir != "./web" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.NgrokAuthtoken != "from-env" {
		t.Fatalf("env should override file, got %q", cfg.NgrokAuthtoken)
	}
}

func TestLoadRejectsUnknownRuntime(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIGHTHOUSE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("LIGHTHOUSE_RUNTIME", "podman")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown runtime")
	}
}
