package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("addr = %q, want default %q", cfg.Server.Addr, want.Server.Addr)
	}
	if cfg.Database.DBName != want.Database.DBName {
		t.Errorf("dbname = %q, want default %q", cfg.Database.DBName, want.Database.DBName)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  addr: \":9090\"\ndatabase:\n  dbname: billing_test\nauth:\n  jwt_secret: file-secret\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Database.DBName != "billing_test" {
		t.Errorf("dbname = %q, want billing_test", cfg.Database.DBName)
	}
	if cfg.Auth.JWTSecret != "file-secret" {
		t.Errorf("jwt secret not overridden")
	}
	// Untouched keys keep their defaults.
	if cfg.Database.Host != Default().Database.Host {
		t.Errorf("host = %q, want default", cfg.Database.Host)
	}
}
