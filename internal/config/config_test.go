package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	base := t.TempDir()
	return &Config{
		Port:           "8081",
		SnapshotPath:   filepath.Join(base, "snapshot.json"),
		SQLiteDBPath:   filepath.Join(base, "archive.db"),
		RowSource:      "memory",
		ExportInterval: 6 * time.Hour,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ROW_SOURCE", "BLANK_COMMENT_MEANS_FUEL", "EXPORT_INTERVAL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("port default: %q", cfg.Port)
	}
	if cfg.RowSource != "memory" {
		t.Fatalf("row source default: %q", cfg.RowSource)
	}
	if !cfg.BlankCommentMeansFuel {
		t.Fatal("blank comment policy should default on")
	}
	if cfg.ExportInterval != 6*time.Hour {
		t.Fatalf("export interval default: %v", cfg.ExportInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ROW_SOURCE", "sheets")
	t.Setenv("BLANK_COMMENT_MEANS_FUEL", "false")
	t.Setenv("EXPORT_INTERVAL", "30m")

	cfg := Load()
	if cfg.Port != "9090" || cfg.RowSource != "sheets" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BlankCommentMeansFuel {
		t.Fatal("policy override not applied")
	}
	if cfg.ExportInterval != 30*time.Minute {
		t.Fatalf("export interval: %v", cfg.ExportInterval)
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }, "invalid port"},
		{"port range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty snapshot path", func(c *Config) { c.SnapshotPath = "" }, "snapshot path"},
		{"bad source", func(c *Config) { c.RowSource = "csv" }, "invalid row source"},
		{"sheets without spreadsheet", func(c *Config) { c.RowSource = "sheets" }, "Spreadsheet ID"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://x" }, "AMQP URL scheme"},
		{"interval too short", func(c *Config) { c.ExportInterval = time.Second }, "export interval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected %q in error, got: %v", tc.wantSub, err)
			}
		})
	}
}
