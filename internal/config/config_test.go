package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "base url without host",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "host",
		},
		{
			name: "zero max id",
			mutate: func(cfg *Config) {
				cfg.MaxID = 0
			},
			wantErr: "max id",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = Duration{-time.Second}
			},
			wantErr: "timeout",
		},
		{
			name: "empty db path",
			mutate: func(cfg *Config) {
				cfg.Cache.DBPath = ""
			},
			wantErr: "db path",
		},
		{
			name: "zero l1 size",
			mutate: func(cfg *Config) {
				cfg.Cache.L1Size = 0
			},
			wantErr: "l1 size",
		},
		{
			name: "port out of range",
			mutate: func(cfg *Config) {
				cfg.Server.Port = 70000
			},
			wantErr: "port",
		},
		{
			name: "unknown log level",
			mutate: func(cfg *Config) {
				cfg.LogLevel = "loud"
			},
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxID = -1
	cfg.Parallelism = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected an error")
	}
	for _, want := range []string{"max id", "parallelism"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %q", err, want)
		}
	}
}

func TestNoPersistSkipsBadgerChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.NoPersist = true
	cfg.Cache.DBPath = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("no-persist config should validate, got %v", err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokeview.toml")
	content := `
base_url = "http://catalog.test/pokemon"
max_id = 151
timeout = "3s"

[cache]
no_persist = true
l1_size = 10

[server]
port = 9000
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.BaseURL != "http://catalog.test/pokemon" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.MaxID != 151 {
		t.Fatalf("max id = %d, want 151", cfg.MaxID)
	}
	if cfg.Timeout.Duration != 3*time.Second {
		t.Fatalf("timeout = %v, want 3s", cfg.Timeout)
	}
	if !cfg.Cache.NoPersist || cfg.Cache.L1Size != 10 {
		t.Fatalf("cache section not applied: %+v", cfg.Cache)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Server.Port)
	}
	// untouched keys keep their defaults
	if cfg.Cache.L1TTL.Duration != 7200*time.Second {
		t.Fatalf("l1 ttl = %v, want default", cfg.Cache.L1TTL)
	}
}

func TestReadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(`timeout = "soon"`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Fatalf("expected duration error")
	}
}
