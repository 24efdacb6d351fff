package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Columns.ForkCount != "num_forks" {
		t.Errorf("expected default fork column 'num_forks', got %q", cfg.Columns.ForkCount)
	}
	if cfg.Columns.List != "ENABLED_OPS" {
		t.Errorf("expected default list column 'ENABLED_OPS', got %q", cfg.Columns.List)
	}
	if cfg.Columns.ListSeparator != "-" {
		t.Errorf("expected default separator '-', got %q", cfg.Columns.ListSeparator)
	}
	if cfg.Scoring.Policy != "mismatch" {
		t.Errorf("expected default policy 'mismatch', got %q", cfg.Scoring.Policy)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("expected default format 'text', got %q", cfg.Output.Format)
	}
	if cfg.Comma() != ',' {
		t.Errorf("expected default comma ',', got %q", cfg.Comma())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid YAML overrides defaults",
			yaml: `
columns:
  fork_count: forks
  list: OPS
  list_separator: "+"
  delimiter: ";"
scoring:
  policy: neutral
publish:
  target: s3://results/matrix
  region: eu-west-1
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Columns.ForkCount != "forks" {
					t.Errorf("expected fork column 'forks', got %q", cfg.Columns.ForkCount)
				}
				if cfg.Columns.List != "OPS" || cfg.Columns.ListSeparator != "+" {
					t.Errorf("unexpected list settings: %+v", cfg.Columns)
				}
				if cfg.Comma() != ';' {
					t.Errorf("expected comma ';', got %q", cfg.Comma())
				}
				if cfg.Scoring.Policy != "neutral" {
					t.Errorf("expected policy 'neutral', got %q", cfg.Scoring.Policy)
				}
				if cfg.Publish.Target != "s3://results/matrix" || cfg.Publish.Region != "eu-west-1" {
					t.Errorf("unexpected publish settings: %+v", cfg.Publish)
				}
			},
		},
		{
			name: "partial YAML keeps remaining defaults",
			yaml: "scoring:\n  policy: addonly\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Scoring.Policy != "addonly" {
					t.Errorf("expected policy 'addonly', got %q", cfg.Scoring.Policy)
				}
				if cfg.Columns.ForkCount != "num_forks" {
					t.Errorf("expected default fork column, got %q", cfg.Columns.ForkCount)
				}
			},
		},
		{
			name:    "invalid YAML returns error",
			yaml:    "{{invalid yaml",
			wantErr: true,
		},
		{
			name:    "empty fork column rejected",
			yaml:    "columns:\n  fork_count: \"\"\n",
			wantErr: true,
		},
		{
			name:    "multi-character delimiter rejected",
			yaml:    "columns:\n  delimiter: \"||\"\n",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write test config: %v", err)
			}

			cfg, err := Load(path)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scoring.Policy != "mismatch" {
		t.Errorf("expected default policy, got %q", cfg.Scoring.Policy)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FORKSCOPE_PUBLISH_TARGET", "gs://bucket/runs")
	t.Setenv("FORKSCOPE_PUBLISH_SECRET_KEY", "s3cr3t")

	cfg := DefaultConfig()
	cfg.Publish.Region = "us-east-1"
	cfg.ApplyEnv()

	if cfg.Publish.Target != "gs://bucket/runs" {
		t.Errorf("expected target from env, got %q", cfg.Publish.Target)
	}
	if cfg.Publish.SecretKey != "s3cr3t" {
		t.Errorf("expected secret from env, got %q", cfg.Publish.SecretKey)
	}
	if cfg.Publish.Region != "us-east-1" {
		t.Errorf("expected region kept when env unset, got %q", cfg.Publish.Region)
	}
}

func TestMarshalMasksSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Publish.SecretKey = "s3cr3t"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "s3cr3t") {
		t.Errorf("secret leaked into output:\n%s", out)
	}
	if !strings.Contains(out, "fork_count: num_forks") {
		t.Errorf("expected fork_count in output:\n%s", out)
	}
	if cfg.Publish.SecretKey != "s3cr3t" {
		t.Error("Marshal must not modify the receiver")
	}
}

func TestFindConfigFile(t *testing.T) {
	writeConfig := func(t *testing.T, root string) string {
		t.Helper()
		configDir := filepath.Join(root, ".forkscope")
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			t.Fatalf("create config dir: %v", err)
		}
		configPath := filepath.Join(configDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		return configPath
	}

	t.Run("found in current directory", func(t *testing.T) {
		root := t.TempDir()
		configPath := writeConfig(t, root)

		got := FindConfigFile(root)
		if got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("found in parent directory", func(t *testing.T) {
		root := t.TempDir()
		configPath := writeConfig(t, root)

		sub := filepath.Join(root, "a", "b", "c")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("create sub: %v", err)
		}

		got := FindConfigFile(sub)
		if got != configPath {
			t.Errorf("FindConfigFile = %q, want %q", got, configPath)
		}
	})

	t.Run("not found", func(t *testing.T) {
		root := t.TempDir()
		got := FindConfigFile(root)
		if got != "" {
			t.Errorf("FindConfigFile = %q, want empty", got)
		}
	})
}
