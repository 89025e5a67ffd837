package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/qswap/pkg/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("toml", func(t *testing.T) {
		path := writeConfig(t, "config.toml", `
[solve]
lattice = "hex"
iterations = 50

[cache]
backend = "badger"

[server]
rate_limit = 0.5
`)
		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig() error: %v", err)
		}
		if cfg.Solve.Lattice != "hex" || cfg.Solve.Iterations != 50 {
			t.Errorf("Solve = %+v", cfg.Solve)
		}
		if cfg.Cache.Backend != backendBadger {
			t.Errorf("Cache.Backend = %q, want badger", cfg.Cache.Backend)
		}
		if cfg.Server.RateLimit != 0.5 {
			t.Errorf("Server.RateLimit = %v, want 0.5", cfg.Server.RateLimit)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "solve:\n  workers: 4\n  no_truncate: true\n")
		cfg, err := loadConfig(path)
		if err != nil {
			t.Fatalf("loadConfig() error: %v", err)
		}
		if cfg.Solve.Workers != 4 || !cfg.Solve.NoTruncate {
			t.Errorf("Solve = %+v", cfg.Solve)
		}
	})

	t.Run("empty yaml", func(t *testing.T) {
		if _, err := loadConfig(writeConfig(t, "config.yml", "")); err != nil {
			t.Errorf("empty yaml should load, got %v", err)
		}
	})

	tests := []struct {
		name string
		file string
		body string
		want errors.Code
	}{
		{"unknown toml key", "config.toml", "[solve]\nlatice = \"hex\"\n", errors.ErrCodeInvalidConfig},
		{"unknown yaml key", "config.yaml", "solve:\n  latice: hex\n", errors.ErrCodeInvalidConfig},
		{"bad toml", "config.toml", "[solve\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.file, tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("loadConfig() error = %v, want code %s", err, tt.want)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("loadConfig() error = %v, want FILE_NOT_FOUND", err)
		}
	})
}

func TestApplyConfigKeepsCommandLine(t *testing.T) {
	var lattice string
	var iterations int
	var noTruncate bool
	cmd := &cobra.Command{Use: "solve"}
	cmd.Flags().StringVar(&lattice, "lattice", "heavy-hex", "")
	cmd.Flags().IntVar(&iterations, "iterations", 1000, "")
	cmd.Flags().BoolVar(&noTruncate, "no-truncate", false, "")
	if err := cmd.Flags().Set("iterations", "7"); err != nil {
		t.Fatal(err)
	}

	section := SolveConfig{Lattice: "hex", Iterations: 50, NoTruncate: true}
	if err := applyConfig(cmd, &section); err != nil {
		t.Fatalf("applyConfig() error: %v", err)
	}
	if lattice != "hex" {
		t.Errorf("lattice = %q, want value from config", lattice)
	}
	if iterations != 7 {
		t.Errorf("iterations = %d, command line should win", iterations)
	}
	if !noTruncate {
		t.Error("no-truncate should be set from config")
	}
}
