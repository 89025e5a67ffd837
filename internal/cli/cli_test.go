package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qswap/pkg/errors"
	qio "github.com/matzehuels/qswap/pkg/io"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, logs bytes.Buffer
	c := New(&out, &logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// fastSolve keeps starting-placement acceptance loose so small searches
// finish quickly.
var fastSolve = []string{"--no-cache", "--iterations", "10", "--entangle-scaler", "2", "--distance-scaler", "100"}

func TestGenerateSolveVerify(t *testing.T) {
	dir := t.TempDir()
	graph := filepath.Join(dir, "graph.csv")
	solution := filepath.Join(dir, "solution.json")

	out, err := run(t, "generate", "--regular", "10", "--seed", "3", "-o", graph)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Generated 10 nodes, 15 edges") {
		t.Errorf("generate output:\n%s", out)
	}

	out, err = run(t, append([]string{"solve", graph, "-o", solution, "--moves"}, fastSolve...)...)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	for _, want := range []string{"Minimum swaps needed", "heavy-hex", "Apply gate", solution} {
		if !strings.Contains(out, want) {
			t.Errorf("solve output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "verify", solution)
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Solution is valid") {
		t.Errorf("verify output:\n%s", out)
	}

	f, err := qio.ImportSolution(solution)
	if err != nil {
		t.Fatal(err)
	}
	f.SwapCount++
	if err := qio.ExportSolution(f, solution); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "verify", solution)
	if !errors.Is(err, errors.ErrCodeInvariant) {
		t.Errorf("verify of a tampered file: err = %v, want INVARIANT_VIOLATION", err)
	}
	if !strings.Contains(out, "Solution is invalid") {
		t.Errorf("verify output:\n%s", out)
	}
}

func TestSolveRegularOnHex(t *testing.T) {
	out, err := run(t, append([]string{"solve", "--regular", "8", "--lattice", "hex", "--workers", "2"}, fastSolve...)...)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if strings.Contains(out, "heavy-hex") || !strings.Contains(out, "8 qubits") {
		t.Errorf("solve output:\n%s", out)
	}
}

func TestSolveErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown lattice", []string{"solve", "--regular", "8", "--lattice", "square"}, errors.ErrCodeInvalidTopology},
		{"missing file", []string{"solve", filepath.Join(t.TempDir(), "missing.csv")}, errors.ErrCodeFileNotFound},
		{"no input", []string{"solve"}, errors.ErrCodeInvalidInput},
		{"odd regular", []string{"solve", "--regular", "7"}, errors.ErrCodeInvalidInput},
		{"negative scaler", []string{"solve", "--nodes", "4", "--entangle-scaler", "-1"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--no-cache")...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestSolveUsesConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[solve]\nlattice = \"hex\"\niterations = 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "solve", "--regular", "6", "--no-cache", "--entangle-scaler", "2", "--distance-scaler", "100", "--config", cfg)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if strings.Contains(out, "heavy-hex") || !strings.Contains(out, "hex (") {
		t.Errorf("lattice from config not used:\n%s", out)
	}
}

func TestGenerateToStdout(t *testing.T) {
	out, err := run(t, "generate", "--regular", "4")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "Node1,Node2" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 1+6 {
		t.Errorf("got %d lines, want header and 6 edges", len(lines))
	}
}

func TestLatticeCommand(t *testing.T) {
	out, err := run(t, "lattice")
	if err != nil {
		t.Fatalf("lattice: %v", err)
	}
	for _, want := range []string{"heavy-hex", "hex", "Diameter"} {
		if !strings.Contains(out, want) {
			t.Errorf("lattice output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "lattice", "hex")
	if err != nil {
		t.Fatalf("lattice hex: %v", err)
	}
	for _, want := range []string{"Sites", "Couplers", "Max degree", "Diameter"} {
		if !strings.Contains(out, want) {
			t.Errorf("lattice hex output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "lattice", "square"); !errors.Is(err, errors.ErrCodeInvalidTopology) {
		t.Errorf("unknown lattice: err = %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "cache", "path", "--cache-dir", dir)
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	graphArgs := []string{"solve", "--regular", "6", "--iterations", "5", "--entangle-scaler", "2", "--distance-scaler", "100", "--cache-dir", dir}
	if _, err := run(t, graphArgs...); err != nil {
		t.Fatalf("solve: %v", err)
	}
	out, err = run(t, graphArgs...)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second solve should be cached:\n%s", out)
	}

	out, err = run(t, "cache", "clear", "--cache-dir", dir)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared the file cache") {
		t.Errorf("cache clear output:\n%s", out)
	}

	out, err = run(t, graphArgs...)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(out, iconFresh) {
		t.Errorf("solve after clear should be fresh:\n%s", out)
	}
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "qswap") {
		t.Error("bash completion should mention qswap")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Errorf("version output = %q", out)
	}
}
