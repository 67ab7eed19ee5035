package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
benchmarks:
  - name: quick
    command: [sh, -c, "exit 0"]
    iterations: 5
    warmup: 2
  - command: [cat, /etc/hostname]
`)

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario(): %v", err)
	}
	if len(scenario.Benchmarks) != 2 {
		t.Fatalf("got %d benchmarks, want 2", len(scenario.Benchmarks))
	}

	first := scenario.Benchmarks[0]
	if first.Name != "quick" || first.Iterations != 5 || first.Warmup != 2 {
		t.Errorf("first spec = %+v, want the file's values", first)
	}

	// Unnamed spec gets a positional name and default iterations.
	second := scenario.Benchmarks[1]
	if second.Name != "bench-2" {
		t.Errorf("second spec name = %q, want %q", second.Name, "bench-2")
	}
	if second.Iterations != DefaultIterations {
		t.Errorf("second spec iterations = %d, want %d", second.Iterations, DefaultIterations)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty document", "benchmarks: []\n", "no benchmarks"},
		{"missing command", "benchmarks:\n  - name: broken\n", "has no command"},
		{"invalid yaml", "benchmarks: [\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, tt.content)
			if _, err := LoadScenario(path); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestExampleScenarioIsLoadable(t *testing.T) {
	path := writeScenario(t, ExampleScenario)

	scenario, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("the shipped example does not load: %v", err)
	}
	if len(scenario.Benchmarks) == 0 {
		t.Error("the shipped example defines no benchmarks")
	}
}
