package bench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultIterations is used when a spec does not say how often to run
const DefaultIterations = 10

// Spec describes one benchmark: the command and how often to run it
type Spec struct {
	Name       string   `yaml:"name"`       // label carried into the report
	Command    []string `yaml:"command"`    // argv, exec'd directly (no shell)
	Iterations int      `yaml:"iterations"` // measured runs
	Warmup     int      `yaml:"warmup"`     // untimed runs beforehand
}

// Scenario is a YAML document listing benchmarks to run in order
type Scenario struct {
	Benchmarks []Spec `yaml:"benchmarks"`
}

// LoadScenario loads a scenario from a YAML file and applies defaults
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}

	if len(scenario.Benchmarks) == 0 {
		return nil, fmt.Errorf("scenario %s defines no benchmarks", path)
	}

	for i := range scenario.Benchmarks {
		spec := &scenario.Benchmarks[i]
		if len(spec.Command) == 0 {
			return nil, fmt.Errorf("benchmark %d (%s) has no command", i+1, spec.Name)
		}
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("bench-%d", i+1)
		}
		if spec.Iterations < 1 {
			spec.Iterations = DefaultIterations
		}
		if spec.Warmup < 0 {
			spec.Warmup = 0
		}
	}

	return &scenario, nil
}

// Example scenario as a string
const ExampleScenario = `# lapse benchmark scenario

benchmarks:
  # Label, command (argv, no shell), measured iterations, untimed warmup runs
  - name: shell-startup
    command: [sh, -c, "exit 0"]
    iterations: 50
    warmup: 5

  - name: read-hostname
    command: [cat, /etc/hostname]
    iterations: 20
    warmup: 3
`
