package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/lapse/internal/bench"
	"github.com/psantana5/lapse/internal/report"
)

var (
	benchName       string
	benchIterations int
	benchWarmup     int
	benchScenario   string
	benchInit       string
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags] [-- <command> [args...]]",
	Short: "Benchmark a command over repeated runs",
	Long: `Bench runs a command several times under a stopwatch and aggregates
min, max, mean, and total across iterations. Workload output is
discarded so terminal writes do not skew the measurement.

A scenario file benchmarks several commands in one invocation; use
--init-scenario to generate a starting point.

Example:
  lapse bench -- sleep 0.1
  lapse bench --iterations 20 --warmup 3 -- gzip -k data.bin
  lapse bench --scenario benchmarks.yaml --output yaml`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVar(&benchName, "name", "", "label for the benchmark")
	benchCmd.Flags().IntVar(&benchIterations, "iterations", bench.DefaultIterations, "measured iterations per command")
	benchCmd.Flags().IntVar(&benchWarmup, "warmup", 0, "untimed warmup iterations per command")
	benchCmd.Flags().StringVar(&benchScenario, "scenario", "", "YAML scenario file with benchmark specs")
	benchCmd.Flags().StringVar(&benchInit, "init-scenario", "", "write an example scenario file to the given path and exit")
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchInit != "" {
		if err := os.WriteFile(benchInit, []byte(bench.ExampleScenario), 0644); err != nil {
			return fmt.Errorf("failed to write scenario file: %w", err)
		}
		fmt.Printf("Example scenario written to %s\n", benchInit)
		return nil
	}

	specs, err := collectSpecs(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	runner := bench.NewRunner(newLogger())
	results := make([]*report.Bench, 0, len(specs))
	for _, spec := range specs {
		result, err := runner.Run(ctx, spec)
		if err != nil {
			return err
		}
		results = append(results, result)
	}

	return renderBenches(results)
}

func collectSpecs(args []string) ([]bench.Spec, error) {
	if benchScenario != "" {
		scenario, err := bench.LoadScenario(benchScenario)
		if err != nil {
			return nil, err
		}
		return scenario.Benchmarks, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("no command given: pass one after -- or use --scenario")
	}
	return []bench.Spec{{
		Name:       benchName,
		Command:    args,
		Iterations: benchIterations,
		Warmup:     benchWarmup,
	}}, nil
}

func renderBenches(results []*report.Bench) error {
	switch outputFormat {
	case "json":
		return report.WriteJSON(os.Stdout, results)
	case "yaml":
		return report.WriteYAML(os.Stdout, results)
	default:
		for _, result := range results {
			renderBench(result)
		}
		return nil
	}
}

func renderBench(result *report.Bench) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	if result.Name != "" {
		table.Append("Name", result.Name)
	}
	table.Append("Command", strings.Join(result.Command, " "))
	table.Append("Iterations", fmt.Sprintf("%d", len(result.Iterations)))
	table.Append("Warmup", fmt.Sprintf("%d", result.Warmup))
	table.Append("Min", result.Min.Human)
	table.Append("Max", result.Max.Human)
	table.Append("Mean", result.Mean.Human)
	table.Append("Total", result.Total.Human)
	table.Append("Host", fmt.Sprintf("%s (%d cores)", result.Host.Hostname, result.Host.CPUCores))

	table.Render()
	fmt.Println(result.Summary())
}
