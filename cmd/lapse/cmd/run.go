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

var runName string

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Time a single command",
	Long: `Run executes a command under a stopwatch and reports its wall-clock
time scaled to a readable unit.

The command's stdout and stderr pass through untouched, and its exit
code becomes lapse's own exit code.

Example:
  lapse run -- sleep 2
  lapse run --name compile -- make all
  lapse run --output json -- tar czf backup.tar.gz ./data`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "label for the timed run")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	result, err := bench.Execute(ctx, runName, args, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		if err := report.WriteJSON(os.Stdout, result); err != nil {
			return err
		}
	} else {
		renderRun(result)
	}

	// Forward the workload's exit code so lapse is transparent in
	// scripts.
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}

func renderRun(result *report.Run) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	if result.Name != "" {
		table.Append("Name", result.Name)
	}
	table.Append("Command", strings.Join(result.Command, " "))
	table.Append("PID", fmt.Sprintf("%d", result.PID))
	table.Append("Exit Code", fmt.Sprintf("%d", result.ExitCode))
	table.Append("Elapsed", result.Elapsed.Human)
	table.Append("Elapsed (ns)", fmt.Sprintf("%d", result.Elapsed.Nanos))

	table.Render()
}
