package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/psantana5/lapse/internal/hostinfo"
	"github.com/psantana5/lapse/internal/report"
	"github.com/psantana5/lapse/pkg/logging"
	"github.com/psantana5/lapse/pkg/stopwatch"
)

var ErrNoCommand = errors.New("no command given")

// Execute runs one command to completion with the workload's output
// forwarded to the given writers, measuring it with a stopwatch. A
// non-zero exit is not an error here; it lands in the result.
func Execute(ctx context.Context, name string, command []string, stdout, stderr io.Writer) (*report.Run, error) {
	if len(command) == 0 {
		return nil, ErrNoCommand
	}

	start := time.Now()
	pid, exitCode, elapsed, err := runOnce(ctx, command, stdout, stderr)
	if err != nil {
		return nil, err
	}

	return report.NewRun(name, command, pid, exitCode, start, time.Now(), elapsed), nil
}

// Runner executes benchmark specs, discarding workload output so the
// measurement is not skewed by terminal writes.
type Runner struct {
	log *logging.Logger
}

// NewRunner creates a benchmark runner
func NewRunner(log *logging.Logger) *Runner {
	return &Runner{log: log}
}

// Run executes one spec: warmup iterations untimed, then the measured
// iterations. It aborts on the first iteration that fails to execute
// or exits non-zero, and between iterations honors ctx cancellation.
func (r *Runner) Run(ctx context.Context, spec Spec) (*report.Bench, error) {
	if len(spec.Command) == 0 {
		return nil, ErrNoCommand
	}
	iterations := spec.Iterations
	if iterations < 1 {
		iterations = 1
	}

	start := time.Now()

	for i := 0; i < spec.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, exitCode, _, err := runOnce(ctx, spec.Command, io.Discard, io.Discard); err != nil {
			return nil, fmt.Errorf("warmup %d: %w", i+1, err)
		} else if exitCode != 0 {
			return nil, fmt.Errorf("warmup %d: command exited with code %d", i+1, exitCode)
		}
	}

	samples := make([]time.Duration, 0, iterations)
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, exitCode, elapsed, err := runOnce(ctx, spec.Command, io.Discard, io.Discard)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i+1, err)
		}
		if exitCode != 0 {
			return nil, fmt.Errorf("iteration %d: command exited with code %d", i+1, exitCode)
		}
		samples = append(samples, elapsed)
		r.log.Debug("iteration complete", map[string]interface{}{
			"bench":     spec.Name,
			"iteration": i + 1,
			"elapsed":   elapsed.String(),
		})
	}

	host := hostinfo.Collect()
	return report.NewBench(spec.Name, spec.Command, start, time.Now(), spec.Warmup, samples, host), nil
}

func runOnce(ctx context.Context, command []string, stdout, stderr io.Writer) (pid, exitCode int, elapsed time.Duration, err error) {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	sw := stopwatch.NewStarted(command[0], 0)
	if err := cmd.Start(); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to start: %w", err)
	}
	pid = cmd.Process.Pid

	waitErr := cmd.Wait()
	sw.Stop()
	elapsed = sw.Elapsed()

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return pid, exitErr.ExitCode(), elapsed, nil
		}
		return pid, 0, elapsed, fmt.Errorf("failed to wait: %w", waitErr)
	}
	return pid, 0, elapsed, nil
}
