package bench

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/psantana5/lapse/pkg/logging"
)

func quietLogger() *logging.Logger {
	l := logging.NewLogger(logging.ERROR, false)
	l.SetOutput(io.Discard)
	return l
}

func TestExecute(t *testing.T) {
	run, err := Execute(context.Background(), "", []string{"sh", "-c", "exit 0"}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Execute(): %v", err)
	}
	if run.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", run.ExitCode)
	}
	if run.PID <= 0 {
		t.Errorf("PID = %d, want positive", run.PID)
	}
	if run.Elapsed.Nanos <= 0 {
		t.Errorf("Elapsed.Nanos = %d, want positive", run.Elapsed.Nanos)
	}
	if run.EndTime.Before(run.StartTime) {
		t.Error("EndTime before StartTime")
	}
}

func TestExecuteNonZeroExit(t *testing.T) {
	run, err := Execute(context.Background(), "", []string{"sh", "-c", "exit 3"}, io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("Execute(): %v", err)
	}
	if run.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", run.ExitCode)
	}
}

func TestExecuteNoCommand(t *testing.T) {
	if _, err := Execute(context.Background(), "", nil, io.Discard, io.Discard); !errors.Is(err, ErrNoCommand) {
		t.Errorf("error = %v, want ErrNoCommand", err)
	}
}

func TestExecuteMissingBinary(t *testing.T) {
	if _, err := Execute(context.Background(), "", []string{"lapse-no-such-binary"}, io.Discard, io.Discard); err == nil {
		t.Error("expected an error for a missing binary")
	}
}

func TestExecuteForwardsOutput(t *testing.T) {
	var stdout bytes.Buffer
	if _, err := Execute(context.Background(), "", []string{"sh", "-c", "echo hello"}, &stdout, io.Discard); err != nil {
		t.Fatalf("Execute(): %v", err)
	}
	if !strings.Contains(stdout.String(), "hello") {
		t.Errorf("stdout = %q, want it to contain %q", stdout.String(), "hello")
	}
}

func TestRunnerRun(t *testing.T) {
	r := NewRunner(quietLogger())
	spec := Spec{
		Name:       "noop",
		Command:    []string{"sh", "-c", "exit 0"},
		Iterations: 3,
		Warmup:     1,
	}

	bench, err := r.Run(context.Background(), spec)
	if err != nil {
		t.Fatalf("Run(): %v", err)
	}
	if len(bench.Iterations) != 3 {
		t.Errorf("got %d iterations, want 3", len(bench.Iterations))
	}
	if bench.Total.Nanos <= 0 {
		t.Errorf("Total.Nanos = %d, want positive", bench.Total.Nanos)
	}
	if bench.Warmup != 1 {
		t.Errorf("Warmup = %d, want 1", bench.Warmup)
	}
	if bench.Host.Hostname == "" {
		t.Error("host snapshot missing from report")
	}
}

func TestRunnerAbortsOnFailingCommand(t *testing.T) {
	r := NewRunner(quietLogger())
	spec := Spec{
		Command:    []string{"sh", "-c", "exit 1"},
		Iterations: 5,
	}

	if _, err := r.Run(context.Background(), spec); err == nil || !strings.Contains(err.Error(), "exited with code 1") {
		t.Errorf("error = %v, want iteration failure", err)
	}
}

func TestRunnerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(quietLogger())
	if _, err := r.Run(ctx, Spec{Command: []string{"sh", "-c", "exit 0"}, Iterations: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
