package report

import (
	"fmt"
	"time"

	"github.com/psantana5/lapse/internal/hostinfo"
	"github.com/psantana5/lapse/pkg/durfmt"
)

// DurationValue carries a duration as raw nanoseconds plus its scaled
// human form, so exports stay machine-parseable and readable at once.
type DurationValue struct {
	Nanos int64  `json:"nanos" yaml:"nanos"`
	Human string `json:"human" yaml:"human"`
}

// NewDurationValue builds the two renderings of d
func NewDurationValue(d time.Duration) DurationValue {
	return DurationValue{
		Nanos: d.Nanoseconds(),
		Human: durfmt.Duration(d),
	}
}

// Run is the immutable outcome of a single timed command. Built once
// at completion, then exported; never updated.
type Run struct {
	Name      string        `json:"name,omitempty" yaml:"name,omitempty"`
	Command   []string      `json:"command" yaml:"command"`
	PID       int           `json:"pid" yaml:"pid"`
	ExitCode  int           `json:"exit_code" yaml:"exit_code"`
	StartTime time.Time     `json:"start_time" yaml:"start_time"`
	EndTime   time.Time     `json:"end_time" yaml:"end_time"`
	Elapsed   DurationValue `json:"elapsed" yaml:"elapsed"`
}

// NewRun creates an immutable single-command result
func NewRun(name string, command []string, pid, exitCode int, start, end time.Time, elapsed time.Duration) *Run {
	return &Run{
		Name:      name,
		Command:   command,
		PID:       pid,
		ExitCode:  exitCode,
		StartTime: start,
		EndTime:   end,
		Elapsed:   NewDurationValue(elapsed),
	}
}

// Summary is the one-line human form, what gets grepped out of logs
func (r *Run) Summary() string {
	return fmt.Sprintf("exit=%d pid=%d elapsed=%s", r.ExitCode, r.PID, r.Elapsed.Human)
}

// Bench is the immutable outcome of a repeated measurement
type Bench struct {
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Command    []string        `json:"command" yaml:"command"`
	StartTime  time.Time       `json:"start_time" yaml:"start_time"`
	EndTime    time.Time       `json:"end_time" yaml:"end_time"`
	Warmup     int             `json:"warmup" yaml:"warmup"`
	Iterations []DurationValue `json:"iterations" yaml:"iterations"`
	Total      DurationValue   `json:"total" yaml:"total"`
	Min        DurationValue   `json:"min" yaml:"min"`
	Max        DurationValue   `json:"max" yaml:"max"`
	Mean       DurationValue   `json:"mean" yaml:"mean"`
	Host       hostinfo.Info   `json:"host" yaml:"host"`
}

// NewBench aggregates per-iteration samples into an immutable result
func NewBench(name string, command []string, start, end time.Time, warmup int, samples []time.Duration, host hostinfo.Info) *Bench {
	b := &Bench{
		Name:      name,
		Command:   command,
		StartTime: start,
		EndTime:   end,
		Warmup:    warmup,
		Host:      host,
	}
	if len(samples) == 0 {
		return b
	}

	var total time.Duration
	min, max := samples[0], samples[0]
	for _, s := range samples {
		total += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	b.Iterations = make([]DurationValue, 0, len(samples))
	for _, s := range samples {
		b.Iterations = append(b.Iterations, NewDurationValue(s))
	}
	b.Total = NewDurationValue(total)
	b.Min = NewDurationValue(min)
	b.Max = NewDurationValue(max)
	b.Mean = NewDurationValue(total / time.Duration(len(samples)))

	return b
}

// Summary is the one-line human form of the aggregate
func (b *Bench) Summary() string {
	return fmt.Sprintf("%d iterations | min=%s max=%s mean=%s total=%s",
		len(b.Iterations), b.Min.Human, b.Max.Human, b.Mean.Human, b.Total.Human)
}
