package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/lapse/internal/hostinfo"
)

func TestNewDurationValue(t *testing.T) {
	v := NewDurationValue(1500 * time.Millisecond)
	assert.Equal(t, int64(1500000000), v.Nanos)
	assert.Equal(t, "1.5 s", v.Human)
}

func TestNewBenchAggregates(t *testing.T) {
	start := time.Now()
	samples := []time.Duration{
		100 * time.Millisecond,
		300 * time.Millisecond,
		200 * time.Millisecond,
	}

	b := NewBench("sleep", []string{"sleep", "0.1"}, start, start.Add(time.Second), 1, samples, hostinfo.Info{Hostname: "bench-01"})

	require.Len(t, b.Iterations, 3)
	assert.Equal(t, "600 ms", b.Total.Human)
	assert.Equal(t, "100 ms", b.Min.Human)
	assert.Equal(t, "300 ms", b.Max.Human)
	assert.Equal(t, "200 ms", b.Mean.Human)
	assert.Equal(t, 1, b.Warmup)
	assert.Equal(t, "bench-01", b.Host.Hostname)
}

func TestNewBenchNoSamples(t *testing.T) {
	now := time.Now()
	b := NewBench("", []string{"true"}, now, now, 0, nil, hostinfo.Info{})

	assert.Empty(t, b.Iterations)
	assert.Equal(t, int64(0), b.Total.Nanos)
}

func TestSummaries(t *testing.T) {
	run := NewRun("", []string{"echo", "hi"}, 4242, 0, time.Now(), time.Now(), 250*time.Millisecond)
	assert.Equal(t, "exit=0 pid=4242 elapsed=250 ms", run.Summary())

	now := time.Now()
	bench := NewBench("", []string{"true"}, now, now, 0,
		[]time.Duration{time.Second, time.Second}, hostinfo.Info{})
	assert.Contains(t, bench.Summary(), "2 iterations")
	assert.Contains(t, bench.Summary(), "mean=1 s")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	run := NewRun("timed-echo", []string{"echo", "hi"}, 100, 0, time.Now(), time.Now(), time.Second)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, run))
	assert.Contains(t, buf.String(), "\n  ", "output should be indented")

	var decoded Run
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, run.Command, decoded.Command)
	assert.Equal(t, run.Elapsed, decoded.Elapsed)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	now := time.Now()
	bench := NewBench("demo", []string{"sleep", "1"}, now, now, 2,
		[]time.Duration{time.Millisecond}, hostinfo.Info{Hostname: "h"})

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, bench))

	var decoded Bench
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "demo", decoded.Name)
	assert.Equal(t, "1 ms", decoded.Min.Human)
	assert.Equal(t, "h", decoded.Host.Hostname)
}
