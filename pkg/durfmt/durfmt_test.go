package durfmt

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestUnitFor(t *testing.T) {
	tests := []struct {
		name  string
		nanos float64
		want  string
	}{
		{"one nanosecond", 1, "ns"},
		{"below microsecond", 999, "ns"},
		{"microsecond boundary", 1000, "μs"},
		{"millisecond boundary", 1000000, "ms"},
		{"below second", 999999999, "ms"},
		{"second boundary", 1000000000, "s"},
		{"minute boundary", 60000000000, "min"},
		{"hour boundary", 3600000000000, "hour"},
		{"day boundary", 86400000000000, "day"},
		{"several days", 200000000000000, "day"},
		{"positive infinity", math.Inf(1), "day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := UnitFor(tt.nanos)
			if err != nil {
				t.Fatalf("UnitFor(%v) returned error: %v", tt.nanos, err)
			}
			if unit.Name != tt.want {
				t.Errorf("UnitFor(%v) = %q, want %q", tt.nanos, unit.Name, tt.want)
			}
		})
	}
}

func TestUnitForNoMatch(t *testing.T) {
	tests := []struct {
		name  string
		nanos float64
	}{
		{"negative", -1},
		{"large negative", -1000000000},
		{"below one nanosecond", 0.5},
		{"zero", 0},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := UnitFor(tt.nanos)
			if !errors.Is(err, ErrNoMatchingUnit) {
				t.Errorf("UnitFor(%v) error = %v, want ErrNoMatchingUnit", tt.nanos, err)
			}
			if unit != (Unit{}) {
				t.Errorf("UnitFor(%v) unit = %+v, want zero Unit", tt.nanos, unit)
			}
		})
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name  string
		nanos float64
		want  string
	}{
		{"zero", 0, "0 ns"},
		{"negative", -5, "0 ns"},
		{"NaN", math.NaN(), "0 ns"},
		{"sub nanosecond", 0.25, "0 ns"},
		{"plain nanoseconds", 999, "999 ns"},
		{"exact microsecond", 1000, "1 μs"},
		{"rounded microseconds", 1001, "1.001 μs"},
		{"just under a millisecond", 999999, "999.999 μs"},
		{"rounds to three decimals", 1234567, "1.235 ms"},
		{"rounds up within unit", 999999900, "1000 ms"},
		{"trailing zeros trimmed", 1010000000, "1.01 s"},
		{"half minutes", 90000000000, "1.5 min"},
		{"exact hour", 3600000000000, "1 hour"},
		{"exact day", 86400000000000, "1 day"},
		{"positive infinity", math.Inf(1), "+Inf day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.nanos); got != tt.want {
				t.Errorf("Scale(%v) = %q, want %q", tt.nanos, got, tt.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0 ns"},
		{"negative", -time.Second, "0 ns"},
		{"milliseconds", 1500 * time.Microsecond, "1.5 ms"},
		{"seconds", 2 * time.Second, "2 s"},
		{"minutes", 90 * time.Second, "1.5 min"},
		{"days", 36 * time.Hour, "1.5 day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.d); got != tt.want {
				t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestUnitsReturnsCopy(t *testing.T) {
	first := Units()
	if len(first) != 7 {
		t.Fatalf("Units() returned %d units, want 7", len(first))
	}
	if first[0].Name != "day" || first[len(first)-1].Name != "ns" {
		t.Errorf("Units() order wrong: first %q, last %q", first[0].Name, first[len(first)-1].Name)
	}

	first[0].Name = "mutated"
	if again := Units(); again[0].Name != "day" {
		t.Errorf("mutating the returned slice changed the table: %q", again[0].Name)
	}
}
