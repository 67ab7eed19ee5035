package durfmt

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNoMatchingUnit is returned by UnitFor when no unit spans the input.
// Only negative (or NaN) nanosecond counts can trigger it, since the
// smallest unit spans a single nanosecond.
var ErrNoMatchingUnit = errors.New("no matching unit")

// Unit describes a time unit as a display name and the number of
// nanoseconds one unit spans.
type Unit struct {
	Name  string  `json:"name" yaml:"name"`
	Nanos float64 `json:"nanos" yaml:"nanos"`
}

// Ordered largest to smallest; UnitFor picks the first unit whose span
// the input reaches, so exact boundaries resolve to the larger unit.
var units = []Unit{
	{Name: "day", Nanos: float64(24 * time.Hour)},
	{Name: "hour", Nanos: float64(time.Hour)},
	{Name: "min", Nanos: float64(time.Minute)},
	{Name: "s", Nanos: float64(time.Second)},
	{Name: "ms", Nanos: float64(time.Millisecond)},
	{Name: "μs", Nanos: float64(time.Microsecond)},
	{Name: "ns", Nanos: 1},
}

// Units returns a copy of the unit table, ordered largest to smallest.
func Units() []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// UnitFor returns the largest unit whose span is at most nanos, so
// 60000000000 maps to "min" rather than "s". Inputs below one
// nanosecond match nothing and return ErrNoMatchingUnit.
func UnitFor(nanos float64) (Unit, error) {
	for _, u := range units {
		if u.Nanos <= nanos {
			return u, nil
		}
	}
	return Unit{}, ErrNoMatchingUnit
}

// Scale renders a nanosecond count in its largest reachable unit with
// up to three decimal places, trailing zeros trimmed: 1500 becomes
// "1.5 μs", 1000000 becomes "1 ms". Inputs below one nanosecond render
// as "0 ns"; Scale never fails.
func Scale(nanos float64) string {
	if nanos < 1 {
		return "0 ns"
	}
	unit, err := UnitFor(nanos)
	if err != nil {
		// NaN fails every comparison and lands here.
		return "0 ns"
	}
	return trimTrailingZeros(strconv.FormatFloat(nanos/unit.Nanos, 'f', 3, 64)) + " " + unit.Name
}

// Duration renders a time.Duration through Scale.
func Duration(d time.Duration) string {
	return Scale(float64(d.Nanoseconds()))
}

func trimTrailingZeros(s string) string {
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
