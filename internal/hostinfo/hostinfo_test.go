package hostinfo

import "testing"

func TestCollect(t *testing.T) {
	info := Collect()

	if info.Hostname == "" {
		t.Error("Hostname is empty")
	}
	if info.CPUCores < 1 {
		t.Errorf("CPUCores = %d, want at least 1", info.CPUCores)
	}
	if info.MemoryTotal == 0 {
		t.Error("MemoryTotal is zero")
	}
	if info.MemoryUsed > info.MemoryTotal {
		t.Errorf("MemoryUsed %d exceeds MemoryTotal %d", info.MemoryUsed, info.MemoryTotal)
	}
	if info.CPUPercent < 0 || info.CPUPercent > 100 {
		t.Errorf("CPUPercent = %f, want within [0, 100]", info.CPUPercent)
	}
}
