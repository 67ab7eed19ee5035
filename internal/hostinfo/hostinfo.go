package hostinfo

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Info is a snapshot of the machine a measurement ran on, attached to
// benchmark reports so results carry their hardware context.
type Info struct {
	Hostname    string  `json:"hostname" yaml:"hostname"`
	Platform    string  `json:"platform" yaml:"platform"`
	KernelArch  string  `json:"kernel_arch" yaml:"kernel_arch"`
	CPUModel    string  `json:"cpu_model" yaml:"cpu_model"`
	CPUCores    int     `json:"cpu_cores" yaml:"cpu_cores"`
	CPUPercent  float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryTotal uint64  `json:"memory_total_bytes" yaml:"memory_total_bytes"`
	MemoryUsed  uint64  `json:"memory_used_bytes" yaml:"memory_used_bytes"`
}

// Collect gathers a best-effort snapshot. A failed probe leaves its
// fields zero instead of failing the snapshot; the CPU load sample
// blocks for about 100ms.
func Collect() Info {
	var info Info

	if h, err := host.Info(); err == nil {
		info.Hostname = h.Hostname
		info.Platform = fmt.Sprintf("%s %s", h.Platform, h.PlatformVersion)
		info.KernelArch = h.KernelArch
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if cores, err := cpu.Counts(true); err == nil {
		info.CPUCores = cores
	}
	if pct, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(pct) > 0 {
		info.CPUPercent = pct[0]
	}

	if vmem, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotal = vmem.Total
		info.MemoryUsed = vmem.Used
	}

	return info
}
