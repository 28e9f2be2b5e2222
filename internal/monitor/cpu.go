package monitor

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
)

// CPUMonitor reports host CPU usage since the previous sample, the logical
// core count and the load averages.
type CPUMonitor struct{}

func NewCPUMonitor() *CPUMonitor {
	return &CPUMonitor{}
}

func (m *CPUMonitor) Name() string {
	return "cpu"
}

func (m *CPUMonitor) Collect() (any, error) {
	cores, err := cpu.Counts(true)
	if err != nil {
		return nil, err
	}
	state := &CPUState{Cores: cores}

	// Interval 0 compares against the previous call; the first sample is 0.
	if usage, err := cpu.Percent(0, false); err != nil {
		return nil, err
	} else if len(usage) > 0 {
		state.UsagePercent = usage[0]
	}

	// Load averages are not available on every platform.
	if avg, err := load.Avg(); err == nil {
		state.Load1 = avg.Load1
		state.Load5 = avg.Load5
		state.Load15 = avg.Load15
	}

	return state, nil
}
