package monitor

import (
	"github.com/shirou/gopsutil/v4/mem"
)

// MemoryMonitor reports host RAM and swap.
type MemoryMonitor struct{}

func NewMemoryMonitor() *MemoryMonitor {
	return &MemoryMonitor{}
}

func (m *MemoryMonitor) Name() string {
	return "memory"
}

func (m *MemoryMonitor) Collect() (any, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	state := &MemoryState{
		UsedBytes:      vm.Used,
		TotalBytes:     vm.Total,
		AvailableBytes: vm.Available,
		UsagePercent:   vm.UsedPercent,
	}

	// Swap may be unavailable in containers; RAM figures are still useful.
	if sw, err := mem.SwapMemory(); err == nil {
		state.SwapUsedBytes = sw.Used
		state.SwapTotalBytes = sw.Total
	}

	return state, nil
}
