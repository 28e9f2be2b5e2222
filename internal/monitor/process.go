package monitor

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessMonitor samples the current process.
type ProcessMonitor struct {
	proc    *process.Process
	started time.Time
	mu      sync.Mutex
}

func NewProcessMonitor() (*ProcessMonitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessMonitor{
		proc:    proc,
		started: time.Now(),
	}, nil
}

func (m *ProcessMonitor) Name() string {
	return "process"
}

func (m *ProcessMonitor) Collect() (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.proc.MemoryInfo()
	if err != nil {
		return nil, err
	}

	threads, err := m.proc.NumThreads()
	if err != nil {
		return nil, err
	}

	// Percent(0) compares against the previous call; the first call is 0.
	cpuPercent, err := m.proc.Percent(0)
	if err != nil {
		return nil, err
	}

	return &ProcessState{
		PID:           m.proc.Pid,
		RSSBytes:      mem.RSS,
		CPUPercent:    cpuPercent,
		Threads:       threads,
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: time.Since(m.started).Seconds(),
	}, nil
}
