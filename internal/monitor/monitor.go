package monitor

import "time"

type Monitor interface {
	Name() string
	Collect() (any, error)
}

// CPUState is host-wide CPU usage.
type CPUState struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
	Load1        float64 `json:"load1"`
	Load5        float64 `json:"load5"`
	Load15       float64 `json:"load15"`
}

// MemoryState is host-wide memory usage.
type MemoryState struct {
	UsedBytes      uint64  `json:"used_bytes"`
	TotalBytes     uint64  `json:"total_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsagePercent   float64 `json:"usage_percent"`
	SwapUsedBytes  uint64  `json:"swap_used_bytes"`
	SwapTotalBytes uint64  `json:"swap_total_bytes"`
}

// ProcessState describes the server process itself.
type ProcessState struct {
	PID           int32   `json:"pid"`
	RSSBytes      uint64  `json:"rss_bytes"`
	CPUPercent    float64 `json:"cpu_percent"`
	Threads       int32   `json:"threads"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// RuntimeState is the latest snapshot of every monitor.
type RuntimeState struct {
	Process   ProcessState `json:"process"`
	CPU       CPUState     `json:"cpu"`
	Memory    MemoryState  `json:"memory"`
	Timestamp time.Time    `json:"timestamp"`
}

func (s *RuntimeState) Clone() *RuntimeState {
	clone := *s
	return &clone
}
