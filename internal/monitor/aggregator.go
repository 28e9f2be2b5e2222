package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Aggregator collects every monitor on an interval and serves the latest
// snapshot.
type Aggregator struct {
	monitors []Monitor
	state    *RuntimeState
	interval time.Duration
	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

func NewAggregator(monitors []Monitor, interval time.Duration, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		monitors: monitors,
		state:    &RuntimeState{},
		interval: interval,
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (a *Aggregator) Start(ctx context.Context) error {
	// Initial collection
	a.collect()

	if a.interval > 0 {
		go a.runLoop(ctx)
	}

	a.logger.Info("aggregator started", "interval", a.interval, "monitors", len(a.monitors))
	return nil
}

func (a *Aggregator) Stop() error {
	a.stopOnce.Do(func() {
		close(a.done)
		a.logger.Info("aggregator stopped")
	})
	return nil
}

func (a *Aggregator) GetState() *RuntimeState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Clone()
}

func (a *Aggregator) runLoop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.collect()
		case <-ctx.Done():
			return
		case <-a.done:
			return
		}
	}
}

func (a *Aggregator) collect() {
	newState := &RuntimeState{
		Timestamp: time.Now(),
	}

	for _, m := range a.monitors {
		data, err := m.Collect()
		if err != nil {
			a.logger.Warn("monitor collection failed",
				"monitor", m.Name(),
				"error", err,
			)
			continue
		}

		switch state := data.(type) {
		case *CPUState:
			newState.CPU = *state
		case *MemoryState:
			newState.Memory = *state
		case *ProcessState:
			newState.Process = *state
		}
	}

	a.mu.Lock()
	a.state = newState
	a.mu.Unlock()
}
