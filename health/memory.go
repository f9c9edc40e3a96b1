package health

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
)

// ErrMemoryPressure is the error of an unhealthy memory check.
var ErrMemoryPressure = errors.New("health: heap above critical threshold")

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the fraction of Limit that triggers degraded status.
	// Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the fraction of Limit that triggers unhealthy status.
	// Default: 0.95
	CriticalThreshold float64

	// Limit is the heap size considered full, in bytes. If zero, the memory
	// obtained from the OS is used.
	Limit uint64

	// ReadStats is the stats source. Default: runtime.ReadMemStats
	ReadStats func(*runtime.MemStats)
}

// MemoryChecker checks heap usage against a limit.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a new memory health checker.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}
	if config.ReadStats == nil {
		config.ReadStats = runtime.ReadMemStats
	}
	return &MemoryChecker{config: config}
}

// Name returns the name of this checker.
func (m *MemoryChecker) Name() string {
	return "memory"
}

// Check compares the live heap with the limit.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	var stats runtime.MemStats
	m.config.ReadStats(&stats)

	limit := m.config.Limit
	if limit == 0 {
		limit = stats.Sys
	}

	details := map[string]any{
		"heap_alloc":   humanize.IBytes(stats.HeapAlloc),
		"heap_objects": stats.HeapObjects,
		"sys":          humanize.IBytes(stats.Sys),
		"num_gc":       stats.NumGC,
		"goroutines":   runtime.NumGoroutine(),
	}
	if limit == 0 {
		return Healthy("memory stats unavailable").WithDetails(details)
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details["limit"] = humanize.IBytes(limit)
	details["usage_percent"] = ratio * 100
	msg := fmt.Sprintf("heap %s of %s (%.1f%%)", humanize.IBytes(stats.HeapAlloc), humanize.IBytes(limit), ratio*100)

	switch {
	case ratio >= m.config.CriticalThreshold:
		return Unhealthy(msg, ErrMemoryPressure).WithDetails(details)
	case ratio >= m.config.WarningThreshold:
		return Degraded(msg).WithDetails(details)
	default:
		return Healthy(msg).WithDetails(details)
	}
}
