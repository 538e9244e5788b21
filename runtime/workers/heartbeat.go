package workers

import (
	"context"
	"log/slog"
	"os"
	"pawmatch/contract"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HeartbeatWorker sweeps dead connections out of the registry and logs the
// health of the process on every tick.
type HeartbeatWorker struct {
	log      *slog.Logger
	registry contract.IRegistry
	interval time.Duration
	restarts func() int64
}

func NewHeartbeatWorker(log *slog.Logger, registry contract.IRegistry, interval time.Duration, restarts func() int64) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, registry: registry, interval: interval, restarts: restarts}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Beat(p)
		}
	}
}

// Beat runs one sweep. p may be nil, process stats are then skipped.
func (w *HeartbeatWorker) Beat(p *process.Process) int {
	pruned := w.registry.Prune()
	channels, connections := w.registry.Stats()
	attrs := []any{"pruned", pruned, "channels", channels, "connections", connections}
	if w.restarts != nil {
		attrs = append(attrs, "worker_restarts", w.restarts())
	}
	if p != nil {
		if rss, cpu, status, err := selfStats(p); err == nil {
			attrs = append(attrs, "rss_bytes", rss, "cpu_percent", cpu, "status", status)
		} else {
			w.log.Debug("Failed to collect self stats", "error", err)
		}
	}
	w.log.Info("Heartbeat", attrs...)
	return pruned
}

func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
