package observability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Heartbeat periodically logs session counters together with process
// self-stats (RSS, CPU, OS status). It implements contract.Worker.
type Heartbeat struct {
	log      *slog.Logger
	metrics  *SessionMetrics
	interval time.Duration
}

func NewHeartbeat(log *slog.Logger, metrics *SessionMetrics, interval time.Duration) *Heartbeat {
	return &Heartbeat{log: log, metrics: metrics, interval: interval}
}

func (h *Heartbeat) Run(ctx context.Context) error {
	h.log.Info("Starting session heartbeat")
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				h.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := h.metrics.Snapshot()
			h.log.Info("Session heartbeat",
				"pid", os.Getpid(),
				"pid_status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"messages_sent", stats.MessagesSent,
				"reactions_toggled", stats.ReactionsToggled,
				"notify_failures", stats.NotifyFailures,
				"media_failures", stats.MediaFailures,
			)
		}
	}
}

// getSelfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
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
