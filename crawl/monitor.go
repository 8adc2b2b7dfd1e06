package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// DefaultMonitorInterval is how often throughput is reported.
const DefaultMonitorInterval = 60 * time.Second

// RequestCounter exposes the running number of upstream calls.
type RequestCounter interface {
	Total() int64
}

// Monitor periodically logs upstream throughput. It is read-only.
type Monitor struct {
	Counter  RequestCounter
	Queue    ladderwatch.WorkQueue
	Interval time.Duration
	Started  time.Time
	Logger   *slog.Logger
	Now      func() time.Time
}

// Report is a single throughput observation.
type Report struct {
	Requests int64
	Uptime   time.Duration
	Rate     float64 // requests per second
	Queued   int
}

// Run logs a report every Interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	interval := m.Interval
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r := m.Report()
			m.logger().Info("throughput",
				"requests", r.Requests,
				"uptime", FormatUptime(r.Uptime),
				"rate", fmt.Sprintf("%.3f req/s", r.Rate),
				"queued", r.Queued,
			)
		}
	}
}

// Report computes the current throughput.
func (m *Monitor) Report() Report {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	r := Report{
		Requests: m.Counter.Total(),
		Uptime:   now.Sub(m.Started),
	}
	if secs := r.Uptime.Seconds(); secs > 0 {
		r.Rate = float64(r.Requests) / secs
	}
	if m.Queue != nil {
		r.Queued = m.Queue.Len()
	}
	return r
}

// FormatUptime formats a duration as days, hours, minutes and seconds.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	hours := (secs % 86400) / 3600
	minutes := (secs % 3600) / 60
	seconds := secs % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func (m *Monitor) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}
