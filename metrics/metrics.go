// Package metrics provides Prometheus metrics for the poll loop.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	SweepsStarted   prometheus.Counter
	SweepsFailed    prometheus.Counter
	ChannelsChecked prometheus.Counter
	CheckErrors     prometheus.Counter

	// NotificationsEmitted counts delivered novelty signals by event class.
	NotificationsEmitted *prometheus.CounterVec
	// NotificationsDropped counts novelty signals discarded because no
	// destination or mention was configured.
	NotificationsDropped prometheus.Counter

	// Histograms (seconds)
	SweepDuration prometheus.Observer

	// Gauges
	GuildCount prometheus.Gauge
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		SweepsStarted = promauto.NewCounter(prometheus.CounterOpts{Name: "notifier_sweeps_started_total", Help: "Number of poll sweeps started"})
		SweepsFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "notifier_sweeps_failed_total", Help: "Number of poll sweeps aborted by an enumeration failure"})
		ChannelsChecked = promauto.NewCounter(prometheus.CounterOpts{Name: "notifier_channels_checked_total", Help: "Number of (guild, channel) checks performed"})
		CheckErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "notifier_check_errors_total", Help: "Number of per-channel check failures"})
		NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{Name: "notifier_notifications_emitted_total", Help: "Number of notifications handed to delivery"}, []string{"class"})
		NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{Name: "notifier_notifications_dropped_total", Help: "Number of novelty signals dropped for missing destination or mention"})
		SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "notifier_sweep_duration_seconds", Help: "Sweep duration seconds", Buckets: prometheus.DefBuckets})
		GuildCount = promauto.NewGauge(prometheus.GaugeOpts{Name: "notifier_guild_count", Help: "Number of guilds seen in the last sweep"})
	})
}
