package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "presetd",
			Subsystem: "backend",
			Name:      "commands_total",
			Help:      "Total backend command invocations",
		},
		[]string{"command", "outcome"},
	)

	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "presetd",
			Subsystem: "backend",
			Name:      "command_duration_seconds",
			Help:      "Duration of backend command invocations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal, commandDuration)
}

func observeCommand(command string, err error, dur time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	commandsTotal.WithLabelValues(command, outcome).Inc()
	commandDuration.WithLabelValues(command).Observe(dur.Seconds())
}
