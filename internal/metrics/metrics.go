// Package metrics exposes match counters for Prometheus.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	MoveAccepted = "accepted"
	MoveInvalid  = "invalid"
	MoveGameOver = "game_over"
)

type Collector struct {
	moves    *prometheus.CounterVec
	finished *prometheus.CounterVec
	active   prometheus.Gauge
}

func New(reg prometheus.Registerer) *Collector {
	that := &Collector{
		moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulletconnect_moves_total",
				Help: "Moves submitted to match engines, by result",
			},
			[]string{"result"},
		),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bulletconnect_matches_finished_total",
				Help: "Matches that reached a terminal state, by outcome",
			},
			[]string{"outcome"},
		),
		active: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "bulletconnect_matches_active",
				Help: "Matches currently held in memory",
			},
		),
	}

	reg.MustRegister(that.moves, that.finished, that.active)

	return that
}

func (that *Collector) Move(result string) {
	that.moves.WithLabelValues(result).Inc()
}

// MatchFinished - outcome is the terminal state name, e.g. "won" or "timed_out".
func (that *Collector) MatchFinished(outcome string) {
	that.finished.WithLabelValues(outcome).Inc()
}

func (that *Collector) MatchStarted() {
	that.active.Inc()
}

func (that *Collector) MatchRemoved() {
	that.active.Dec()
}
