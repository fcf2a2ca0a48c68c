package service

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts engine activity. A nil *Metrics records nothing.
type Metrics struct {
	schedules *prometheus.CounterVec
	results   *prometheus.CounterVec
	rounds    prometheus.Counter
	champions *prometheus.CounterVec
	conflicts prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourney",
			Name:      "schedules_generated_total",
			Help:      "Schedules generated, by tournament kind.",
		}, []string{"kind"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourney",
			Name:      "results_recorded_total",
			Help:      "Match results recorded, by tournament kind and effect.",
		}, []string{"kind", "effect"}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tourney",
			Name:      "rounds_advanced_total",
			Help:      "Elimination rounds generated after a completed round.",
		}),
		champions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourney",
			Name:      "champions_crowned_total",
			Help:      "Tournaments completed with a champion, by kind.",
		}, []string{"kind"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tourney",
			Name:      "version_conflicts_total",
			Help:      "Writes rejected because the tournament changed underneath them.",
		}),
	}
	reg.MustRegister(m.schedules, m.results, m.rounds, m.champions, m.conflicts)
	return m
}

func (m *Metrics) scheduleGenerated(kind string) {
	if m != nil {
		m.schedules.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) resultRecorded(kind, effect string) {
	if m != nil {
		m.results.WithLabelValues(kind, effect).Inc()
	}
}

func (m *Metrics) roundAdvanced() {
	if m != nil {
		m.rounds.Inc()
	}
}

func (m *Metrics) championCrowned(kind string) {
	if m != nil {
		m.champions.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) conflict() {
	if m != nil {
		m.conflicts.Inc()
	}
}
