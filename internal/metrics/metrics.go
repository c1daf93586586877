// Package metrics provides Prometheus instrumentation for the quiz server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triviad"

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	ActiveSessions     prometheus.Gauge
	Registrations      prometheus.Counter
	NicknameRejections prometheus.Counter
	Answers            *prometheus.CounterVec
	QuizzesCompleted   *prometheus.CounterVec
	QuizzesAbandoned   prometheus.Counter
	ProtocolErrors     prometheus.Counter
}

// New creates the metric set on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of currently connected quiz sessions.",
		}),
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Number of accepted player registrations.",
		}),
		NicknameRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nickname_rejections_total",
			Help:      "Number of registrations rejected for a taken nickname.",
		}),
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Number of graded answers by verdict.",
		}, []string{"verdict"}),
		QuizzesCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_completed_total",
			Help:      "Number of quizzes completed to the last question, by theme.",
		}, []string{"theme"}),
		QuizzesAbandoned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quizzes_abandoned_total",
			Help:      "Number of quizzes ended early by the player.",
		}),
		ProtocolErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Number of connections closed for framing violations.",
		}),
	}
}

// Gatherer exposes the underlying registry for the /metrics endpoint
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Verdict labels for the answers counter
const (
	VerdictCorrect   = "correct"
	VerdictIncorrect = "incorrect"
)
